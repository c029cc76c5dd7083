package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a synced bank account row in the accounts table.
type Account struct {
	ID            string          `db:"id"`
	Type          string          `db:"type"`
	DisplayName   string          `db:"display_name"`
	AccountType   string          `db:"account_type"`
	OwnershipType string          `db:"ownership_type"`
	Balance       decimal.Decimal `db:"balance"`
	Currency      string          `db:"currency"`
	ValueStr      string          `db:"value_str"`
	ValueBase     int64           `db:"value_base"`
	CreatedAt     time.Time       `db:"created_at"`
}
