package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account as synced from the Up API.
// This is the primary representation used by the sync engine; the store owns
// the persisted copy.
type Account struct {
	ID            string          `json:"id"`            // Primary Key, assigned by Up, stable across syncs
	Type          string          `json:"type"`          // Resource type, always "accounts"
	DisplayName   string          `json:"displayName"`   // User-visible account name
	AccountType   string          `json:"accountType"`   // SAVER, TRANSACTIONAL, HOME_LOAN
	OwnershipType string          `json:"ownershipType"` // INDIVIDUAL or JOINT
	Balance       decimal.Decimal `json:"balance"`       // Current balance as a decimal
	Currency      string          `json:"currency"`      // ISO 4217 code
	ValueStr      string          `json:"valueStr"`      // Balance exactly as the API sent it
	ValueBase     int64           `json:"valueBase"`     // Balance in minor units (cents)
	CreatedAt     time.Time       `json:"createdAt"`
}

// AccountRef identifies an account for transaction sync targeting.
// The orchestrator needs nothing beyond identity and display name.
type AccountRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}
