package models

import "time"

// Transaction represents a synced transaction row in the transactions table.
// Pointer fields map to nullable columns.
type Transaction struct {
	ID                 string     `db:"id"`
	AccountID          string     `db:"account_id"`
	Status             string     `db:"status"`
	RawText            *string    `db:"raw_text"`
	Description        string     `db:"description"`
	Message            *string    `db:"message"`
	Categorizable      bool       `db:"categorizable"`
	Currency           string     `db:"currency"`
	ValueStr           string     `db:"value_str"`
	ValueBase          int64      `db:"value_base"`
	CardPurchaseSuffix *string    `db:"card_purchase_suffix"`
	SettledAt          *time.Time `db:"settled_at"`
	CreatedAt          time.Time  `db:"created_at"`
}
