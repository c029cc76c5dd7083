package domain

import "time"

// Transaction represents a single transaction as synced from the Up API.
// CreatedAt drives incremental watermarking; SettledAt is nil while the
// transaction is still HELD.
type Transaction struct {
	ID                 string     `json:"id"`        // Primary Key, assigned by Up
	AccountID          string     `json:"accountID"` // FK -> accounts.id
	Status             string     `json:"status"`    // HELD or SETTLED
	RawText            *string    `json:"rawText"`   // Nullable merchant raw text
	Description        string     `json:"description"`
	Message            *string    `json:"message"` // Nullable payment message
	Categorizable      bool       `json:"categorizable"`
	Currency           string     `json:"currency"` // ISO 4217 code
	ValueStr           string     `json:"valueStr"` // Amount exactly as the API sent it
	ValueBase          int64      `json:"valueBase"`
	CardPurchaseSuffix *string    `json:"cardPurchaseSuffix"` // Last digits of the card used, if any
	SettledAt          *time.Time `json:"settledAt"`
	CreatedAt          time.Time  `json:"createdAt"`
}
