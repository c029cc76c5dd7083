package upapi

import (
	"encoding/json"
	"time"
)

// Page is one page of a paginated Up API listing. Links.Next carries the
// absolute URL of the following page, or nil on the last page.
type Page struct {
	Data  []Resource `json:"data"`
	Links PageLinks  `json:"links"`
}

// PageLinks holds the pagination links of a page.
type PageLinks struct {
	Next *string `json:"next"`
}

// Resource is a single record on a page. Attributes are kept raw until the
// caller knows which resource type to decode them as.
type Resource struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

// MoneyObject is the API's representation of a monetary amount.
type MoneyObject struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`
	ValueInBaseUnits int64  `json:"valueInBaseUnits"`
}

type accountAttributes struct {
	DisplayName   string      `json:"displayName"`
	AccountType   string      `json:"accountType"`
	OwnershipType string      `json:"ownershipType"`
	Balance       MoneyObject `json:"balance"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type transactionAttributes struct {
	Status             string              `json:"status"`
	RawText            *string             `json:"rawText"`
	Description        string              `json:"description"`
	Message            *string             `json:"message"`
	IsCategorizable    bool                `json:"isCategorizable"`
	Amount             MoneyObject         `json:"amount"`
	CardPurchaseMethod *cardPurchaseMethod `json:"cardPurchaseMethod"`
	SettledAt          *time.Time          `json:"settledAt"`
	CreatedAt          time.Time           `json:"createdAt"`
}

type cardPurchaseMethod struct {
	Method           string  `json:"method"`
	CardNumberSuffix *string `json:"cardNumberSuffix"`
}
