package upapi

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"upsync/internal/apperrors"
	"upsync/internal/core/domain"
)

var errMissingID = errors.New("record has no id")

// ParseAccount decodes one account resource into the domain representation.
// Malformed records return an *apperrors.ParseError.
func ParseAccount(res Resource) (domain.Account, error) {
	if res.ID == "" {
		return domain.Account{}, &apperrors.ParseError{ResourceType: "accounts", Err: errMissingID}
	}

	var attrs accountAttributes
	if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
		return domain.Account{}, &apperrors.ParseError{ResourceType: "accounts", RecordID: res.ID, Err: err}
	}

	balance, err := decimal.NewFromString(attrs.Balance.Value)
	if err != nil {
		return domain.Account{}, &apperrors.ParseError{ResourceType: "accounts", RecordID: res.ID, Err: err}
	}

	return domain.Account{
		ID:            res.ID,
		Type:          res.Type,
		DisplayName:   attrs.DisplayName,
		AccountType:   attrs.AccountType,
		OwnershipType: attrs.OwnershipType,
		Balance:       balance,
		Currency:      attrs.Balance.CurrencyCode,
		ValueStr:      attrs.Balance.Value,
		ValueBase:     attrs.Balance.ValueInBaseUnits,
		CreatedAt:     attrs.CreatedAt,
	}, nil
}

// ParseTransaction decodes one transaction resource into the domain
// representation, attributing it to the account whose listing produced it.
func ParseTransaction(res Resource, accountID string) (domain.Transaction, error) {
	if res.ID == "" {
		return domain.Transaction{}, &apperrors.ParseError{ResourceType: "transactions", Err: errMissingID}
	}

	var attrs transactionAttributes
	if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
		return domain.Transaction{}, &apperrors.ParseError{ResourceType: "transactions", RecordID: res.ID, Err: err}
	}

	var cardSuffix *string
	if attrs.CardPurchaseMethod != nil {
		cardSuffix = attrs.CardPurchaseMethod.CardNumberSuffix
	}

	return domain.Transaction{
		ID:                 res.ID,
		AccountID:          accountID,
		Status:             attrs.Status,
		RawText:            attrs.RawText,
		Description:        attrs.Description,
		Message:            attrs.Message,
		Categorizable:      attrs.IsCategorizable,
		Currency:           attrs.Amount.CurrencyCode,
		ValueStr:           attrs.Amount.Value,
		ValueBase:          attrs.Amount.ValueInBaseUnits,
		CardPurchaseSuffix: cardSuffix,
		SettledAt:          attrs.SettledAt,
		CreatedAt:          attrs.CreatedAt,
	}, nil
}
