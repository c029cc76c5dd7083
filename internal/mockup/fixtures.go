package mockup

import (
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

// SeedSampleData loads a pair of accounts with a handful of recent
// transactions, enough to exercise a full sync run locally.
func (s *Server) SeedSampleData() {
	now := time.Now().UTC().Truncate(time.Second)

	spending := AccountFixture{
		ID:            uuid.NewString(),
		DisplayName:   "Spending",
		AccountType:   "TRANSACTIONAL",
		OwnershipType: "INDIVIDUAL",
		Value:         "128.51",
		ValueBase:     12851,
		Currency:      "AUD",
		CreatedAt:     now.AddDate(-1, 0, 0),
	}
	saver := AccountFixture{
		ID:            uuid.NewString(),
		DisplayName:   "Rainy Day",
		AccountType:   "SAVER",
		OwnershipType: "INDIVIDUAL",
		Value:         "4200.00",
		ValueBase:     420000,
		Currency:      "AUD",
		CreatedAt:     now.AddDate(-1, 0, 0),
	}
	s.SeedAccount(spending)
	s.SeedAccount(saver)

	settled := now.Add(-46 * time.Hour)
	s.SeedTransaction(spending.ID, TransactionFixture{
		ID:            uuid.NewString(),
		Status:        "SETTLED",
		RawText:       strPtr("COFFEE CO PTY LTD"),
		Description:   "Coffee Co",
		Categorizable: true,
		Value:         "-5.50",
		ValueBase:     -550,
		Currency:      "AUD",
		CardSuffix:    strPtr("1234"),
		SettledAt:     &settled,
		CreatedAt:     now.Add(-48 * time.Hour),
	})
	s.SeedTransaction(spending.ID, TransactionFixture{
		ID:            uuid.NewString(),
		Status:        "HELD",
		Description:   "Grocer on High St",
		Categorizable: true,
		Value:         "-42.17",
		ValueBase:     -4217,
		Currency:      "AUD",
		CreatedAt:     now.Add(-2 * time.Hour),
	})
	s.SeedTransaction(saver.ID, TransactionFixture{
		ID:            uuid.NewString(),
		Status:        "SETTLED",
		Description:   "Transfer from Spending",
		Message:       strPtr("Weekly savings"),
		Categorizable: false,
		Value:         "100.00",
		ValueBase:     10000,
		Currency:      "AUD",
		SettledAt:     &now,
		CreatedAt:     now.Add(-24 * time.Hour),
	})
}
