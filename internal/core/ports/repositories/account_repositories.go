package repositories

import (
	"context"

	"upsync/internal/core/domain"
)

// AccountReader defines read operations for synced account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountRefs retrieves the identity and display name of every known
	// account. This is everything the transaction orchestrator needs to
	// target its per-account syncs.
	ListAccountRefs(ctx context.Context) ([]domain.AccountRef, error)
}

// AccountWriter defines write operations for synced account data.
type AccountWriter interface {
	// UpsertAccount inserts the account or fully replaces the existing row
	// with the same primary key. Every column is overwritten; repeated
	// upserts of the same payload are idempotent.
	UpsertAccount(ctx context.Context, account domain.Account) error
}

// AccountRepository combines read and write access to stored accounts.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
