package repositories

import (
	"context"
	"time"

	"upsync/internal/core/domain"
)

// TransactionReader defines read operations for synced transaction data.
type TransactionReader interface {
	// MaxTransactionCreatedAt returns the latest created_at among the
	// account's stored transactions, or nil when none exist. The watermark
	// resolver uses this as the incremental sync lower bound.
	MaxTransactionCreatedAt(ctx context.Context, accountID string) (*time.Time, error)
}

// TransactionWriter defines write operations for synced transaction data.
type TransactionWriter interface {
	// UpsertTransaction inserts the transaction or fully replaces the
	// existing row with the same primary key.
	UpsertTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepository combines read and write access to stored transactions.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
