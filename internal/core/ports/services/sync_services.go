package services

import (
	"context"

	"upsync/internal/core/domain"
)

// SyncSvc drives synchronization of accounts and transactions from the Up
// API into the store.
type SyncSvc interface {
	// Authenticate probes the API token. Returns *apperrors.AuthenticationError
	// when the probe fails; a failed probe is fatal to the whole run.
	Authenticate(ctx context.Context) error

	// SyncAccounts performs a full, unfiltered refetch of every account and
	// upserts each one. The returned result counts every record processed,
	// failed upserts included.
	SyncAccounts(ctx context.Context) (domain.SyncResult, error)

	// SyncTransactions syncs transactions for the given accounts, or for
	// every account known to the store when accountIDs is empty. Accounts
	// are synced concurrently; the call joins on all of them and returns
	// one result per account, failures included, never dropping an outcome.
	SyncTransactions(ctx context.Context, accountIDs []string) ([]domain.AccountSyncResult, error)

	// Sync runs the full pipeline: sync accounts, then sync transactions for
	// every account. Callers authenticate first. The summary is non-nil even
	// when account tasks failed; task failures live in the summary, and only
	// listing-level failures surface as the error.
	Sync(ctx context.Context) (*domain.SyncSummary, error)
}
