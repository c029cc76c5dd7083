package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"upsync/internal/adapters/upapi"
	"upsync/internal/apperrors"
	"upsync/internal/core/domain"
	portsrepo "upsync/internal/core/ports/repositories"
	portssvc "upsync/internal/core/ports/services"
)

// DefaultLookbackDays is the fallback sync window for accounts with no
// stored transaction history.
const DefaultLookbackDays = 30

// sinceLayout renders UTC timestamps as 2006-01-02T15:04:05+00:00, the
// canonical form of the API's filter[since] parameter.
const sinceLayout = "2006-01-02T15:04:05-07:00"

// syncServiceImpl implements the SyncSvc interface.
type syncServiceImpl struct {
	client              *upapi.Client
	accountRepo         portsrepo.AccountRepository
	txnRepo             portsrepo.TransactionRepository
	logger              *slog.Logger
	lookbackDays        *int // explicit caller override; nil resolves per account
	defaultLookbackDays int
	now                 func() time.Time
}

// SyncServiceOption is a functional option for configuring the sync service.
type SyncServiceOption func(*syncServiceImpl)

// WithLookbackDays forces the watermark for every account to now minus the
// given number of days, overriding stored history. Zero is honoured and means
// "from now".
func WithLookbackDays(days int) SyncServiceOption {
	return func(s *syncServiceImpl) {
		s.lookbackDays = &days
	}
}

// WithDefaultLookbackDays overrides the fallback window used for accounts
// with no stored transactions.
func WithDefaultLookbackDays(days int) SyncServiceOption {
	return func(s *syncServiceImpl) {
		s.defaultLookbackDays = days
	}
}

// WithClock overrides the service's time source.
func WithClock(now func() time.Time) SyncServiceOption {
	return func(s *syncServiceImpl) {
		s.now = now
	}
}

// NewSyncService creates the sync engine with the provided options.
func NewSyncService(client *upapi.Client, accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, logger *slog.Logger, options ...SyncServiceOption) portssvc.SyncSvc {
	svc := &syncServiceImpl{
		client:              client,
		accountRepo:         accountRepo,
		txnRepo:             txnRepo,
		logger:              logger,
		defaultLookbackDays: DefaultLookbackDays,
		now:                 time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.SyncSvc = (*syncServiceImpl)(nil)

// Authenticate probes the bearer token against the API's ping endpoint.
func (s *syncServiceImpl) Authenticate(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		s.logger.Error("Failed to authenticate with Up", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// SyncAccounts performs a full refetch of every account. Accounts are
// low-cardinality and carry a live balance, so there is no watermark here;
// every run replaces every row.
func (s *syncServiceImpl) SyncAccounts(ctx context.Context) (domain.SyncResult, error) {
	s.logger.Info("Syncing accounts")

	var result domain.SyncResult
	pager := s.client.Accounts()
	for pager.HasNext() {
		page, err := pager.Next(ctx)
		if err != nil {
			// Fetch failures kill the listing; records already upserted stand.
			return result, fmt.Errorf("account sync aborted: %w", err)
		}

		for _, res := range page.Data {
			result.Processed++
			account, err := upapi.ParseAccount(res)
			if err != nil {
				result.Failed++
				s.logger.Warn("Skipping malformed account record",
					slog.String("account_id", res.ID),
					slog.String("error", err.Error()))
				continue
			}
			if err := s.accountRepo.UpsertAccount(ctx, account); err != nil {
				result.Failed++
				s.logger.Warn("Failed to upsert account",
					slog.String("account_id", account.ID),
					slog.String("error", err.Error()))
			}
		}
		s.logger.Info("Synced account page", slog.Int("records", len(page.Data)))
	}

	s.logger.Info("Successfully synced accounts",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed))
	return result, nil
}

// SyncTransactions fans out one sync task per target account and joins on
// them all. Every task's outcome is returned, success or failure; a failed
// task never cancels its siblings, while cancelling ctx cancels them all.
func (s *syncServiceImpl) SyncTransactions(ctx context.Context, accountIDs []string) ([]domain.AccountSyncResult, error) {
	refs, err := s.targetAccounts(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target accounts: %w", err)
	}

	results := make([]domain.AccountSyncResult, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref domain.AccountRef) {
			defer wg.Done()
			results[i] = s.syncAccountTransactions(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	return results, nil
}

// targetAccounts resolves the set of accounts to sync: the explicit IDs when
// given, otherwise every account known to the store.
func (s *syncServiceImpl) targetAccounts(ctx context.Context, accountIDs []string) ([]domain.AccountRef, error) {
	if len(accountIDs) == 0 {
		return s.accountRepo.ListAccountRefs(ctx)
	}

	refs := make([]domain.AccountRef, 0, len(accountIDs))
	for _, id := range accountIDs {
		ref := domain.AccountRef{ID: id}
		// Display name is log decoration only; an unknown ID still syncs.
		account, err := s.accountRepo.FindAccountByID(ctx, id)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if account != nil {
			ref.DisplayName = account.DisplayName
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// syncAccountTransactions runs one account's incremental sync: resolve the
// watermark, then page through transactions created on or after it.
func (s *syncServiceImpl) syncAccountTransactions(ctx context.Context, ref domain.AccountRef) domain.AccountSyncResult {
	result := domain.AccountSyncResult{AccountID: ref.ID, DisplayName: ref.DisplayName}
	logger := s.logger.With(
		slog.String("account_id", ref.ID),
		slog.String("display_name", ref.DisplayName))

	since, err := s.resolveSince(ctx, ref.ID)
	if err != nil {
		result.Err = fmt.Errorf("failed to resolve watermark: %w", err)
		return result
	}

	logger.Info("Syncing transactions", slog.String("since", since))

	pager := s.client.Transactions(ref.ID, since)
	for pager.HasNext() {
		page, err := pager.Next(ctx)
		if err != nil {
			result.Err = fmt.Errorf("transaction sync aborted: %w", err)
			return result
		}

		for _, res := range page.Data {
			result.Processed++
			txn, err := upapi.ParseTransaction(res, ref.ID)
			if err != nil {
				result.Failed++
				logger.Warn("Skipping malformed transaction record",
					slog.String("transaction_id", res.ID),
					slog.String("error", err.Error()))
				continue
			}
			if err := s.txnRepo.UpsertTransaction(ctx, txn); err != nil {
				result.Failed++
				logger.Warn("Failed to upsert transaction",
					slog.String("transaction_id", txn.ID),
					slog.String("error", err.Error()))
			}
		}
	}

	logger.Info("Successfully synced transactions",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed))
	return result
}

// resolveSince computes the account's watermark. An explicit lookback wins;
// otherwise the latest stored transaction; otherwise the default window.
// Resolved fresh on every call, never cached across runs.
func (s *syncServiceImpl) resolveSince(ctx context.Context, accountID string) (string, error) {
	if s.lookbackDays != nil {
		return s.lookbackSince(*s.lookbackDays), nil
	}

	latest, err := s.txnRepo.MaxTransactionCreatedAt(ctx, accountID)
	if err != nil {
		return "", err
	}
	if latest != nil {
		return latest.UTC().Truncate(time.Second).Format(sinceLayout), nil
	}

	return s.lookbackSince(s.defaultLookbackDays), nil
}

func (s *syncServiceImpl) lookbackSince(days int) string {
	return s.now().UTC().AddDate(0, 0, -days).Truncate(time.Second).Format(sinceLayout)
}

// Sync runs the full pipeline: full account refresh, then the concurrent
// per-account transaction sync over every known account. Callers are
// expected to have passed Authenticate first.
func (s *syncServiceImpl) Sync(ctx context.Context) (*domain.SyncSummary, error) {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))

	logger.Info("Starting sync")

	summary := &domain.SyncSummary{RunID: runID}

	accounts, err := s.SyncAccounts(ctx)
	summary.Accounts = accounts
	if err != nil {
		return summary, err
	}

	transactions, err := s.SyncTransactions(ctx, nil)
	summary.Transactions = transactions
	if err != nil {
		return summary, err
	}

	for _, r := range summary.Failures() {
		logger.Error("Account sync task failed",
			slog.String("account_id", r.AccountID),
			slog.String("error", r.Err.Error()))
	}

	logger.Info("Sync complete",
		slog.Int("accounts_processed", summary.Accounts.Processed),
		slog.Int("account_tasks", len(summary.Transactions)),
		slog.Int("failed_tasks", len(summary.Failures())))
	return summary, nil
}
