package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"upsync/internal/apperrors"
	"upsync/internal/core/domain"
	portsrepo "upsync/internal/core/ports/repositories"
	"upsync/internal/models"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for synced account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		ID:            d.ID,
		Type:          d.Type,
		DisplayName:   d.DisplayName,
		AccountType:   d.AccountType,
		OwnershipType: d.OwnershipType,
		Balance:       d.Balance,
		Currency:      d.Currency,
		ValueStr:      d.ValueStr,
		ValueBase:     d.ValueBase,
		CreatedAt:     d.CreatedAt,
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		ID:            m.ID,
		Type:          m.Type,
		DisplayName:   m.DisplayName,
		AccountType:   m.AccountType,
		OwnershipType: m.OwnershipType,
		Balance:       m.Balance,
		Currency:      m.Currency,
		ValueStr:      m.ValueStr,
		ValueBase:     m.ValueBase,
		CreatedAt:     m.CreatedAt,
	}
}

// UpsertAccount inserts the account or fully replaces the existing row with
// the same primary key. Every column is overwritten, so replaying the same
// payload is idempotent and a changed payload leaves no stale fields behind.
func (r *PgxAccountRepository) UpsertAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (id, type, display_name, account_type, ownership_type, balance, currency, value_str, value_base, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			display_name = EXCLUDED.display_name,
			account_type = EXCLUDED.account_type,
			ownership_type = EXCLUDED.ownership_type,
			balance = EXCLUDED.balance,
			currency = EXCLUDED.currency,
			value_str = EXCLUDED.value_str,
			value_base = EXCLUDED.value_base,
			created_at = EXCLUDED.created_at;
	`

	_, err := r.pool.Exec(ctx, query,
		modelAcc.ID,
		modelAcc.Type,
		modelAcc.DisplayName,
		modelAcc.AccountType,
		modelAcc.OwnershipType,
		modelAcc.Balance,
		modelAcc.Currency,
		modelAcc.ValueStr,
		modelAcc.ValueBase,
		modelAcc.CreatedAt,
	)
	if err != nil {
		return &apperrors.StoreError{RecordID: modelAcc.ID, Err: err}
	}
	return nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT id, type, display_name, account_type, ownership_type, balance, currency, value_str, value_base, created_at
		FROM accounts
		WHERE id = $1;
	`

	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.ID,
		&modelAcc.Type,
		&modelAcc.DisplayName,
		&modelAcc.AccountType,
		&modelAcc.OwnershipType,
		&modelAcc.Balance,
		&modelAcc.Currency,
		&modelAcc.ValueStr,
		&modelAcc.ValueBase,
		&modelAcc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	account := toDomainAccount(modelAcc)
	return &account, nil
}

// ListAccountRefs retrieves the identity and display name of every stored
// account, which is all the transaction orchestrator needs for targeting.
func (r *PgxAccountRepository) ListAccountRefs(ctx context.Context) ([]domain.AccountRef, error) {
	query := `SELECT id, display_name FROM accounts ORDER BY display_name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var refs []domain.AccountRef
	for rows.Next() {
		var ref domain.AccountRef
		if err := rows.Scan(&ref.ID, &ref.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}
	return refs, nil
}
