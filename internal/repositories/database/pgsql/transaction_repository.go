package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"upsync/internal/apperrors"
	"upsync/internal/core/domain"
	portsrepo "upsync/internal/core/ports/repositories"
	"upsync/internal/models"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for synced transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction for DB storage
func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		ID:                 d.ID,
		AccountID:          d.AccountID,
		Status:             d.Status,
		RawText:            d.RawText,
		Description:        d.Description,
		Message:            d.Message,
		Categorizable:      d.Categorizable,
		Currency:           d.Currency,
		ValueStr:           d.ValueStr,
		ValueBase:          d.ValueBase,
		CardPurchaseSuffix: d.CardPurchaseSuffix,
		SettledAt:          d.SettledAt,
		CreatedAt:          d.CreatedAt,
	}
}

// UpsertTransaction inserts the transaction or fully replaces the existing
// row with the same primary key. A transaction whose account_id references a
// missing account fails the foreign key check here; that is this store's
// responsibility, not the sync engine's.
func (r *PgxTransactionRepository) UpsertTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (id, account_id, status, raw_text, description, message, categorizable, currency, value_str, value_base, card_purchase_suffix, settled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			status = EXCLUDED.status,
			raw_text = EXCLUDED.raw_text,
			description = EXCLUDED.description,
			message = EXCLUDED.message,
			categorizable = EXCLUDED.categorizable,
			currency = EXCLUDED.currency,
			value_str = EXCLUDED.value_str,
			value_base = EXCLUDED.value_base,
			card_purchase_suffix = EXCLUDED.card_purchase_suffix,
			settled_at = EXCLUDED.settled_at,
			created_at = EXCLUDED.created_at;
	`

	_, err := r.pool.Exec(ctx, query,
		modelTxn.ID,
		modelTxn.AccountID,
		modelTxn.Status,
		modelTxn.RawText,
		modelTxn.Description,
		modelTxn.Message,
		modelTxn.Categorizable,
		modelTxn.Currency,
		modelTxn.ValueStr,
		modelTxn.ValueBase,
		modelTxn.CardPurchaseSuffix,
		modelTxn.SettledAt,
		modelTxn.CreatedAt,
	)
	if err != nil {
		return &apperrors.StoreError{RecordID: modelTxn.ID, Err: err}
	}
	return nil
}

// MaxTransactionCreatedAt returns the latest created_at among the account's
// stored transactions, or nil when the account has none.
func (r *PgxTransactionRepository) MaxTransactionCreatedAt(ctx context.Context, accountID string) (*time.Time, error) {
	query := `SELECT max(created_at) FROM transactions WHERE account_id = $1;`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to query max created_at for account %s: %w", accountID, err)
	}
	return latest, nil
}
