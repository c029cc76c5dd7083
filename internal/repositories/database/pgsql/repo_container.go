package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "upsync/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories. The shared pool is
// safe for concurrent use, so every concurrent account task checks out its
// own connection rather than sharing a session.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
	}
}
