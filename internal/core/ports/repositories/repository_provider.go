package repositories

// RepositoryProvider bundles the store repositories for injection into the
// sync engine.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
}
