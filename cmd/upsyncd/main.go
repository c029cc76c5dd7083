package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"upsync/internal/adapters/upapi"
	"upsync/internal/core/services"
	"upsync/internal/repositories/database/pgsql"
	"upsync/pkg/config"
	"upsync/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	lookback := flag.Int("lookback", -1, "sync transactions from this many days ago instead of each account's watermark")
	accountIDs := flag.StringSlice("accounts", nil, "restrict transaction sync to these account IDs")
	flag.Parse()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := upapi.NewClient(cfg.UpAPIBaseURL, cfg.UpToken)
	repos := pgsql.NewRepositoryProvider(dbPool)

	options := []services.SyncServiceOption{
		services.WithDefaultLookbackDays(cfg.DefaultLookbackDays),
	}
	if *lookback >= 0 {
		options = append(options, services.WithLookbackDays(*lookback))
	}
	syncSvc := services.NewSyncService(client, repos.AccountRepo, repos.TransactionRepo, logger, options...)

	if err := syncSvc.Authenticate(ctx); err != nil {
		os.Exit(1)
	}

	if len(*accountIDs) > 0 {
		results, err := syncSvc.SyncTransactions(ctx, *accountIDs)
		if err != nil {
			logger.Error("Transaction sync failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		failed := false
		for _, r := range results {
			if r.Err != nil {
				failed = true
				logger.Error("Account sync task failed",
					slog.String("account_id", r.AccountID),
					slog.String("error", r.Err.Error()))
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	summary, err := syncSvc.Sync(ctx)
	if err != nil {
		logger.Error("Sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(summary.Failures()) > 0 {
		os.Exit(1)
	}
}

// runMigrations applies any pending schema migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer migrationDB.Close()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return dbErr
}
