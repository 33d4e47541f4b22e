package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/sqlite"
)

// Stores bundles the record store clients of the configured driver.
type Stores struct {
	Driver  string
	Tickets repository.TicketRepository
	Lists   repository.ListRepository
	Scripts repository.ScriptRepository

	ping  func(ctx context.Context) error
	close func()
}

// OpenStores connects to the configured driver and runs its migrations.
func OpenStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &Stores{
			Driver:  config.DriverPostgres,
			Tickets: repository.NewTicketRepository(pool),
			Lists:   repository.NewListRepository(pool),
			Scripts: repository.NewScriptRepository(pool),
			ping:    pool.Ping,
			close:   pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return &Stores{
			Driver:  config.DriverSQLite,
			Tickets: sqlite.NewTicketRepository(db),
			Lists:   sqlite.NewListRepository(db),
			Scripts: sqlite.NewScriptRepository(db),
			ping:    db.PingContext,
			close:   func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Ping verifies store connectivity.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the store.
func (s *Stores) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
