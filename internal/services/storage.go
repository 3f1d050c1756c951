package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/postgres"
	"github.com/fastygo/todo/repository/sqlite"
)

// Storage bundles the repositories of the configured driver with its probe and closer.
type Storage struct {
	Driver string
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	Ping   monitor.PingFunc
	Close  func()
}

// Migrate applies the embedded schema for the configured driver.
func Migrate(cfg *config.Config, logger *zap.Logger) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return pgInfra.RunMigrations(cfg, logger)
	case config.DriverSQLite:
		return sqliteInfra.RunMigrations(cfg, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// OpenStorage migrates (when enabled) and connects the configured driver.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Migrate(cfg, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Storage{
			Driver: config.DriverPostgres,
			Users:  postgres.NewUserRepository(pool),
			Tasks:  postgres.NewTaskRepository(pool),
			Ping:   pool.Ping,
			Close:  func() { pgInfra.Close(pool, logger) },
		}, nil
	case config.DriverSQLite:
		db, err := sqliteInfra.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &Storage{
			Driver: config.DriverSQLite,
			Users:  sqlite.NewUserRepository(db),
			Tasks:  sqlite.NewTaskRepository(db),
			Ping:   db.PingContext,
			Close:  func() { sqliteInfra.Close(db, logger) },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
