// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/solosession/internal/platform/config"
	"github.com/taibuivan/solosession/internal/platform/migration"
	pgstore "github.com/taibuivan/solosession/internal/platform/postgres"
	sqlitestore "github.com/taibuivan/solosession/internal/platform/sqlite"
	"github.com/taibuivan/solosession/internal/users/account"
)

// userStorage bundles the registry with the lifecycle hooks main needs.
type userStorage struct {
	registry    account.Registry
	provisioner account.Provisioner
	ping        func(ctx context.Context) error
	close       func()
}

// openRegistry connects the configured database, migrates it and returns the
// matching registry implementation.
func openRegistry(ctx context.Context, cfg *config.Config, log *slog.Logger) (*userStorage, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := migration.RunUp(migration.DriverPostgres, cfg.DatabaseURL, log); err != nil {
			pool.Close()
			return nil, err
		}

		registry := account.NewPostgresRegistry(pool)
		return &userStorage{
			registry:    registry,
			provisioner: registry,
			ping:        registry.Ping,
			close: func() {
				log.Info("closing_postgres_pool")
				pool.Close()
			},
		}, nil

	case config.DriverSQLite:
		database, err := sqlitestore.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		if err := migration.RunUp(migration.DriverSQLite, cfg.SQLitePath, log); err != nil {
			_ = database.Close()
			return nil, err
		}

		registry := account.NewSQLiteRegistry(database)
		return &userStorage{
			registry:    registry,
			provisioner: registry,
			ping:        registry.Ping,
			close: func() {
				log.Info("closing_sqlite_database")
				if err := database.Close(); err != nil {
					log.Error("sqlite_close_failed", slog.Any("error", err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
