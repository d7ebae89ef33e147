// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/solosession/internal/platform/dberr"
	"github.com/taibuivan/solosession/internal/platform/postgres"
)

// PostgresRegistry implements [Registry] and [Provisioner] using pgx.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistry creates a registry over an open pool.
func NewPostgresRegistry(pool *pgxpool.Pool) *PostgresRegistry {
	return &PostgresRegistry{pool: pool}
}

/*
FindByUsername retrieves a user by case-insensitive username.

Parameters:
  - ctx: context.Context
  - username: string (normalized)

Returns:
  - *User: Hydrated identity with its current session version
  - error: ErrNotFound or database execution failure
*/
func (registry *PostgresRegistry) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, session_version
		FROM users
		WHERE lower(username) = $1`

	user := &User{}
	err := registry.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.SessionVersion,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_registry_find_by_username_failed", ErrNotFound)
	}

	return user, nil
}

/*
SetSessionVersion overwrites the current session version in one UPDATE.

Parameters:
  - ctx: context.Context
  - id: int64
  - version: string

Returns:
  - error: ErrNotFound if no row matched, or execution failure
*/
func (registry *PostgresRegistry) SetSessionVersion(ctx context.Context, id int64, version string) error {
	const query = `
		UPDATE users
		SET session_version = $2, updated_at = now()
		WHERE id = $1`

	tag, err := registry.pool.Exec(ctx, query, id, version)
	if err != nil {
		return fmt.Errorf("postgres_registry_set_session_version_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// EnsureUser inserts username unless a case-insensitive match exists.
func (registry *PostgresRegistry) EnsureUser(ctx context.Context, username string) (*User, error) {
	const query = `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (lower(username)) DO NOTHING`

	normalized := NormalizeUsername(username)
	if _, err := registry.pool.Exec(ctx, query, normalized); err != nil {
		return nil, fmt.Errorf("postgres_registry_ensure_user_failed: %w", err)
	}

	return registry.FindByUsername(ctx, normalized)
}

// Ping implements [Pinger].
func (registry *PostgresRegistry) Ping(ctx context.Context) error {
	return postgres.Ping(ctx, registry.pool)
}
