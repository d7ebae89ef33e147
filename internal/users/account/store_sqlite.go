// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taibuivan/solosession/internal/platform/dberr"
	"github.com/taibuivan/solosession/internal/platform/sqlite"
)

// SQLiteRegistry implements [Registry] and [Provisioner] over an embedded
// SQLite file.
type SQLiteRegistry struct {
	database *sql.DB
}

// NewSQLiteRegistry creates a registry over a database opened with sqlite.Open.
func NewSQLiteRegistry(database *sql.DB) *SQLiteRegistry {
	return &SQLiteRegistry{database: database}
}

// FindByUsername retrieves a user by case-insensitive username.
func (registry *SQLiteRegistry) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, session_version
		FROM users
		WHERE lower(username) = ?`

	var (
		user    User
		version sql.NullString
	)
	err := registry.database.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &version)
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_registry_find_by_username_failed", ErrNotFound)
	}

	if version.Valid {
		user.SessionVersion = &version.String
	}

	return &user, nil
}

// SetSessionVersion overwrites the current session version in one UPDATE.
func (registry *SQLiteRegistry) SetSessionVersion(ctx context.Context, id int64, version string) error {
	const query = `
		UPDATE users
		SET session_version = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?`

	result, err := registry.database.ExecContext(ctx, query, version, id)
	if err != nil {
		return fmt.Errorf("sqlite_registry_set_session_version_failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite_registry_set_session_version_failed: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// EnsureUser inserts username unless a case-insensitive match exists.
func (registry *SQLiteRegistry) EnsureUser(ctx context.Context, username string) (*User, error) {
	const query = `INSERT INTO users (username) VALUES (?) ON CONFLICT DO NOTHING`

	normalized := NormalizeUsername(username)
	if _, err := registry.database.ExecContext(ctx, query, normalized); err != nil {
		return nil, fmt.Errorf("sqlite_registry_ensure_user_failed: %w", err)
	}

	return registry.FindByUsername(ctx, normalized)
}

// Ping implements [Pinger].
func (registry *SQLiteRegistry) Ping(ctx context.Context) error {
	return sqlite.Ping(ctx, registry.database)
}
