// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the user registry: the durable record of who may log
in and which session version is currently valid for them.

# Architecture

  - Entities: User, carrying the current SessionVersion.
  - Contracts: Registry (read + version write), Provisioner (startup seeding).
  - Implementations: Postgres (pgx), SQLite (modernc) and an in-memory map.

The registry never decides whether a session is valid. It only stores the one
version that is; the auth package compares against it.
*/
package account

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("account: user not found")

// # Domain Entities

// User is a provisioned identity.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`

	// SessionVersion is the only version a session record may carry to be
	// valid. Nil means the user has no active session.
	SessionVersion *string `json:"-"`
}

// HasVersion reports whether version is the user's current session version.
func (u *User) HasVersion(version string) bool {
	return u.SessionVersion != nil && *u.SessionVersion == version
}

// # Repository Contracts

// Registry is the capability the session issuer and gate depend on.
type Registry interface {
	/*
		FindByUsername looks up a user by normalized username.

		Parameters:
		  - ctx: context.Context
		  - username: string (already passed through NormalizeUsername)

		Returns:
		  - *User: A fresh copy, never cached
		  - error: ErrNotFound or storage failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		SetSessionVersion overwrites the user's current session version.

		The write is a single statement; concurrent writers race and the last
		one wins.

		Parameters:
		  - ctx: context.Context
		  - id: int64 (User.ID)
		  - version: string

		Returns:
		  - error: ErrNotFound or storage failures
	*/
	SetSessionVersion(ctx context.Context, id int64, version string) error
}

// Provisioner inserts users out of band, for startup seeding.
type Provisioner interface {
	// EnsureUser creates username if absent and returns the stored user.
	EnsureUser(ctx context.Context, username string) (*User, error)
}

// Pinger is implemented by registries backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// # Normalization

// NormalizeUsername trims surrounding whitespace, composes to Unicode NFC and
// lower-cases. The result is the registry lookup key.
func NormalizeUsername(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// A Caser holds state and is not safe for concurrent use.
	return cases.Lower(language.Und).String(norm.NFC.String(trimmed))
}

func cloneUser(user *User) *User {
	clone := *user
	if user.SessionVersion != nil {
		version := *user.SessionVersion
		clone.SessionVersion = &version
	}
	return &clone
}
