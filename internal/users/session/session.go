// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the ephemeral, TTL-bounded session records.

A record says "this session id was issued to this user with this version". It
does not say the session is still valid: the auth gate decides that by
comparing the record's version with the registry.

# Backends

  - MemoryStore: process-local map, lazy expiry plus a janitor goroutine.
  - RedisStore: shared store for multi-instance deployments.

The backend is chosen once at startup by [Open].
*/
package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means no record exists for the id.
	ErrNotFound = errors.New("session: record not found")

	// ErrExpired means the record existed but outlived its TTL.
	ErrExpired = errors.New("session: record expired")

	// ErrUnavailable means the backend could not be reached. Callers must
	// treat it as "not authenticated", never as success.
	ErrUnavailable = errors.New("session: store unavailable")

	// ErrMalformed means the stored payload could not be decoded.
	ErrMalformed = errors.New("session: malformed record")
)

// # Domain Entities

// Record is what the store keeps per session id.
type Record struct {
	Username       string    `json:"username"`
	SessionVersion string    `json:"session_version"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Complete reports whether the record carries both a username and a version.
func (r *Record) Complete() bool {
	return r.Username != "" && r.SessionVersion != ""
}

// # Store Contract

// Store is the capability the issuer and gate depend on.
//
// Implementations are safe for concurrent use.
type Store interface {
	/*
		Put stores record under id for timeToLive, replacing any previous value.

		Returns:
		  - error: ErrUnavailable on backend failure
	*/
	Put(ctx context.Context, id string, record Record, timeToLive time.Duration) error

	/*
		Get loads the record stored under id.

		Returns:
		  - *Record: A copy of the stored record
		  - error: ErrNotFound, ErrExpired, ErrMalformed or ErrUnavailable
	*/
	Get(ctx context.Context, id string) (*Record, error)

	// Destroy removes id. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases background resources.
	Close() error
}

var errNonPositiveTTL = errors.New("session: ttl must be positive")
