// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/session"
)

// countingRegistry records how often the registry is consulted.
type countingRegistry struct {
	account.Registry
	finds  atomic.Int32
	writes atomic.Int32
}

func (r *countingRegistry) FindByUsername(ctx context.Context, username string) (*account.User, error) {
	r.finds.Add(1)
	return r.Registry.FindByUsername(ctx, username)
}

func (r *countingRegistry) SetSessionVersion(ctx context.Context, id int64, version string) error {
	r.writes.Add(1)
	return r.Registry.SetSessionVersion(ctx, id, version)
}

// brokenRegistry fails every call as if the database were down.
type brokenRegistry struct{}

var errDatabaseDown = errors.New("database down")

func (brokenRegistry) FindByUsername(context.Context, string) (*account.User, error) {
	return nil, errDatabaseDown
}

func (brokenRegistry) SetSessionVersion(context.Context, int64, string) error {
	return errDatabaseDown
}

// brokenStore fails every call as if Redis were unreachable.
type brokenStore struct{}

func (brokenStore) Put(context.Context, string, session.Record, time.Duration) error {
	return session.ErrUnavailable
}

func (brokenStore) Get(context.Context, string) (*session.Record, error) {
	return nil, session.ErrUnavailable
}

func (brokenStore) Destroy(context.Context, string) error { return session.ErrUnavailable }
func (brokenStore) Ping(context.Context) error            { return session.ErrUnavailable }
func (brokenStore) Close() error                          { return nil }

type fixture struct {
	registry *countingRegistry
	store    *session.MemoryStore
	issuer   *Issuer
	gate     *Gate
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()

	registry := &countingRegistry{Registry: account.NewMemoryRegistry("Ada", "grace")}
	store := session.NewMemoryStore(context.Background(), time.Hour, discardLogger())
	t.Cleanup(func() { _ = store.Close() })

	return &fixture{
		registry: registry,
		store:    store,
		issuer:   NewIssuer(registry, store, ttl),
		gate:     NewGate(registry, store),
	}
}
