// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"sync"
)

// MemoryRegistry is a mutex-guarded, process-local [Registry].
//
// It backs tests and throwaway demos; nothing survives a restart.
type MemoryRegistry struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]*User
	byID   map[int64]*User

	// writes counts SetSessionVersion calls, for assertions in tests.
	writes int
}

// NewMemoryRegistry returns a registry pre-populated with usernames.
func NewMemoryRegistry(usernames ...string) *MemoryRegistry {
	registry := &MemoryRegistry{
		byName: make(map[string]*User),
		byID:   make(map[int64]*User),
	}
	for _, username := range usernames {
		_, _ = registry.EnsureUser(context.Background(), username)
	}
	return registry
}

// FindByUsername returns a copy of the stored user.
func (registry *MemoryRegistry) FindByUsername(_ context.Context, username string) (*User, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	user, found := registry.byName[username]
	if !found {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

// SetSessionVersion overwrites the stored version.
func (registry *MemoryRegistry) SetSessionVersion(_ context.Context, id int64, version string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	user, found := registry.byID[id]
	if !found {
		return ErrNotFound
	}
	user.SessionVersion = &version
	registry.writes++
	return nil
}

// EnsureUser inserts username if absent.
func (registry *MemoryRegistry) EnsureUser(_ context.Context, username string) (*User, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" {
		return nil, ErrNotFound
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if user, found := registry.byName[normalized]; found {
		return cloneUser(user), nil
	}

	registry.nextID++
	user := &User{ID: registry.nextID, Username: normalized}
	registry.byName[normalized] = user
	registry.byID[user.ID] = user
	return cloneUser(user), nil
}

// Writes reports how many version writes the registry has accepted.
func (registry *MemoryRegistry) Writes() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.writes
}
