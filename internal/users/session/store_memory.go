// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the janitor evicts expired records.
const DefaultSweepInterval = time.Minute

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore keeps records in a map guarded by a RWMutex.
//
// Expired entries are rejected on read and removed by a janitor goroutine that
// runs until the context passed to [NewMemoryStore] is cancelled or Close is called.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryStore creates the store and starts its janitor.
func NewMemoryStore(ctx context.Context, sweepInterval time.Duration, logger *slog.Logger) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go store.janitor(ctx, sweepInterval, logger)

	return store
}

func (store *MemoryStore) janitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	defer close(store.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := store.sweep(); evicted > 0 {
				logger.Debug("session_memory_sweep", slog.Int("evicted", evicted))
			}
		case <-ctx.Done():
			return
		case <-store.stop:
			return
		}
	}
}

// sweep removes every expired entry and returns how many it removed.
func (store *MemoryStore) sweep() int {
	currentTime := store.now()

	store.mu.Lock()
	defer store.mu.Unlock()

	evicted := 0
	for id, entry := range store.entries {
		if !currentTime.Before(entry.expiresAt) {
			delete(store.entries, id)
			evicted++
		}
	}
	return evicted
}

// Put implements [Store].
func (store *MemoryStore) Put(_ context.Context, id string, record Record, timeToLive time.Duration) error {
	if timeToLive <= 0 {
		return errNonPositiveTTL
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.entries[id] = memoryEntry{record: record, expiresAt: store.now().Add(timeToLive)}
	return nil
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	store.mu.RLock()
	entry, found := store.entries[id]
	store.mu.RUnlock()

	if !found {
		return nil, ErrNotFound
	}

	if !store.now().Before(entry.expiresAt) {
		store.mu.Lock()
		// Only evict if nobody re-issued the id in between.
		if current, ok := store.entries[id]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(store.entries, id)
		}
		store.mu.Unlock()
		return nil, ErrExpired
	}

	record := entry.record
	return &record, nil
}

// Destroy implements [Store].
func (store *MemoryStore) Destroy(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.entries, id)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (store *MemoryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.entries)
}

// Ping implements [Store]. The map is always reachable.
func (store *MemoryStore) Ping(context.Context) error { return nil }

// Close stops the janitor and waits for it to exit.
func (store *MemoryStore) Close() error {
	store.stopOnce.Do(func() { close(store.stop) })
	<-store.done
	return nil
}
