// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// KeyPrefix namespaces Redis keys. Ignored by the memory backend.
	KeyPrefix string

	// Client must be set for the redis backend.
	Client redis.UniversalClient
}

// Open builds the store named by options.Backend.
func Open(ctx context.Context, options Options, logger *slog.Logger) (Store, error) {
	switch options.Backend {
	case BackendMemory:
		logger.Info("session_store_selected", slog.String("backend", BackendMemory))
		return NewMemoryStore(ctx, DefaultSweepInterval, logger), nil

	case BackendRedis:
		if options.Client == nil {
			return nil, fmt.Errorf("session: redis backend requires a client")
		}
		logger.Info("session_store_selected",
			slog.String("backend", BackendRedis),
			slog.String("key_prefix", options.KeyPrefix),
		)
		return NewRedisStore(options.Client, options.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("session: unknown backend %q", options.Backend)
	}
}
