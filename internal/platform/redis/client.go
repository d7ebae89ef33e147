// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for the distributed session backend.

Session records are written with a TTL and read on every protected request, so
the pool is tuned for many short commands rather than throughput.

The URL may be a plain redis:// address or a TLS rediss:// address such as the
ones handed out by Upstash.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Opiniated default timeouts for Redis operations.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Options tunes the client beyond what the URL carries.
type Options struct {
	PoolSize     int
	MinIdleConns int
}

// DefaultOptions is what the server uses when nothing else is configured.
var DefaultOptions = Options{PoolSize: 10, MinIdleConns: 2}

// NewClient parses a Redis URL and returns a ready-to-use client.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL (redis:// or rediss://).
//   - tuning: Pool sizing, usually [DefaultOptions].
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, tuning Options, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if tuning.PoolSize > 0 {
		options.PoolSize = tuning.PoolSize
	}
	options.MinIdleConns = tuning.MinIdleConns

	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	// Fail startup early instead of failing closed on every request.
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Bool("tls", options.TLSConfig != nil),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
