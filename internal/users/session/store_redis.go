// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "github.com/taibuivan/solosession/internal/platform/redis"
)

// RedisStore keeps records as JSON strings with a native Redis TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store whose keys are prefix + session id.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (store *RedisStore) key(id string) string {
	return store.prefix + id
}

/*
Put writes the record with SET ... PX so Redis expires it.

Parameters:
  - ctx: context.Context
  - id: string
  - record: Record
  - timeToLive: time.Duration (must be positive)

Returns:
  - error: ErrUnavailable wrapping the cause
*/
func (store *RedisStore) Put(ctx context.Context, id string, record Record, timeToLive time.Duration) error {
	if timeToLive <= 0 {
		return errNonPositiveTTL
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, store.key(id), payload, timeToLive).Err(); err != nil {
		return fmt.Errorf("redis_session_put_failed: %w: %w", ErrUnavailable, err)
	}

	return nil
}

/*
Get loads and decodes the record.

Description: A missing key and an expired key look the same in Redis, so
this backend reports both as ErrNotFound.

Returns:
  - *Record: Decoded record
  - error: ErrNotFound, ErrMalformed or ErrUnavailable
*/
func (store *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	payload, err := store.client.Get(ctx, store.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w: %w", ErrUnavailable, err)
	}

	record := &Record{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w: %w", ErrMalformed, err)
	}

	return record, nil
}

// Destroy deletes the key. DEL on a missing key is a no-op.
func (store *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_destroy_failed: %w: %w", ErrUnavailable, err)
	}
	return nil
}

// Ping implements [Store].
func (store *RedisStore) Ping(ctx context.Context) error {
	if err := platformredis.Ping(ctx, store.client); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op. The client is owned by whoever created it.
func (store *RedisStore) Close() error { return nil }
