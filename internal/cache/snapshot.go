package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotTTL is the lifetime of a cached analytics snapshot.
// Snapshots are never invalidated on writes, so this bounds staleness.
const SnapshotTTL = 300 * time.Second

// GetSnapshot returns the serialized snapshot stored under key.
// Returns ErrCacheMiss if absent or expired.
func (c *Cache) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get snapshot failed: %w", err)
	}
	return payload, nil
}

// SetSnapshot stores payload under key with the given TTL.
func (c *Cache) SetSnapshot(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}
