package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes and TTLs.
const (
	linkKeyPrefix = "redirect:"

	// LinkTTL is how long a resolved alias stays cached.
	LinkTTL = time.Hour

	linkFieldTarget   = "target"
	linkFieldShortURL = "short_url"
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Link is a resolved alias: where it redirects and the short URL its
// click records are keyed on.
type Link struct {
	TargetURL string
	ShortURL  string
}

// GetLink returns the cached resolution for an alias.
// Returns ErrCacheMiss if not found or incomplete.
func (c *Cache) GetLink(ctx context.Context, alias string) (*Link, error) {
	fields, err := c.client.HGetAll(ctx, linkKeyPrefix+alias).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	link := &Link{
		TargetURL: fields[linkFieldTarget],
		ShortURL:  fields[linkFieldShortURL],
	}
	if link.TargetURL == "" || link.ShortURL == "" {
		return nil, ErrCacheMiss
	}
	return link, nil
}

// SetLink caches the resolution for an alias with LinkTTL.
func (c *Cache) SetLink(ctx context.Context, alias string, link Link) error {
	key := linkKeyPrefix + alias

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, linkFieldTarget, link.TargetURL, linkFieldShortURL, link.ShortURL)
		pipe.Expire(ctx, key, LinkTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache link: %w", err)
	}
	return nil
}

// DeleteLink removes a cached alias.
func (c *Cache) DeleteLink(ctx context.Context, alias string) error {
	if err := c.client.Del(ctx, linkKeyPrefix+alias).Err(); err != nil {
		return fmt.Errorf("failed to delete link from cache: %w", err)
	}
	return nil
}
