// Package cache provides an optional Redis-backed cache of slug targets
// used to keep hot redirects off the SQL store.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "slug:"

// SlugCache caches slug -> target URL. A miss or a Redis failure simply
// falls through to the store; the cache is never load-bearing for
// correctness.
type SlugCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and verifies the connection.
func New(ctx context.Context, addr string, ttl time.Duration) (*SlugCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &SlugCache{client: client, ttl: ttl}, nil
}

// Get returns the cached target for slug, if present.
func (c *SlugCache) Get(ctx context.Context, slug string) (string, bool) {
	target, err := c.client.Get(ctx, keyPrefix+slug).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARNING: cache get for %q failed: %v", slug, err)
		}
		return "", false
	}
	return target, true
}

// Set stores the target for slug with the configured TTL. Best effort.
func (c *SlugCache) Set(ctx context.Context, slug, target string) {
	if err := c.client.Set(ctx, keyPrefix+slug, target, c.ttl).Err(); err != nil {
		log.Printf("WARNING: cache set for %q failed: %v", slug, err)
	}
}

// Close releases the underlying Redis connection.
func (c *SlugCache) Close() error {
	return c.client.Close()
}
