// Package cache keeps computed rails in Redis. Keys embed a version counter,
// so invalidation is a single INCR and stale entries age out by TTL. A rail
// is written under the version that was current when its computation began;
// a rail built across an invalidation lands under a retired key.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "rails:version"

type RailCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRailCache(redisClient *redis.Client, ttl time.Duration) *RailCache {
	return &RailCache{redis: redisClient, ttl: ttl}
}

// Get loads the rail stored under kind/arg into dst. It returns the cache
// version it read; pass that version to Set when storing a rail built after
// a miss. The boolean reports a hit.
func (c *RailCache) Get(ctx context.Context, kind, arg string, dst interface{}) (int64, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return 0, false, err
	}
	key := railKey(version, kind, arg)

	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return version, false, nil
	}
	if err != nil {
		return version, false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return version, false, fmt.Errorf("decode cached rail %s: %w", key, err)
	}
	return version, true, nil
}

// Set stores value under the given version.
func (c *RailCache) Set(ctx context.Context, version int64, kind, arg string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, railKey(version, kind, arg), raw, c.ttl).Err()
}

// Invalidate retires every cached rail.
func (c *RailCache) Invalidate(ctx context.Context) error {
	return c.redis.Incr(ctx, versionKey).Err()
}

func (c *RailCache) version(ctx context.Context) (int64, error) {
	version, err := c.redis.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

func railKey(version int64, kind, arg string) string {
	return fmt.Sprintf("rails:v%d:%s:%s", version, kind, url.QueryEscape(arg))
}
