// Package redisstore provides a Redis-backed persistent tier for the TVR
// cache, for deployments that run without PostgreSQL or want the cache off
// the primary database.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tvr:cache:"

// TVRCache implements tvr.Store against Redis. Each entry records its own
// compute time so max-age reads work independently of the Redis TTL, which
// only bounds how long superseded entries linger.
type TVRCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Redis-backed TVR cache store. ttl is how long entries may
// occupy Redis at most; freshness on read is governed by the caller's
// max-age.
func New(rdb *redis.Client, ttl time.Duration) *TVRCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TVRCache{rdb: rdb, ttl: ttl}
}

type entry struct {
	domain.TVRResult
	ComputedAt time.Time `json:"computed_at"`
}

// Get returns the stored result for key if it was computed within maxAge.
func (c *TVRCache) Get(ctx context.Context, key string, maxAge time.Duration) (*domain.TVRResult, error) {
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cached tvr: %w", err)
	}
	if time.Since(e.ComputedAt) >= maxAge {
		return nil, nil
	}
	r := e.TVRResult
	return &r, nil
}

// Put stores a computed result under key.
func (c *TVRCache) Put(ctx context.Context, key string, result domain.TVRResult) error {
	data, err := json.Marshal(entry{TVRResult: result, ComputedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("encode tvr result: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear removes all cached results.
func (c *TVRCache) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Count returns the number of cached results.
func (c *TVRCache) Count(ctx context.Context) (int, error) {
	n := 0
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}
