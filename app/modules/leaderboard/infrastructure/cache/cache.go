// Package leaderboardcache keeps computed standings between result changes.
package leaderboardcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/raid-challenge/app/modules/leaderboard/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "raid-challenge:standings:"

// Key identifies one cached standings table.
func Key(challengeID int64, circuit, category string) string {
	return fmt.Sprintf("%s%d:%s:%s", keyPrefix, challengeID, circuit, category)
}

// RedisCache stores standings as JSON with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached table, or false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*leaderboarddomain.Table, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read standings cache: %w", err)
	}
	var t leaderboarddomain.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached standings: %w", err)
	}
	return &t, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, t *leaderboarddomain.Table) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode standings: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write standings cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached table and returns how many were removed.
func (c *RedisCache) Invalidate(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to invalidate standings cache: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan standings cache: %w", err)
	}
	return removed, nil
}

// NoOpCache never holds anything. It is used when Redis is not configured.
type NoOpCache struct{}

func (NoOpCache) Get(context.Context, string) (*leaderboarddomain.Table, bool, error) { return nil, false, nil }
func (NoOpCache) Set(context.Context, string, *leaderboarddomain.Table) error         { return nil }
func (NoOpCache) Invalidate(context.Context) (int, error)                             { return 0, nil }
