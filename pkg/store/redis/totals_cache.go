package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const totalKeyPrefix = "part:running-total:"

// TotalsCache caches per-part running totals with a short TTL. Every session
// write invalidates the part's key, so the cache can only ever serve a value
// the store held within the last TTL window.
type TotalsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewTotalsCache creates a running-total cache
func NewTotalsCache(redisClient *RedisClient, ttl time.Duration) *TotalsCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &TotalsCache{
		redis: redisClient.GetClient(),
		ttl:   ttl,
	}
}

// Get retrieves a cached total. The bool reports a cache hit.
func (c *TotalsCache) Get(ctx context.Context, partGID string) (int, bool, error) {
	data, err := c.redis.Get(ctx, totalKeyPrefix+partGID).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get cached total: %w", err)
	}

	total, err := strconv.Atoi(data)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse cached total: %w", err)
	}
	return total, true, nil
}

// Set stores a total under the configured TTL
func (c *TotalsCache) Set(ctx context.Context, partGID string, total int) error {
	err := c.redis.Set(ctx, totalKeyPrefix+partGID, strconv.Itoa(total), c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to cache total: %w", err)
	}
	return nil
}

// Invalidate drops a part's cached total
func (c *TotalsCache) Invalidate(ctx context.Context, partGID string) error {
	if err := c.redis.Del(ctx, totalKeyPrefix+partGID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached total: %w", err)
	}
	return nil
}
