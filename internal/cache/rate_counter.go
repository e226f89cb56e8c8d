package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const rateKeyPrefix = "jelajah:ratelimit:"

// RateCounter is a fixed-window request counter shared by every server instance
type RateCounter struct {
	client *redis.Client
}

// NewRateCounter creates a new RateCounter
func NewRateCounter(client *redis.Client) *RateCounter {
	return &RateCounter{client: client}
}

// Hit increments key and starts its window on the first hit
func (r *RateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	fullKey := rateKeyPrefix + key

	count, err := r.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		if err := r.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to start rate window: %w", err)
		}
		return count, time.Now().Add(window), nil
	}

	ttl, err := r.client.PTTL(ctx, fullKey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to read rate window: %w", err)
	}
	if ttl < 0 {
		// key lost its expiry; restart the window
		if err := r.client.PExpire(ctx, fullKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to start rate window: %w", err)
		}
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}
