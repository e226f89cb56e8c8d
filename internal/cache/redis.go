// Package cache holds the Redis-backed caches of reference data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jelajah/tour-booking-backend/internal/config"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const locationsKey = "jelajah:locations:v1"

// NewRedisClient connects to Redis. REDIS_URL may be a redis:// URL or host:port.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.URL, "redis://") || strings.HasPrefix(cfg.URL, "rediss://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// LocationCache stores the location list as JSON. Redis failures degrade to
// cache misses.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewLocationCache creates a new LocationCache
func NewLocationCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *LocationCache {
	return &LocationCache{client: client, ttl: ttl, logger: logger}
}

// GetLocations returns the cached list, or false on a miss
func (c *LocationCache) GetLocations(ctx context.Context) ([]models.Location, bool) {
	data, err := c.client.Get(ctx, locationsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Location cache read failed")
		return nil, false
	}

	var locations []models.Location
	if err := json.Unmarshal(data, &locations); err != nil {
		c.logger.WithError(err).Warn("Discarding corrupt location cache entry")
		return nil, false
	}
	return locations, true
}

// SetLocations caches the list for the configured TTL
func (c *LocationCache) SetLocations(ctx context.Context, locations []models.Location) {
	data, err := json.Marshal(locations)
	if err != nil {
		c.logger.WithError(err).Warn("Location cache encode failed")
		return
	}
	if err := c.client.Set(ctx, locationsKey, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Location cache write failed")
	}
}
