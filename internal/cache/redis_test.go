package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jelajah/tour-booking-backend/internal/config"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLocationCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewLocationCache(client, time.Minute, quietLogger())
	ctx := context.Background()

	c.SetLocations(ctx, []models.Location{{ID: "1", Name: "Bali", Country: "Indonesia"}})

	locations, ok := c.GetLocations(ctx)
	assert.False(t, ok)
	assert.Nil(t, locations)
}

func TestNewRedisClient(t *testing.T) {
	t.Run("Invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "redis://localhost:6379/not-a-db"})
		require.Error(t, err)
	})

	t.Run("Unreachable host", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), config.RedisConfig{URL: "127.0.0.1:1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ping redis")
	})
}

func TestRateCounter_UnreachableRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, _, err := NewRateCounter(client).Hit(context.Background(), "chat:203.0.113.7", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count request")
}
