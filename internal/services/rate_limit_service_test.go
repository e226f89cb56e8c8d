package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitTest(limit int) (*RateLimitService, *MemoryCounter, *time.Time) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	counter := NewMemoryCounter()
	counter.now = func() time.Time { return clock }

	return NewRateLimitService(counter, limit, 10*time.Minute, logger), counter, &clock
}

func TestCheckChatRateLimit_UnderLimit(t *testing.T) {
	service, _, _ := setupRateLimitTest(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.NoError(t, service.CheckChatRateLimit(ctx, "203.0.113.7"))
	}
}

func TestCheckChatRateLimit_Exceeded(t *testing.T) {
	service, _, clock := setupRateLimitTest(2)
	ctx := context.Background()
	ip := "203.0.113.7"

	require.NoError(t, service.CheckChatRateLimit(ctx, ip))
	require.NoError(t, service.CheckChatRateLimit(ctx, ip))

	err := service.CheckChatRateLimit(ctx, ip)
	require.Error(t, err)

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, clock.Add(10*time.Minute), rateErr.RetryAfter)
	assert.Contains(t, rateErr.Message, "10:10:00")

	// other clients keep their own budget
	assert.NoError(t, service.CheckChatRateLimit(ctx, "198.51.100.1"))
}

func TestCheckChatRateLimit_WindowResets(t *testing.T) {
	service, _, clock := setupRateLimitTest(1)
	ctx := context.Background()
	ip := "203.0.113.7"

	require.NoError(t, service.CheckChatRateLimit(ctx, ip))
	require.Error(t, service.CheckChatRateLimit(ctx, ip))

	*clock = clock.Add(10 * time.Minute)
	assert.NoError(t, service.CheckChatRateLimit(ctx, ip))
}

func TestCheckChatRateLimit_Disabled(t *testing.T) {
	service, _, _ := setupRateLimitTest(0)
	for i := 0; i < 50; i++ {
		assert.NoError(t, service.CheckChatRateLimit(context.Background(), "203.0.113.7"))
	}

	var nilService *RateLimitService
	assert.NoError(t, nilService.CheckChatRateLimit(context.Background(), "203.0.113.7"))
}

type failingCounter struct{}

func (failingCounter) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func TestCheckChatRateLimit_CounterFailureAllows(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	service := NewRateLimitService(failingCounter{}, 1, time.Minute, logger)

	assert.NoError(t, service.CheckChatRateLimit(context.Background(), "203.0.113.7"))
	assert.NoError(t, service.CheckChatRateLimit(context.Background(), "203.0.113.7"))
}

func TestMemoryCounter_Cleanup(t *testing.T) {
	_, counter, clock := setupRateLimitTest(5)
	ctx := context.Background()

	_, _, err := counter.Hit(ctx, "a", time.Minute)
	require.NoError(t, err)
	_, _, err = counter.Hit(ctx, "b", time.Hour)
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, counter.Cleanup())

	count, _, err := counter.Hit(ctx, "b", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
