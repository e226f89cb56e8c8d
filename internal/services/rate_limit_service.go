package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestCounter counts hits per key inside a fixed window. Hit returns the
// count including this hit and when the window resets.
type RequestCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// RateLimitService limits chat requests per client
type RateLimitService struct {
	counter RequestCounter
	limit   int
	window  time.Duration
	logger  *logrus.Logger
}

// NewRateLimitService creates a new rate limit service. A limit below 1
// disables limiting.
func NewRateLimitService(counter RequestCounter, limit int, window time.Duration, logger *logrus.Logger) *RateLimitService {
	return &RateLimitService{
		counter: counter,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
}

// CheckChatRateLimit records one chat request for ip and fails once the
// window's budget is spent. Counter failures let the request through.
func (s *RateLimitService) CheckChatRateLimit(ctx context.Context, ip string) error {
	if s == nil || s.limit < 1 || ip == "" {
		return nil
	}

	count, resetAt, err := s.counter.Hit(ctx, "chat:"+ip, s.window)
	if err != nil {
		s.logger.WithError(err).Warn("rate limit counter unavailable")
		return nil
	}

	if count > int64(s.limit) {
		return &RateLimitError{
			Message:    fmt.Sprintf("Too many chat requests. Please try again after %s", resetAt.Format("15:04:05")),
			RetryAfter: resetAt,
		}
	}
	return nil
}

// MemoryCounter is a process-local RequestCounter for single-instance
// deployments without Redis.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*counterWindow
	now     func() time.Time
}

type counterWindow struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter creates an empty MemoryCounter
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*counterWindow), now: time.Now}
}

// Hit implements RequestCounter
func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &counterWindow{resetAt: now.Add(window)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

// Cleanup drops expired windows and returns how many were removed
func (m *MemoryCounter) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}
