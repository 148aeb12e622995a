package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RateLimitStore counts attempts within a fixed window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}

// RedisRateLimitStore counts attempts in Redis so the limit holds across
// instances.
type RedisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore wraps a redis client.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

// Increment bumps the window counter and sets its expiry.
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// MemoryRateLimitStore is the single-instance fallback when Redis is
// unavailable.
type MemoryRateLimitStore struct {
	mu    sync.Mutex
	store map[string]*rateLimitEntry
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// NewMemoryRateLimitStore builds the in-memory store.
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{store: make(map[string]*rateLimitEntry)}
}

// Increment bumps the window counter, expiring stale entries as it goes.
func (s *MemoryRateLimitStore) Increment(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, k)
		}
	}

	entry, exists := s.store[key]
	if !exists {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		s.store[key] = entry
	}
	entry.count++
	return entry.count, nil
}

// RateLimiter bounds attempts on credential endpoints per client IP.
type RateLimiter struct {
	store RateLimitStore
	cfg   config.RateLimitConfig
}

// NewRateLimiter builds the limiter.
func NewRateLimiter(store RateLimitStore, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{store: store, cfg: cfg}
}

// Handle rejects callers exceeding the configured attempt budget. Store
// failures are non-fatal: the request proceeds rather than locking
// everyone out.
func (r *RateLimiter) Handle(c *fiber.Ctx) error {
	if !r.cfg.Enabled || r.store == nil {
		return c.Next()
	}

	key := fmt.Sprintf("rate_limit:ip:%s:%s", c.IP(), c.Path())
	count, err := r.store.Increment(c.UserContext(), key, r.cfg.Window())
	if err != nil {
		return c.Next()
	}
	if count > r.cfg.Limit {
		return apperrors.NewDomainError("RATE_LIMITED", "too many attempts, try again later",
			fiber.StatusTooManyRequests, nil)
	}
	return c.Next()
}
