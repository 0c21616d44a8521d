// Package ratelimit implements a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per (purpose, client) pair in fixed windows.
// A nil *Limiter allows everything, which is how rate limiting is disabled.
type Limiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewLimiter(client *redis.Client, max int64, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

func limiterKey(purpose, clientID string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, clientID)
}

// Allow records one request and reports whether it is within the limit.
// The window starts with the first request and is not extended by later ones.
func (l *Limiter) Allow(ctx context.Context, purpose, clientID string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}

	key := limiterKey(purpose, clientID)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("failed to record request: %w", err)
	}

	return count.Val() <= l.max, nil
}

// Reset clears the counter for a client. Used by tests and operators.
func (l *Limiter) Reset(ctx context.Context, purpose, clientID string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, limiterKey(purpose, clientID)).Err(); err != nil {
		return fmt.Errorf("failed to reset limiter: %w", err)
	}
	return nil
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
