//go:build integration

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinx/blog-api/internal/testutil"
)

func newTestLimiter(t *testing.T, max int64) *Limiter {
	t.Helper()

	ctx := context.Background()
	client, err := Connect(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Skipf("Skipping integration test: Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewLimiter(client, max, time.Minute)
}

func TestIntegrationLimiter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, 3)
	ip := uuid.NewString()
	t.Cleanup(func() { _ = l.Reset(ctx, "login", ip) })

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "login", ip)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := l.Allow(ctx, "login", ip)
	require.NoError(t, err)
	assert.False(t, allowed)

	// purposes are counted separately
	allowed, err = l.Allow(ctx, "register", ip)
	require.NoError(t, err)
	assert.True(t, allowed)
	_ = l.Reset(ctx, "register", ip)

	require.NoError(t, l.Reset(ctx, "login", ip))
	allowed, err = l.Allow(ctx, "login", ip)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestIntegrationLimiter_Concurrent(t *testing.T) {
	ctx := context.Background()
	l := newTestLimiter(t, 10)
	ip := uuid.NewString()
	t.Cleanup(func() { _ = l.Reset(ctx, "login", ip) })

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Allow(ctx, "login", ip)
			if err != nil {
				t.Errorf("Allow: %v", err)
				return
			}
			if ok {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed)

	ttl, err := l.client.TTL(ctx, limiterKey("login", ip)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}
