package ratelimit

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*FixedWindow, *MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	l := NewFixedWindow(store, "test", limit, window)
	l.now = clock.Now
	return l, store, clock
}

func TestFixedWindow_Allow(t *testing.T) {
	l, _, _ := newTestLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "token:abc")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i)
		assert.Equal(t, int64(i), res.Count)
	}

	res, err := l.Allow(ctx, "token:abc")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Hour, res.RetryAfter)

	// Other keys are counted separately
	res, err = l.Allow(ctx, "token:other")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestFixedWindow_RetryAfterCountsToWindowEnd(t *testing.T) {
	l, _, clock := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	clock.Advance(45 * time.Minute)
	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)

	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 15*time.Minute, res.RetryAfter)
}

func TestFixedWindow_NextWindowAdmitsAgain(t *testing.T) {
	l, _, clock := newTestLimiter(2, time.Hour)
	ctx := context.Background()

	for range 3 {
		_, err := l.Allow(ctx, "k")
		require.NoError(t, err)
	}
	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	clock.Advance(time.Hour)
	res, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.Count)
}

func TestFixedWindow_ResetAdmitsAgain(t *testing.T) {
	l, store, _ := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	store.Reset()
	res, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestFixedWindow_ConcurrentNeverExceedsLimit(t *testing.T) {
	const limit = 10
	l, _, _ := newTestLimiter(limit, time.Hour)
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Allow(ctx, "token:hot")
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())
}

func TestMemoryStore_SweepsExpired(t *testing.T) {
	l, store, clock := newTestLimiter(5, time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	_, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	clock.Advance(10 * time.Minute)
	_, err = l.Allow(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestNewFixedWindow_Defaults(t *testing.T) {
	l := NewFixedWindow(NewMemoryStore(), "", 0, 0)
	assert.Equal(t, "rate", l.prefix)
	assert.Equal(t, int64(10), l.Limit())
	assert.Equal(t, time.Hour, l.Window())
}

func TestRedisStore_Incr(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	key := "ratelimit-test:" + time.Now().Format(time.RFC3339Nano)
	defer client.Del(ctx, key)

	store := NewRedisStore(client)
	for i := int64(1); i <= 3; i++ {
		n, err := store.Incr(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
