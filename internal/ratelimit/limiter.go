// Package ratelimit counts requests per key in fixed time windows.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store increments a counter and keeps it alive for at least ttl.
// Implementations must make the increment atomic.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Result describes one admission decision.
type Result struct {
	Allowed    bool
	Count      int64
	Limit      int64
	RetryAfter time.Duration
}

// FixedWindow admits at most limit requests per key in each window.
type FixedWindow struct {
	store  Store
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow creates a limiter. Keys are stored as prefix:key:bucket.
func NewFixedWindow(store Store, prefix string, limit int, window time.Duration) *FixedWindow {
	if prefix == "" {
		prefix = "rate"
	}
	if limit <= 0 {
		limit = 10
	}
	if window < time.Second {
		window = time.Hour
	}
	return &FixedWindow{
		store:  store,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Limit returns the number of requests admitted per window.
func (l *FixedWindow) Limit() int64 {
	return l.limit
}

// Window returns the window length.
func (l *FixedWindow) Window() time.Duration {
	return l.window
}

// Allow counts one request for key and reports whether it fits the window.
func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	if key == "" {
		key = "unknown"
	}

	windowSeconds := int64(l.window / time.Second)
	now := l.now().UTC()
	bucket := now.Unix() / windowSeconds
	storeKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	// The key includes the bucket, so the TTL only bounds memory.
	count, err := l.store.Incr(ctx, storeKey, 2*l.window)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", l.prefix, err)
	}

	res := Result{
		Allowed: count <= l.limit,
		Count:   count,
		Limit:   l.limit,
	}
	if !res.Allowed {
		windowEnd := time.Unix((bucket+1)*windowSeconds, 0)
		res.RetryAfter = windowEnd.Sub(now)
	}
	return res, nil
}
