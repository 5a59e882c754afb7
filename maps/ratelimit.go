package maps

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenBucketLimiter is a process-local RateLimiter shared by every
// operation. Keys are accepted for interface compatibility only.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter allows perSecond requests with the given burst.
// A non-positive rate disables limiting.
func NewTokenBucketLimiter(perSecond float64, burst int) *TokenBucketLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a request may proceed now.
func (l *TokenBucketLimiter) Allow(_ context.Context, _ string) bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (l *TokenBucketLimiter) Wait(ctx context.Context, _ string) error {
	return l.limiter.Wait(ctx)
}

// NoopRateLimiter allows everything.
type NoopRateLimiter struct{}

// NewNoopRateLimiter creates a new noop rate limiter.
func NewNoopRateLimiter() *NoopRateLimiter {
	return &NoopRateLimiter{}
}

// Allow always returns true.
func (NoopRateLimiter) Allow(context.Context, string) bool {
	return true
}

// Wait always returns immediately.
func (NoopRateLimiter) Wait(context.Context, string) error {
	return nil
}
