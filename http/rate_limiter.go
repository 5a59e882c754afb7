package http

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mycobrun/geoengine/errors"
)

// RateLimiterConfig holds inbound rate limiter configuration. Every API
// request can fan out into many provider calls, so clients are limited
// before they reach the provider quota.
type RateLimiterConfig struct {
	// RequestsPerSecond is the number of requests allowed per second.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// KeyFunc extracts the rate limit key from the request.
	KeyFunc func(r *http.Request) string
	// ExcludeFunc skips limiting for matching requests.
	ExcludeFunc func(r *http.Request) bool
	// IdleTTL drops limiters for keys unseen this long.
	IdleTTL time.Duration
}

// DefaultRateLimiterConfig returns sensible production defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
		KeyFunc:           IPKeyFunc,
		ExcludeFunc:       HealthPathExclude,
		IdleTTL:           10 * time.Minute,
	}
}

// IPKeyFunc extracts the client IP address. Use after RealIP so RemoteAddr
// is already the client address.
func IPKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HealthPathExclude excludes health probes from limiting.
func HealthPathExclude(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/health")
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client key.
type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = IPKeyFunc
	}
	if config.BurstSize < 1 {
		config.BurstSize = 1
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether the request may proceed and consumes a token.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	key := rl.config.KeyFunc(r)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than IdleTTL and returns how many
// were removed.
func (rl *RateLimiter) Sweep() int {
	cutoff := rl.now().Add(-rl.config.IdleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.ExcludeFunc != nil && rl.config.ExcludeFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.Allow(r) {
			retryAfter := 1
			if rl.config.RequestsPerSecond > 0 && rl.config.RequestsPerSecond < 1 {
				retryAfter = int(1/rl.config.RequestsPerSecond + 0.5)
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			errors.WriteErrorWithStatus(w, http.StatusTooManyRequests, errors.CodeRateLimited,
				"Too many requests, please retry later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Run sweeps idle limiters every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}
