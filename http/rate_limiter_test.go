package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newRequest(ip string) *http.Request {
	req := httptest.NewRequest("GET", "/v1/places/nearby", nil)
	req.RemoteAddr = ip + ":1234"
	return req
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 3})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow(newRequest("10.0.0.1")) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow(newRequest("10.0.0.1")) {
		t.Error("4th request should be denied")
	}
	if !rl.Allow(newRequest("10.0.0.2")) {
		t.Error("other client should have its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow(newRequest("10.0.0.1")) {
		t.Error("token should refill after one second")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow(newRequest("10.0.0.1"))
	now = now.Add(30 * time.Second)
	rl.Allow(newRequest("10.0.0.2"))
	now = now.Add(45 * time.Second)

	if removed := rl.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if len(rl.clients) != 1 {
		t.Errorf("%d clients left, want 1", len(rl.clients))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	cfg.RequestsPerSecond = 0.5
	cfg.BurstSize = 1
	rl := NewRateLimiter(cfg)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest("10.0.0.9"))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest("10.0.0.9"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2", w.Header().Get("Retry-After"))
	}

	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health/ready", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("health probe limited: %d", w.Code)
		}
	}
}

func TestIPKeyFunc(t *testing.T) {
	req := newRequest("192.0.2.1")
	if got := IPKeyFunc(req); got != "192.0.2.1" {
		t.Errorf("IPKeyFunc = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := IPKeyFunc(req); got != "203.0.113.7" {
		t.Errorf("IPKeyFunc with XFF = %q", got)
	}
}
