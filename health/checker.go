// Package health reports whether the geo service can reach its provider and
// cache, for liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckFunc is a function that performs a health check.
type CheckFunc func(ctx context.Context) error

// Check represents a single health check.
type Check struct {
	Name     string
	CheckFn  CheckFunc
	Critical bool // failure makes the service unhealthy rather than degraded
}

// CheckResult represents the result of a health check.
type CheckResult struct {
	Name    string  `json:"name"`
	Status  Status  `json:"status"`
	Message string  `json:"message,omitempty"`
	Latency float64 `json:"latency_ms"`
}

// HealthResponse is the response for health endpoints.
type HealthResponse struct {
	Status    Status        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version,omitempty"`
	Checks    []CheckResult `json:"checks,omitempty"`
}

// Checker manages health checks.
type Checker struct {
	checks  []Check
	version string
	timeout time.Duration
	mu      sync.RWMutex
}

// NewChecker creates a new health checker.
func NewChecker(version string) *Checker {
	return &Checker{
		checks:  make([]Check, 0),
		version: version,
		timeout: 5 * time.Second,
	}
}

// AddCheck adds a health check.
func (c *Checker) AddCheck(name string, fn CheckFunc, critical bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks = append(c.checks, Check{
		Name:     name,
		CheckFn:  fn,
		Critical: critical,
	})
}

// Check runs all health checks concurrently.
func (c *Checker) Check(ctx context.Context) HealthResponse {
	c.mu.RLock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	results := make([]CheckResult, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()

			start := time.Now()
			err := check.CheckFn(ctx)

			result := CheckResult{
				Name:    check.Name,
				Status:  StatusHealthy,
				Latency: time.Since(start).Seconds() * 1000,
			}
			if err != nil {
				result.Status = StatusUnhealthy
				result.Message = err.Error()
			}
			results[i] = result
		}(i, check)
	}
	wg.Wait()

	return HealthResponse{
		Status:    overall(checks, results),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Checks:    results,
	}
}

func overall(checks []Check, results []CheckResult) Status {
	status := StatusHealthy
	for i, r := range results {
		if r.Status != StatusUnhealthy {
			continue
		}
		if checks[i].Critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// LivenessHandler returns an HTTP handler for liveness checks.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessHandler returns an HTTP handler for readiness checks. A degraded
// service still reports 200 so it keeps receiving traffic.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
		defer cancel()

		response := c.Check(ctx)

		w.Header().Set("Content-Type", "application/json")

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// PingCheck creates a simple ping check that always succeeds.
func PingCheck() CheckFunc {
	return func(ctx context.Context) error {
		return nil
	}
}

// CheckError represents a health check error.
type CheckError struct {
	Service string
	Message string
}

func (e *CheckError) Error() string {
	if e.Service == "" {
		return e.Message
	}
	return e.Service + ": " + e.Message
}

// CredentialCheck fails while the provider credential is missing. Every
// provider-backed operation fails in that state, so register it as critical.
func CredentialCheck(check func() error) CheckFunc {
	return func(ctx context.Context) error {
		if err := check(); err != nil {
			return &CheckError{Service: "maps", Message: err.Error()}
		}
		return nil
	}
}

// CircuitCheck fails while the provider circuit breaker is open.
func CircuitCheck(state func() string) CheckFunc {
	return func(ctx context.Context) error {
		if s := state(); s == "open" {
			return &CheckError{Service: "maps", Message: "circuit breaker is " + s}
		}
		return nil
	}
}

// Pinger is implemented by the shared response cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisCheck creates a health check for the Redis cache.
func RedisCheck(client Pinger, timeout time.Duration) CheckFunc {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			return &CheckError{Service: "redis", Message: err.Error()}
		}
		return nil
	}
}
