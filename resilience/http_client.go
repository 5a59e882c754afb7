package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResilientHTTPClient wraps an HTTP client with circuit breaker protection
// and retries on transport errors and 5xx responses.
type ResilientHTTPClient struct {
	client         *http.Client
	circuitBreaker *CircuitBreaker
	retries        int
	retryDelay     time.Duration
}

// ResilientHTTPClientConfig configures a resilient HTTP client.
type ResilientHTTPClientConfig struct {
	// Name for the circuit breaker.
	Name string

	// Timeout for a single HTTP attempt.
	Timeout time.Duration

	// Retries is the number of retry attempts after the first.
	Retries int

	// RetryDelay is the base delay; attempt n waits n*RetryDelay.
	RetryDelay time.Duration

	// CircuitBreakerConfig is optional, defaults are used if nil.
	CircuitBreakerConfig *CircuitBreakerConfig

	// Transport overrides the default round tripper (optional).
	Transport http.RoundTripper
}

// DefaultResilientHTTPClientConfig returns sensible defaults.
func DefaultResilientHTTPClientConfig(name string) ResilientHTTPClientConfig {
	return ResilientHTTPClientConfig{
		Name:       name,
		Timeout:    10 * time.Second,
		Retries:    2,
		RetryDelay: 200 * time.Millisecond,
	}
}

// NewResilientHTTPClient creates a new resilient HTTP client.
func NewResilientHTTPClient(config ResilientHTTPClientConfig) *ResilientHTTPClient {
	var cbConfig CircuitBreakerConfig
	if config.CircuitBreakerConfig != nil {
		cbConfig = *config.CircuitBreakerConfig
	} else {
		cbConfig = DefaultCircuitBreakerConfig(config.Name)
	}

	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Retries < 0 {
		config.Retries = 0
	}

	return &ResilientHTTPClient{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		circuitBreaker: NewCircuitBreaker(cbConfig),
		retries:        config.Retries,
		retryDelay:     config.RetryDelay,
	}
}

// Do executes an HTTP request with circuit breaker and retry protection.
// Waiting between attempts stops as soon as the request context is done.
func (c *ResilientHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, c.retryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		var resp *http.Response
		err := c.circuitBreaker.ExecuteWithContext(ctx, func(ctx context.Context) error {
			var reqErr error
			resp, reqErr = c.client.Do(req.Clone(ctx))
			if reqErr != nil {
				return reqErr
			}

			// 5xx counts against the breaker and is retried
			if resp.StatusCode >= 500 {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return fmt.Errorf("server error: status %d", resp.StatusCode)
			}

			return nil
		})

		if err == nil {
			return resp, nil
		}

		lastErr = err

		if errors.Is(err, ErrCircuitOpen) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("all retries failed: %w", lastErr)
}

// Get performs an HTTP GET request.
func (c *ResilientHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// CircuitBreaker returns the underlying circuit breaker.
func (c *ResilientHTTPClient) CircuitBreaker() *CircuitBreaker {
	return c.circuitBreaker
}

// Metrics returns circuit breaker metrics.
func (c *ResilientHTTPClient) Metrics() CircuitBreakerMetrics {
	return c.circuitBreaker.Metrics()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
