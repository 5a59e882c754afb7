package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errTest = errors.New("test error")

func fail(context.Context) error    { return errTest }
func succeed(context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	var mu sync.Mutex
	var changes []CircuitState
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "places",
		FailureThreshold: 3,
		Timeout:          time.Second,
		OnStateChange: func(name string, from, to CircuitState) {
			mu.Lock()
			changes = append(changes, to)
			mu.Unlock()
		},
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = cb.ExecuteWithContext(ctx, fail)
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	called := false
	err := cb.ExecuteWithContext(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("function must not run while the circuit is open")
	}

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 1 || changes[0] != StateOpen {
		t.Errorf("state changes = %v, want [open]", changes)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "places",
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          30 * time.Millisecond,
		MaxRequests:      3,
	})
	ctx := context.Background()

	_ = cb.ExecuteWithContext(ctx, fail)
	_ = cb.ExecuteWithContext(ctx, fail)
	time.Sleep(40 * time.Millisecond)

	if err := cb.ExecuteWithContext(ctx, succeed); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open, got %s", cb.State())
	}
	_ = cb.ExecuteWithContext(ctx, succeed)
	if cb.State() != StateClosed {
		t.Errorf("expected closed after %d successes, got %s", 2, cb.State())
	}
}

func TestCircuitBreaker_ReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "places",
		FailureThreshold: 1,
		Timeout:          30 * time.Millisecond,
	})
	ctx := context.Background()

	_ = cb.ExecuteWithContext(ctx, fail)
	time.Sleep(40 * time.Millisecond)
	_ = cb.ExecuteWithContext(ctx, fail)

	if cb.State() != StateOpen {
		t.Errorf("expected open, got %s", cb.State())
	}
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "places", FailureThreshold: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.ExecuteWithContext(ctx, succeed)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("cancellation must not open the circuit, got %s", cb.State())
	}
}

func TestCircuitBreaker_CancellationDuringCallIsNotAFailure(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "places", FailureThreshold: 1})

	ctx, cancel := context.WithCancel(context.Background())
	err := cb.ExecuteWithContext(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "places", FailureThreshold: 3})
	ctx := context.Background()

	_ = cb.ExecuteWithContext(ctx, fail)
	_ = cb.ExecuteWithContext(ctx, fail)
	_ = cb.ExecuteWithContext(ctx, succeed)
	_ = cb.ExecuteWithContext(ctx, fail)
	_ = cb.ExecuteWithContext(ctx, fail)

	if cb.State() != StateClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
	if m := cb.Metrics(); m.Failures != 2 || m.Name != "places" {
		t.Errorf("metrics = %+v", m)
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "places", FailureThreshold: 1})
	_ = cb.ExecuteWithContext(context.Background(), fail)
	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("expected closed after reset, got %s", cb.State())
	}
}

func TestCircuitBreaker_ZeroConfig(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	if cb.config.FailureThreshold != 5 || cb.config.SuccessThreshold != 2 ||
		cb.config.Timeout != 30*time.Second || cb.config.MaxRequests != 3 {
		t.Errorf("defaults not applied: %+v", cb.config)
	}
}

func TestCircuitBreaker_ConcurrentExecution(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "places", FailureThreshold: 1000})

	var wg sync.WaitGroup
	var calls atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.ExecuteWithContext(context.Background(), func(context.Context) error {
				calls.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	if calls.Load() != 50 {
		t.Errorf("calls = %d, want 50", calls.Load())
	}
}

func TestCircuitState_String(t *testing.T) {
	tests := map[CircuitState]string{
		StateClosed:      "closed",
		StateOpen:        "open",
		StateHalfOpen:    "half-open",
		CircuitState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
