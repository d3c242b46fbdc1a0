package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pravinyadav/No4jConnect/pkg/fn"
)

var errBackend = errors.New("backend down")

func failing(context.Context) error { return errBackend }
func succeeding(context.Context) error { return nil }

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := b.Call(ctx, failing); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}
	if err := b.Call(ctx, succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("open breaker err = %v", err)
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	clock := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 10 * time.Second})
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	b.Call(ctx, failing)
	if b.State() != StateOpen {
		t.Fatal("breaker should be open")
	}

	clock = clock.Add(11 * time.Second)
	if b.State() != StateHalfOpen {
		t.Fatal("breaker should be half-open after timeout")
	}
	if err := b.Call(ctx, succeeding); err != nil {
		t.Fatalf("probe err = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state after probe = %s, want closed", b.State())
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Second})
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	b.Call(ctx, failing)
	clock = clock.Add(2 * time.Second)
	b.Call(ctx, failing)
	if b.State() != StateOpen {
		t.Errorf("state = %s, want open", b.State())
	}
}

func TestBreakerHalfOpenProbeLimit(t *testing.T) {
	clock := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Second, HalfOpenMax: 1})
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	b.Call(ctx, failing)
	clock = clock.Add(2 * time.Second)

	// First probe admitted, second rejected before the first settles.
	b.mu.Lock()
	if err := b.admit(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	b.mu.Lock()
	if err := b.admit(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("second probe err = %v, want ErrCircuitOpen", err)
	}
}

func TestCallResult(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: time.Minute})
	ctx := context.Background()

	r := CallResult(b, ctx, func(context.Context) fn.Result[int] { return fn.Err[int](errBackend) })
	if r.IsOk() {
		t.Fatal("expected failure")
	}
	r = CallResult(b, ctx, func(context.Context) fn.Result[int] { return fn.Ok(1) })
	if _, err := r.Unwrap(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerStage(t *testing.T) {
	b := NewBreaker(DefaultBreakerOpts)
	stage := BreakerStage(b, fn.MapStage(func(n int) int { return n * 2 }))
	r := stage(context.Background(), 4)
	if v, err := r.Unwrap(); err != nil || v != 8 {
		t.Errorf("stage = %d, %v", v, err)
	}
}

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)
	if !l.Allow() || !l.Allow() {
		t.Fatal("burst tokens should be available")
	}
	if l.Allow() {
		t.Error("third immediate call should be limited")
	}
	if err := l.Call(context.Background(), succeeding); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Call err = %v, want ErrRateLimited", err)
	}
}

func TestLimiterStage(t *testing.T) {
	l := NewLimiter(1, 1)
	stage := LimiterStage(l, fn.MapStage(func(n int) int { return n + 1 }))
	ctx := context.Background()

	if r := stage(ctx, 1); r.IsErr() {
		t.Fatal("first call should pass")
	}
	if r := stage(ctx, 1); r.IsOk() {
		t.Error("second immediate call should be limited")
	}
}

func TestLimiterWaitCancel(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("Wait should fail once ctx expires")
	}
}
