package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

func TestDoRetriesTransientFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, nil)

	attempts := 0
	err := exec.Do(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrNetwork, "op", errors.New("connection reset"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoDoesNotRetryDefinitiveAnswer(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, nil)

	attempts := 0
	authErr := domain.WrapError(domain.ErrAuth, "op", errors.New("token expired"))
	err := exec.Do(context.Background(), "op", func(context.Context) error {
		attempts++
		return authErr
	})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoExhaustsAttemptsOnPersistentTransientFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     1 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, nil)

	attempts := 0
	err := exec.Do(context.Background(), "op", func(context.Context) error {
		attempts++
		return domain.WrapError(domain.ErrServer, "op", errors.New("boom"))
	})
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected server error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, nil)

	netErr := domain.WrapError(domain.ErrNetwork, "op", errors.New("dial timeout"))
	for i := 0; i < 2; i++ {
		err := exec.Do(context.Background(), "op", func(context.Context) error {
			return netErr
		})
		if !errors.Is(err, domain.ErrNetwork) {
			t.Fatalf("expected network error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Do(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("IsCircuitOpen should report true for %v", err)
	}
}

func TestDefinitiveAnswersKeepBreakerClosed(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, nil)

	notFound := domain.WrapError(domain.ErrNotFound, "op", errors.New("gone"))
	for i := 0; i < 5; i++ {
		err := exec.Do(context.Background(), "op", func(context.Context) error {
			return notFound
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not-found error on iteration %d, got %v", i, err)
		}
	}
}
