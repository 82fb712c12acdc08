package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	retrier := NewRetrier(3, time.Millisecond)
	attempts := 0

	err := retrier.Do(context.Background(), func() error {
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrySuccessAfterFailures(t *testing.T) {
	t.Parallel()

	retrier := NewRetrier(3, time.Millisecond)
	attempts := 0

	err := retrier.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryExhaustion(t *testing.T) {
	t.Parallel()

	retrier := NewRetrier(3, time.Millisecond)
	permanent := errors.New("permanent")
	attempts := 0

	err := retrier.Do(context.Background(), func() error {
		attempts++
		return permanent
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !errors.Is(err, permanent) {
		t.Errorf("expected wrapped permanent error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestRetryTerminalErrorStopsEarly(t *testing.T) {
	t.Parallel()

	terminal := errors.New("terminal")
	retrier := NewRetrier(5, time.Millisecond)
	retrier.Retryable = func(err error) bool { return !errors.Is(err, terminal) }

	attempts := 0
	err := retrier.Do(context.Background(), func() error {
		attempts++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for terminal error, got %d", attempts)
	}
}

func TestRetryContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewRetrier(3, time.Second)

	err := retrier.Do(ctx, func() error {
		cancel()
		return errors.New("fail after cancel")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
