package llm

import (
	"context"
	"fmt"
	"time"
)

// Retrier retries an operation a bounded number of times with a fixed delay
// between attempts. Fixed delay (no backoff or jitter) is a deliberate
// simplification carried over from the source system; production systems
// would want exponential backoff with jitter.
type Retrier struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
	// Retryable classifies errors. When nil every error is retryable.
	Retryable func(error) bool
}

// NewRetrier creates a retry policy with the given attempt bound and delay.
func NewRetrier(maxAttempts int, delay time.Duration) *Retrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrier{MaxAttempts: maxAttempts, Delay: delay}
}

// Do invokes op until it succeeds, a terminal error occurs, the context is
// cancelled, or the attempt bound is exhausted. The returned error wraps the
// last failure.
func (r *Retrier) Do(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if r.Retryable != nil && !r.Retryable(lastErr) {
			return lastErr
		}
		if attempt == r.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Delay):
		}
	}

	return fmt.Errorf("after %d attempts: %w", r.MaxAttempts, lastErr)
}
