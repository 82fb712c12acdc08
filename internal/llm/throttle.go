package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between outbound generation calls.
const DefaultInterval = time.Second

// Throttle enforces a minimum interval between generation calls. It is
// process-wide: all sessions share one clock because it protects a shared
// external quota. Built on a token bucket with a single permit so waiting
// callers are scheduled instead of spinning, and cancellation is honored.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle with the given minimum interval. A
// non-positive interval falls back to DefaultInterval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until a permit is available or the context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
