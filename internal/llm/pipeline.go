package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline wraps a Generator with the process-wide throttle and the retry
// policy. Every attempt acquires a throttle permit, so retries are spaced
// against the shared quota just like first calls.
type Pipeline struct {
	gen      Generator
	throttle *Throttle
	retrier  *Retrier
}

// PipelineConfig tunes the throttle and retry policy around a Generator.
type PipelineConfig struct {
	Interval    time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultPipelineConfig mirrors the source system: 1s between calls, 3
// attempts, 2s fixed delay.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Interval:    DefaultInterval,
		MaxAttempts: 3,
		RetryDelay:  2 * time.Second,
	}
}

// NewPipeline wraps gen with throttling and retries.
func NewPipeline(gen Generator, cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		gen:      gen,
		throttle: NewThrottle(cfg.Interval),
		retrier:  NewRetrier(cfg.MaxAttempts, cfg.RetryDelay),
	}
}

// Generate runs one throttled, retried generation call. After the retry
// policy is exhausted the error wraps ErrGenerationFailed so the
// orchestrator can branch on it without string matching.
func (p *Pipeline) Generate(ctx context.Context, prompt string, audio []byte) (string, error) {
	var result string

	err := p.retrier.Do(ctx, func() error {
		if err := p.throttle.Wait(ctx); err != nil {
			return err
		}
		text, err := p.gen.Generate(ctx, prompt, audio)
		if err != nil {
			slog.Warn("generation attempt failed", "error", err)
			return err
		}
		result = text
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return result, nil
}
