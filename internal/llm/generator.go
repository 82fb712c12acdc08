// Package llm provides the generation backend client and the throttle and
// retry policy that gate every outbound call.
package llm

import (
	"context"
	"errors"
)

// ErrGenerationFailed is returned once the retry policy is exhausted. The
// orchestrator treats it as an explicit outcome, not a panic path.
var ErrGenerationFailed = errors.New("generation failed")

// Generator produces text from a prompt and optional inline audio.
// The backend is latency-variable and occasionally failing; callers go
// through Pipeline rather than hitting an implementation directly.
type Generator interface {
	Generate(ctx context.Context, prompt string, audio []byte) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, audio []byte) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, audio []byte) (string, error) {
	return f(ctx, prompt, audio)
}
