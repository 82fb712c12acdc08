// Package history provides the bounded conversation log that feeds prompt context.
package history

import (
	"strings"
	"sync"

	"github.com/interviewsim/backend/internal/domain"
)

// DefaultLimit is the number of recent turns kept for prompt context.
const DefaultLimit = 5

// Log is a bounded, ordered conversation history. When the bound is
// exceeded the oldest turn is evicted. Guarded by a mutex because the
// WebSocket answer loop and the HTTP submit path can touch the same
// session concurrently.
type Log struct {
	mu    sync.Mutex
	turns []domain.Turn
	limit int
}

// New creates a history log bounded to limit turns. A non-positive limit
// falls back to DefaultLimit.
func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Append adds a turn to the end of the log, evicting the oldest turn
// if the bound is exceeded.
func (l *Log) Append(t domain.Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, t)
	if len(l.turns) > l.limit {
		l.turns = l.turns[len(l.turns)-l.limit:]
	}
}

// Context renders the retained turns, in order, as a single block for
// prompt construction.
func (l *Log) Context() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines := make([]string, 0, len(l.turns))
	for _, t := range l.turns {
		lines = append(lines, t.String())
	}
	return strings.Join(lines, "\n")
}

// Turns returns a copy of the retained turns.
func (l *Log) Turns() []domain.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the number of retained turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Reset clears all turns. Invoked after a submission is scored.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
