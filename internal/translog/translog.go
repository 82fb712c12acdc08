// Package translog writes interview transcripts as NDJSON, one file per
// candidate, through a buffered async writer that never blocks the
// answer-handling hot path.
package translog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one logged transcript entry.
type Event struct {
	CandidateID string    `json:"candidate_id"`
	Speaker     string    `json:"speaker"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"ts"`
}

// Logger records transcript events.
type Logger interface {
	Log(Event)
	Close() error
}

// Config controls transcript logging.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// New returns a transcript logger. When disabled it returns a no-op
// implementation so call sites never nil-check.
func New(cfg Config, log *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript log directory: %w", err)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}

	w := &writer{
		dir:     cfg.Dir,
		queue:   make(chan Event, cfg.QueueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		log:     log,
	}
	go w.run()
	return w, nil
}

type writer struct {
	dir     string
	queue   chan Event
	closing chan struct{}
	done    chan struct{}
	log     *slog.Logger

	closeOnce sync.Once
}

// Log enqueues an event. If the queue is full, or the logger is closing,
// the event is dropped; transcript logging must never stall an interview.
// The queue channel itself is never closed, so Log stays safe to call
// from connections that outlive shutdown.
func (w *writer) Log(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case <-w.closing:
		return
	case w.queue <- e:
	default:
		w.log.Warn("transcript log queue full, dropping event", "candidate_id", e.CandidateID)
	}
}

// Close drains the queue and stops the writer goroutine.
func (w *writer) Close() error {
	w.closeOnce.Do(func() {
		close(w.closing)
		<-w.done
	})
	return nil
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case e := <-w.queue:
			w.write(e)
		case <-w.closing:
			for {
				select {
				case e := <-w.queue:
					w.write(e)
				default:
					return
				}
			}
		}
	}
}

func (w *writer) write(e Event) {
	if err := w.append(e); err != nil {
		w.log.Warn("failed to append transcript event", "candidate_id", e.CandidateID, "error", err)
	}
}

func (w *writer) append(e Event) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal transcript event: %w", err)
	}

	path := filepath.Join(w.dir, e.CandidateID+".ndjson")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			w.log.Debug("failed to close transcript file", "path", path, "error", closeErr)
		}
	}()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write transcript line: %w", err)
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Log(Event) {}

func (noopLogger) Close() error { return nil }
