// Package audio handles temporary persistence of inbound candidate audio.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// MaxBytes is the largest accepted audio payload (10 MB).
const MaxBytes = 10 << 20

// ErrTooLarge is returned for payloads over MaxBytes. Input validation
// errors are reported immediately and never retried.
var ErrTooLarge = errors.New("audio file too large, maximum size is 10 MB")

// Spool writes audio bytes to a temporary file and returns the path along
// with a cleanup function. The caller must invoke cleanup on every exit
// path; cleanup is safe to call more than once.
func Spool(data []byte) (string, func(), error) {
	if len(data) > MaxBytes {
		return "", nil, ErrTooLarge
	}

	f, err := os.CreateTemp("", "interview-audio-*.mp3")
	if err != nil {
		return "", nil, fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove temp audio file", "path", path, "error", err)
		}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp audio file: %w", err)
	}

	return path, cleanup, nil
}
