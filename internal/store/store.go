// Package store provides persistence for scored interview results.
package store

import (
	"context"

	"github.com/interviewsim/backend/internal/domain"
)

// Repository defines the interface for archiving interview results. Live
// interview state is process-lifetime only; the archive is write-behind
// history of scored submissions.
type Repository interface {
	// SaveResult archives a scored submission.
	SaveResult(ctx context.Context, result *domain.Result) error

	// GetResult retrieves one archived result by ID. Returns nil when absent.
	GetResult(ctx context.Context, id string) (*domain.Result, error)

	// ListResults retrieves the most recent archived results, newest first.
	ListResults(ctx context.Context, limit int) ([]*domain.Result, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
