package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/interviewsim/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // Serialize writes to prevent SQLITE_BUSY under churn
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interview_results (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		feedback TEXT NOT NULL,
		transcript TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_created ON interview_results(created_at);
	CREATE INDEX IF NOT EXISTS idx_results_candidate ON interview_results(candidate_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveResult archives a scored submission. Retries once when SQLite reports
// a concurrency conflict.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *domain.Result) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	query := `
		INSERT INTO interview_results (id, candidate_id, score, feedback, transcript, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		result.ID, result.CandidateID, result.Score, result.Feedback,
		result.Transcript, result.CreatedAt.Unix(),
	)
	if err != nil && isSQLiteConflict(err) {
		_, err = s.db.ExecContext(ctx, query,
			result.ID, result.CandidateID, result.Score, result.Feedback,
			result.Transcript, result.CreatedAt.Unix(),
		)
	}
	if err != nil {
		return fmt.Errorf("insert interview result: %w", err)
	}
	return nil
}

// GetResult retrieves one archived result by ID.
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*domain.Result, error) {
	query := `
		SELECT id, candidate_id, score, feedback, transcript, created_at
		FROM interview_results WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan result row: %w", err)
	}
	return result, nil
}

// ListResults retrieves the most recent archived results, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]*domain.Result, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, candidate_id, score, feedback, transcript, created_at
		FROM interview_results ORDER BY created_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []*domain.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return results, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.Result, error) {
	var result domain.Result
	var transcript sql.NullString
	var createdAt int64

	err := row.Scan(&result.ID, &result.CandidateID, &result.Score,
		&result.Feedback, &transcript, &createdAt)
	if err != nil {
		return nil, err
	}

	result.Transcript = transcript.String
	result.CreatedAt = time.Unix(createdAt, 0)
	return &result, nil
}

// isSQLiteConflict reports SQLITE_BUSY and "database is locked" errors,
// which typically warrant a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
