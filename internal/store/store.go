// Package store persists job records and the processed-reference tracker
// in SQLite. The default database lives in memory, keeping job state local
// to the process; pointing the store at a file makes it survive restarts
// without any code change.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"squeeze/internal/config"
	"squeeze/internal/fileutil"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	trackerMax int
	trackerTTL time.Duration
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes the job database described by the configuration. An
// empty store path selects an in-memory database scoped to this process.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := strings.TrimSpace(cfg.Store.Path)
	inMemory := dbPath == ""
	if inMemory {
		dbPath = ":memory:"
	} else if err := fileutil.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("ensure store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if inMemory {
		// Each pooled connection would otherwise see its own empty
		// database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:         db,
		path:       dbPath,
		trackerMax: cfg.Tracker.MaxEntries,
		trackerTTL: time.Duration(cfg.Tracker.TTLSeconds) * time.Second,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location, ":memory:" for process-local stores.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	source_ref TEXT NOT NULL,
	title TEXT NOT NULL,
	strategy TEXT NOT NULL,
	stage TEXT NOT NULL,
	original_bytes INTEGER NOT NULL DEFAULT 0,
	compressed_bytes INTEGER NOT NULL DEFAULT 0,
	progress_stage TEXT NOT NULL DEFAULT '',
	progress_percent REAL NOT NULL DEFAULT 0,
	progress_message TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_stage ON jobs(stage);
CREATE TABLE IF NOT EXISTS processed_refs (
	ref TEXT PRIMARY KEY,
	processed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processed_refs_at ON processed_refs(processed_at);
`
	if _, err := s.db.ExecContext(ensureContext(ctx), schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
