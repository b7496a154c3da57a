package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job is one compression run as the store records it.
type Job struct {
	ID              string
	SourceRef       string
	Title           string
	Strategy        string
	Stage           string
	OriginalBytes   int64
	CompressedBytes int64
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ErrJobNotFound reports a lookup for an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// NewJob builds an unsaved job record with a fresh identifier.
func NewJob(sourceRef, title, strategy, stage string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		SourceRef: sourceRef,
		Title:     title,
		Strategy:  strategy,
		Stage:     stage,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InsertJob persists a new job record.
func (s *Store) InsertJob(ctx context.Context, job *Job) error {
	const query = `
INSERT INTO jobs (id, source_ref, title, strategy, stage, original_bytes, compressed_bytes,
	progress_stage, progress_percent, progress_message, error_message, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	err := s.execWithRetry(ctx, query,
		job.ID, job.SourceRef, job.Title, job.Strategy, job.Stage,
		job.OriginalBytes, job.CompressedBytes,
		job.ProgressStage, job.ProgressPercent, job.ProgressMessage,
		job.ErrorMessage, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// UpdateJob persists the mutable fields of an existing job.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE jobs SET stage = ?, original_bytes = ?, compressed_bytes = ?,
	progress_stage = ?, progress_percent = ?, progress_message = ?,
	error_message = ?, updated_at = ?
WHERE id = ?`
	err := s.execWithRetry(ctx, query,
		job.Stage, job.OriginalBytes, job.CompressedBytes,
		job.ProgressStage, job.ProgressPercent, job.ProgressMessage,
		job.ErrorMessage, job.UpdatedAt, job.ID)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// GetJob loads one job by id.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	const query = `
SELECT id, source_ref, title, strategy, stage, original_bytes, compressed_bytes,
	progress_stage, progress_percent, progress_message, error_message, created_at, updated_at
FROM jobs WHERE id = ?`
	row := s.db.QueryRowContext(ensureContext(ctx), query, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs returns all jobs, newest first.
func (s *Store) ListJobs(ctx context.Context) ([]*Job, error) {
	const query = `
SELECT id, source_ref, title, strategy, stage, original_bytes, compressed_bytes,
	progress_stage, progress_percent, progress_message, error_message, created_at, updated_at
FROM jobs ORDER BY created_at DESC, id DESC`
	rows, err := s.db.QueryContext(ensureContext(ctx), query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list jobs: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	err := row.Scan(&job.ID, &job.SourceRef, &job.Title, &job.Strategy, &job.Stage,
		&job.OriginalBytes, &job.CompressedBytes,
		&job.ProgressStage, &job.ProgressPercent, &job.ProgressMessage,
		&job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
