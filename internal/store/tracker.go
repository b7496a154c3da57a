package store

import (
	"context"
	"fmt"
	"time"
)

// IsProcessed reports whether the reference was marked within the tracker
// TTL. Expired marks count as unseen.
func (s *Store) IsProcessed(ctx context.Context, ref string) (bool, error) {
	cutoff := time.Now().UTC().Add(-s.trackerTTL)
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT COUNT(1) FROM processed_refs WHERE ref = ? AND processed_at > ?", ref, cutoff)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check processed ref: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed records the reference and evicts expired or excess marks so
// the tracker stays bounded.
func (s *Store) MarkProcessed(ctx context.Context, ref string) error {
	now := time.Now().UTC()
	if err := s.execWithRetry(ctx,
		"INSERT INTO processed_refs (ref, processed_at) VALUES (?, ?) ON CONFLICT(ref) DO UPDATE SET processed_at = excluded.processed_at",
		ref, now); err != nil {
		return fmt.Errorf("mark processed ref: %w", err)
	}
	return s.sweepTracker(ctx, now)
}

// ClearProcessed drops every tracker mark.
func (s *Store) ClearProcessed(ctx context.Context) error {
	if err := s.execWithRetry(ctx, "DELETE FROM processed_refs"); err != nil {
		return fmt.Errorf("clear processed refs: %w", err)
	}
	return nil
}

func (s *Store) sweepTracker(ctx context.Context, now time.Time) error {
	if err := s.execWithRetry(ctx,
		"DELETE FROM processed_refs WHERE processed_at <= ?", now.Add(-s.trackerTTL)); err != nil {
		return fmt.Errorf("sweep expired refs: %w", err)
	}
	if s.trackerMax <= 0 {
		return nil
	}
	// Oldest entries beyond the cap go first.
	if err := s.execWithRetry(ctx, `
DELETE FROM processed_refs WHERE ref NOT IN (
	SELECT ref FROM processed_refs ORDER BY processed_at DESC, ref LIMIT ?
)`, s.trackerMax); err != nil {
		return fmt.Errorf("sweep excess refs: %w", err)
	}
	return nil
}
