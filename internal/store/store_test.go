package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"squeeze/internal/config"
)

func openTestStore(t *testing.T, mutate func(*config.Config)) *Store {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return s
}

func TestOpenDefaultsToMemory(t *testing.T) {
	s := openTestStore(t, nil)
	if s.Path() != ":memory:" {
		t.Fatalf("expected in-memory database, got %q", s.Path())
	}
}

func TestOpenCreatesFileDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "jobs.db")
	s := openTestStore(t, func(cfg *config.Config) {
		cfg.Store.Path = path
	})
	if s.Path() != path {
		t.Fatalf("expected file database at %q, got %q", path, s.Path())
	}
}

func TestJobRoundTrip(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	job := NewJob("file://clip.mp4", "Clip", "compress", "pending")
	if err := s.InsertJob(ctx, job); err != nil {
		t.Fatalf("InsertJob returned error: %v", err)
	}

	job.Stage = "compressing"
	job.OriginalBytes = 1000
	job.ProgressPercent = 42.5
	if err := s.UpdateJob(ctx, job); err != nil {
		t.Fatalf("UpdateJob returned error: %v", err)
	}

	loaded, err := s.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if loaded.Stage != "compressing" || loaded.OriginalBytes != 1000 {
		t.Fatalf("unexpected job state: %+v", loaded)
	}
	if loaded.ProgressPercent != 42.5 {
		t.Fatalf("expected progress 42.5, got %v", loaded.ProgressPercent)
	}
}

func TestGetJobUnknownID(t *testing.T) {
	s := openTestStore(t, nil)
	if _, err := s.GetJob(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestListJobsNewestFirst(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	older := NewJob("a", "A", "compress", "completed")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := NewJob("b", "B", "maintain", "pending")
	for _, job := range []*Job{older, newer} {
		if err := s.InsertJob(ctx, job); err != nil {
			t.Fatalf("InsertJob returned error: %v", err)
		}
	}

	jobs, err := s.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected two jobs, got %d", len(jobs))
	}
	if jobs[0].SourceRef != "b" {
		t.Fatalf("expected newest job first, got %q", jobs[0].SourceRef)
	}
}

func TestTrackerMarksAndExpires(t *testing.T) {
	s := openTestStore(t, func(cfg *config.Config) {
		cfg.Tracker.TTLSeconds = 1
	})
	ctx := context.Background()

	if seen, err := s.IsProcessed(ctx, "ref-1"); err != nil || seen {
		t.Fatalf("expected unseen ref, got seen=%v err=%v", seen, err)
	}
	if err := s.MarkProcessed(ctx, "ref-1"); err != nil {
		t.Fatalf("MarkProcessed returned error: %v", err)
	}
	if seen, err := s.IsProcessed(ctx, "ref-1"); err != nil || !seen {
		t.Fatalf("expected marked ref, got seen=%v err=%v", seen, err)
	}

	time.Sleep(1100 * time.Millisecond)
	if seen, err := s.IsProcessed(ctx, "ref-1"); err != nil || seen {
		t.Fatalf("expected expired ref to read as unseen, got seen=%v err=%v", seen, err)
	}
}

func TestTrackerEvictsBeyondCap(t *testing.T) {
	s := openTestStore(t, func(cfg *config.Config) {
		cfg.Tracker.MaxEntries = 2
	})
	ctx := context.Background()

	for _, ref := range []string{"ref-1", "ref-2", "ref-3"} {
		if err := s.MarkProcessed(ctx, ref); err != nil {
			t.Fatalf("MarkProcessed returned error: %v", err)
		}
		// Distinct timestamps keep eviction order deterministic.
		time.Sleep(5 * time.Millisecond)
	}

	if seen, _ := s.IsProcessed(ctx, "ref-1"); seen {
		t.Fatal("expected oldest ref evicted once the cap was exceeded")
	}
	for _, ref := range []string{"ref-2", "ref-3"} {
		if seen, err := s.IsProcessed(ctx, ref); err != nil || !seen {
			t.Fatalf("expected %s retained, got seen=%v err=%v", ref, seen, err)
		}
	}
}

func TestClearProcessed(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	if err := s.MarkProcessed(ctx, "ref-1"); err != nil {
		t.Fatalf("MarkProcessed returned error: %v", err)
	}
	if err := s.ClearProcessed(ctx); err != nil {
		t.Fatalf("ClearProcessed returned error: %v", err)
	}
	if seen, _ := s.IsProcessed(ctx, "ref-1"); seen {
		t.Fatal("expected tracker cleared")
	}
}
