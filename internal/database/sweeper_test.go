package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNewRetentionSweeperDefaults verifies the documented defaults.
func TestNewRetentionSweeperDefaults(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	s := NewRetentionSweeper(db)

	if s.interval != 24*time.Hour {
		t.Errorf("expected daily interval, got %v", s.interval)
	}
	if s.maxAge != 30*24*time.Hour {
		t.Errorf("expected thirty-day max age, got %v", s.maxAge)
	}
	if s.perSession != 10 {
		t.Errorf("expected per-session cap of 10, got %d", s.perSession)
	}
	if s.now == nil {
		t.Error("expected a default clock")
	}
}

// TestMaybeSweepIntervalGate verifies the last-run timestamp gating.
func TestMaybeSweepIntervalGate(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := NewRetentionSweeper(db,
		WithSweepInterval(time.Hour),
		WithSweeperClock(func() time.Time { return now }),
		WithSweeperLogger(discardLogger()),
	)

	ctx := context.Background()

	if !s.MaybeSweep(ctx) {
		t.Error("expected first call to sweep")
	}
	if s.MaybeSweep(ctx) {
		t.Error("expected second call within the interval to skip")
	}

	now = now.Add(time.Hour)
	if !s.MaybeSweep(ctx) {
		t.Error("expected call after the interval to sweep")
	}
}

// TestMaybeSweepSkipsWhileSweeping verifies at-most-one-concurrent-sweep.
func TestMaybeSweepSkipsWhileSweeping(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	s := NewRetentionSweeper(db, WithSweeperLogger(discardLogger()))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.MaybeSweep(context.Background()) {
		t.Error("expected call to skip while another sweep holds the lock")
	}
}

// TestMaybeSweepDeletes verifies that a sweep removes both expired records
// and per-session overflow.
func TestMaybeSweepDeletes(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	oldID, err := db.Save(ctx, sampleRecord("sess-old", now.Add(-40*24*time.Hour)))
	if err != nil {
		t.Fatalf("failed to save expired record: %v", err)
	}
	for i := 0; i < 4; i++ {
		rec := sampleRecord("sess-busy", now.Add(-time.Duration(i+1)*time.Hour))
		if _, err := db.Save(ctx, rec); err != nil {
			t.Fatalf("failed to save record %d: %v", i, err)
		}
	}

	s := NewRetentionSweeper(db,
		WithMaxAge(30*24*time.Hour),
		WithPerSessionCap(2),
		WithSweeperClock(func() time.Time { return now }),
		WithSweeperLogger(discardLogger()),
	)

	if !s.MaybeSweep(ctx) {
		t.Fatal("expected sweep to run")
	}

	if _, err := db.Get(ctx, oldID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired record gone, got %v", err)
	}

	records, err := db.History(ctx, "sess-busy", 10)
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(records))
	}
	for i, rec := range records {
		wantCreated := now.Add(-time.Duration(i+1) * time.Hour)
		if !rec.CreatedAt.Equal(wantCreated) {
			t.Errorf("record %d: expected created %v, got %v", i, wantCreated, rec.CreatedAt)
		}
	}
}

// TestSweepForced verifies that Sweep ignores the interval gate and
// returns deletion counts.
func TestSweepForced(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	if _, err := db.Save(ctx, sampleRecord("sess-old", now.Add(-40*24*time.Hour))); err != nil {
		t.Fatalf("failed to save expired record: %v", err)
	}
	for i := 0; i < 3; i++ {
		rec := sampleRecord("sess-busy", now.Add(-time.Duration(i+1)*time.Hour))
		if _, err := db.Save(ctx, rec); err != nil {
			t.Fatalf("failed to save record %d: %v", i, err)
		}
	}

	s := NewRetentionSweeper(db,
		WithMaxAge(30*24*time.Hour),
		WithPerSessionCap(1),
		WithSweeperClock(func() time.Time { return now }),
		WithSweeperLogger(discardLogger()),
	)

	expired, overflow, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("expected 1 expired deletion, got %d", expired)
	}
	if overflow != 2 {
		t.Errorf("expected 2 overflow deletions, got %d", overflow)
	}

	// A forced sweep runs again immediately; nothing is left to delete.
	expired, overflow, err = s.Sweep(ctx)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if expired != 0 || overflow != 0 {
		t.Errorf("expected clean second sweep, got expired=%d overflow=%d", expired, overflow)
	}
}
