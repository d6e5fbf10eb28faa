package database

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Retention defaults: one sweep attempt per day, a thirty-day keep
// window, and a per-session cap matching the web history depth.
const (
	defaultSweepInterval = 24 * time.Hour
	defaultMaxAge        = 30 * 24 * time.Hour
	defaultPerSessionCap = 10
)

// RetentionSweeper deletes age-expired scan records and trims per-session
// overflow so the database stays bounded.
//
// Design decision: We sweep opportunistically from request handling rather
// than running a ticker goroutine because:
// 1. The process may be short-lived (offline scan command); a ticker might
//    never fire before exit
// 2. A database receiving no traffic accumulates no new records, so there
//    is nothing to delete while idle
// 3. The last-run gate plus TryLock bounds the cost to one DELETE pair per
//    interval, with overlapping calls returning immediately
type RetentionSweeper struct {
	db *ScanDB

	// interval is the minimum time between opportunistic sweeps.
	interval time.Duration

	// maxAge is how old a record may grow before the sweep deletes it.
	maxAge time.Duration

	// perSession is the number of newest records kept per session.
	perSession int

	logger *slog.Logger

	// now returns the current time. Injected for tests.
	now func() time.Time

	// mu is held for the duration of a sweep and guards lastRun.
	mu      sync.Mutex
	lastRun time.Time
}

// SweeperOption configures a RetentionSweeper.
type SweeperOption func(*RetentionSweeper)

// WithSweepInterval sets the minimum time between opportunistic sweeps.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *RetentionSweeper) {
		s.interval = d
	}
}

// WithMaxAge sets how old records may grow before deletion.
func WithMaxAge(d time.Duration) SweeperOption {
	return func(s *RetentionSweeper) {
		s.maxAge = d
	}
}

// WithPerSessionCap sets how many newest records each session keeps.
func WithPerSessionCap(n int) SweeperOption {
	return func(s *RetentionSweeper) {
		s.perSession = n
	}
}

// WithSweeperLogger sets the logger for sweep outcomes.
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *RetentionSweeper) {
		s.logger = logger
	}
}

// WithSweeperClock replaces the time source. Used by tests.
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(s *RetentionSweeper) {
		s.now = now
	}
}

// NewRetentionSweeper creates a sweeper over db with the given options.
// Defaults: one-hour interval, thirty-day retention, ten records per session.
func NewRetentionSweeper(db *ScanDB, opts ...SweeperOption) *RetentionSweeper {
	s := &RetentionSweeper{
		db:         db,
		interval:   defaultSweepInterval,
		maxAge:     defaultMaxAge,
		perSession: defaultPerSessionCap,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaybeSweep runs a sweep if the interval has elapsed since the last one.
// It returns immediately when a sweep is already in progress or the interval
// has not passed; the return value reports whether a sweep was attempted.
// Callers on the request path should invoke it from a goroutine.
func (s *RetentionSweeper) MaybeSweep(ctx context.Context) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastRun.IsZero() && now.Sub(s.lastRun) < s.interval {
		return false
	}
	// A failed attempt still counts: retrying every request against a
	// broken database would only amplify the failure.
	s.lastRun = now

	expired, overflow, err := s.sweep(ctx, now)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return true
	}
	if expired > 0 || overflow > 0 {
		s.logger.Info("retention sweep completed",
			"expired", expired,
			"overflow", overflow)
	}
	return true
}

// Sweep runs a sweep unconditionally, waiting for any in-progress sweep to
// finish first. It returns the expired and overflow deletion counts.
func (s *RetentionSweeper) Sweep(ctx context.Context) (expired, overflow int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastRun = now
	return s.sweep(ctx, now)
}

// sweep deletes expired records, then per-session overflow. The caller must
// hold s.mu.
func (s *RetentionSweeper) sweep(ctx context.Context, now time.Time) (int64, int64, error) {
	expired, err := s.db.DeleteOlderThan(ctx, now.Add(-s.maxAge))
	if err != nil {
		return 0, 0, err
	}

	overflow, err := s.db.TrimSessionOverflow(ctx, s.perSession)
	if err != nil {
		return expired, 0, err
	}

	return expired, overflow, nil
}
