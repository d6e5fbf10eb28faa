package config

import "errors"

// Sentinel errors returned by Config.Validate and the CLI layer. Callers
// branch on them with errors.Is; the messages double as the user-facing
// text, so each names the setting and what it accepts.
var (
	// ErrNoInput is returned by the scan command when no telemetry file
	// is specified. The command needs a JSON bundle to score.
	ErrNoInput = errors.New("no input specified: provide a telemetry JSON file")

	// ErrInvalidListenAddress is returned when the listen address is empty.
	// The serve command cannot bind without one.
	ErrInvalidListenAddress = errors.New("invalid listen address: must not be empty")

	// ErrInvalidRetentionDays is returned when the retention window is not
	// positive. Zero days would delete every record on the next sweep.
	ErrInvalidRetentionDays = errors.New("invalid retention days: must be positive")

	// ErrInvalidPerSessionCap is returned when the per-session cap is not
	// positive. The sweep must keep at least one record per session.
	ErrInvalidPerSessionCap = errors.New("invalid per-session cap: must be positive")

	// ErrInvalidSweepInterval is returned when the sweep interval is not
	// positive. A non-positive interval would sweep on every request.
	ErrInvalidSweepInterval = errors.New("invalid sweep interval: must be positive")

	// ErrInvalidLookupTimeout is returned when the lookup timeout is not
	// positive. A zero timeout would fail every external lookup immediately.
	ErrInvalidLookupTimeout = errors.New("invalid lookup timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Zero selects the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
