package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values follow the retention policy the service has always shipped
// with (thirty days, ten records per session, one sweep attempt per day).
const (
	// DefaultListenAddress is the address the HTTP API binds to.
	// Binding to all interfaces on port 5000 keeps the service reachable
	// behind the usual reverse-proxy setups without extra flags.
	DefaultListenAddress = ":5000"

	// DefaultRetentionDays is how many days of scan history to keep.
	// Thirty days is enough for users to compare results across browser
	// or network changes while keeping the database bounded.
	DefaultRetentionDays = 30

	// DefaultPerSessionCap is the number of newest records kept per
	// session by the retention sweep. It matches the history endpoint,
	// which never serves more than ten records, so trimming beyond ten
	// deletes nothing a user could still see.
	DefaultPerSessionCap = 10

	// DefaultSweepInterval is the minimum time between opportunistic
	// retention sweeps. Once per day is sufficient: records expire on a
	// thirty-day scale, so a finer cadence would only add DELETE traffic.
	DefaultSweepInterval = 24 * time.Hour

	// DefaultLookupTimeout bounds each external lookup (geolocation
	// providers, proxy intelligence). The scan endpoint waits for these
	// inline, so the budget must stay well under a browser's patience.
	// 3 seconds per provider keeps the worst case around ten seconds.
	DefaultLookupTimeout = 3 * time.Second

	// DefaultMaxBodySize limits the request body size the API reads.
	// A full telemetry bundle is tens of kilobytes of JSON; 1MB leaves
	// room for verbose clients while preventing memory exhaustion.
	DefaultMaxBodySize = 1 * 1024 * 1024 // 1MB

	// AppName is the application name used for XDG directory paths.
	AppName = "prvcsh"
)

// Config holds all configuration options for the service.
// This struct is populated from CLI flags (and optionally the .prvcsh.yml
// file) and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ServerConfig, RetentionConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit. If the configuration grows significantly, consider
// refactoring into sub-structs.
type Config struct {
	// ListenAddress is the address the HTTP API binds to in
	// "host:port" format. Only the serve command uses it.
	ListenAddress string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/prvcsh on Linux).
	DBDir string

	// RedisAddress enables the Redis-backed geolocation cache when set
	// ("host:port"). When empty, lookups are cached in process memory
	// only, which is fine for a single instance.
	RedisAddress string

	// AdminTokenHash is the bcrypt hash of the token guarding the admin
	// endpoints (stats, cleanup). When empty, the admin API is disabled
	// entirely rather than left open.
	AdminTokenHash string

	// AllowedOrigins lists the origins the CORS middleware accepts.
	// When empty, cross-origin requests are answered permissively but
	// without credentials, which suits the same-origin web frontend.
	AllowedOrigins []string

	// RetentionDays is how many days of scan history the retention
	// sweep keeps. Records older than this are deleted.
	RetentionDays int

	// PerSessionCap is the number of newest records the retention sweep
	// keeps per session. Older records beyond the cap are deleted.
	PerSessionCap int

	// SweepInterval is the minimum time between opportunistic retention
	// sweeps triggered from request handling.
	SweepInterval time.Duration

	// LookupTimeout is the per-provider timeout for external lookups
	// during a scan (geolocation, proxy intelligence).
	LookupTimeout time.Duration

	// MaxBodySize is the maximum request body size in bytes the API
	// reads. Larger submissions are rejected. Set to 0 to use the
	// default (1MB).
	MaxBodySize int64

	// Debug enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Debug bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .prvcsh.yml in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// InputFile is the telemetry JSON file scored by the scan command.
	InputFile string

	// ClientIP is an optional address recorded with offline scan results.
	// The scan command performs no network lookups, so the address is
	// recorded as-is without geolocation.
	ClientIP string

	// JSONReport enables JSON report output for the scan command.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output for the scan command.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the scan command's report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., the retention
// window, the listen port). This also serves as documentation of what
// the defaults are.
func NewConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		DBDir:         XDGDataDir(),
		RetentionDays: DefaultRetentionDays,
		PerSessionCap: DefaultPerSessionCap,
		SweepInterval: DefaultSweepInterval,
		LookupTimeout: DefaultLookupTimeout,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for the service.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/prvcsh
// On macOS: ~/Library/Application Support/prvcsh
// On Windows: %LOCALAPPDATA%\prvcsh
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The serve command cannot bind without an address
	if c.ListenAddress == "" {
		return ErrInvalidListenAddress
	}

	// Retention must keep at least one day; zero would delete everything
	if c.RetentionDays <= 0 {
		return ErrInvalidRetentionDays
	}

	// The per-session cap must keep at least one record
	if c.PerSessionCap <= 0 {
		return ErrInvalidPerSessionCap
	}

	// A non-positive interval would sweep on every request
	if c.SweepInterval <= 0 {
		return ErrInvalidSweepInterval
	}

	// Zero timeout would make every external lookup fail immediately
	if c.LookupTimeout <= 0 {
		return ErrInvalidLookupTimeout
	}

	// MaxBodySize must be non-negative; zero means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// DatabasePath returns the directory that should hold the SQLite database,
// falling back to the XDG data directory when DBDir is unset.
func (c *Config) DatabasePath() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}
