package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hydro414e13/prvcsh/internal/model"
)

// ErrNotFound is returned when no scan record matches the requested ID.
var ErrNotFound = errors.New("scan record not found")

// defaultHistoryLimit caps History results when the caller passes no limit,
// matching the ten-entry history view.
const defaultHistoryLimit = 10

// ScanDB provides SQLite-based storage for scan records.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all sessions rather
// than one file per session. Sessions are short-lived browser cookies;
// per-session files would leak handles and make retention sweeps scan the
// filesystem instead of running two DELETE statements.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool

	// BusyTimeout is how long a connection waits on a locked database before
	// failing. Request handlers and the retention sweeper can contend for the
	// single writer slot.
	BusyTimeout time.Duration
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		BusyTimeout:       5 * time.Second,
	}
}

// Open opens or creates a ScanDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "prvcsh.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	pragmas := make([]string, 0, 3)
	if opts.EnableWAL {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout=%d", opts.BusyTimeout.Milliseconds()))
	}
	pragmas = append(pragmas, "PRAGMA foreign_keys=ON")

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	// Create tables
	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// Path returns the path of the SQLite database file.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
//
// Every normalized signal is flattened into typed columns; list- and
// map-shaped fields are stored as JSON text. The column order here is the
// canonical order: scanColumns, bindRecord and scanRecordRow mirror it.
func (sdb *ScanDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		created_at TEXT NOT NULL,

		-- IP context
		ip_address TEXT,
		ip_version TEXT,
		country TEXT,
		country_code TEXT,
		region TEXT,
		city TEXT,
		timezone TEXT,
		latitude REAL,
		longitude REAL,
		isp TEXT,
		asn TEXT,
		is_vpn INTEGER NOT NULL DEFAULT 0,
		is_proxy INTEGER NOT NULL DEFAULT 0,
		is_tor INTEGER NOT NULL DEFAULT 0,
		proxy_type TEXT,
		headers_json TEXT,

		-- Browser fingerprint
		user_agent TEXT,
		browser_info TEXT,
		os_info TEXT,
		screen_resolution TEXT,
		timezone_offset TEXT,
		language TEXT,

		-- WebRTC leak
		webrtc_tested INTEGER NOT NULL DEFAULT 0,
		webrtc_has_leak INTEGER NOT NULL DEFAULT 0,
		webrtc_leaked_ips TEXT,

		-- DNS leak
		dns_leak_tested INTEGER NOT NULL DEFAULT 0,
		dns_has_leak INTEGER NOT NULL DEFAULT 0,
		dns_servers TEXT,

		-- Email breach
		email_check_performed INTEGER NOT NULL DEFAULT 0,
		email_leaked INTEGER NOT NULL DEFAULT 0,
		email_breach_sites TEXT,

		-- Cookies
		cookies_tested INTEGER NOT NULL DEFAULT 0,
		tracking_cookies_found INTEGER NOT NULL DEFAULT 0,
		cookie_count INTEGER NOT NULL DEFAULT 0,
		tracking_cookies TEXT,
		third_party_cookies_enabled INTEGER NOT NULL DEFAULT 0,

		-- Canvas fingerprint
		canvas_tested INTEGER NOT NULL DEFAULT 0,
		canvas_fingerprintable INTEGER NOT NULL DEFAULT 0,
		canvas_uniqueness_score INTEGER NOT NULL DEFAULT 0,
		canvas_protection_active INTEGER NOT NULL DEFAULT 0,
		canvas_fingerprint TEXT,

		-- Permissions and features
		permissions_tested INTEGER NOT NULL DEFAULT 0,
		permissions_supported INTEGER NOT NULL DEFAULT 0,
		permission_data TEXT,
		feature_data TEXT,
		autoplay_enabled INTEGER NOT NULL DEFAULT 0,

		-- Connection security
		ssl_tested INTEGER NOT NULL DEFAULT 0,
		ssl_secure INTEGER NOT NULL DEFAULT 0,
		ssl_version TEXT,
		ssl_cipher TEXT,
		ssl_protocol TEXT,

		-- Password strength
		password_check_performed INTEGER NOT NULL DEFAULT 0,
		password_strength_score INTEGER NOT NULL DEFAULT 0,
		password_feedback TEXT,

		-- Extension detection
		extension_detection_tested INTEGER NOT NULL DEFAULT 0,
		privacy_extensions_detected INTEGER NOT NULL DEFAULT 0,
		detected_extensions TEXT,

		-- Hardware fingerprint
		hardware_tested INTEGER NOT NULL DEFAULT 0,
		hardware_concurrency INTEGER,
		device_memory REAL,
		cpu_cores INTEGER,
		gpu_vendor TEXT,
		gpu_renderer TEXT,

		-- Battery API
		battery_tested INTEGER NOT NULL DEFAULT 0,
		battery_api_available INTEGER NOT NULL DEFAULT 0,
		battery_level REAL,
		battery_charging INTEGER,

		-- Audio fingerprint
		audio_tested INTEGER NOT NULL DEFAULT 0,
		audio_fingerprintable INTEGER NOT NULL DEFAULT 0,
		audio_fingerprint TEXT,

		-- Font fingerprint
		fonts_tested INTEGER NOT NULL DEFAULT 0,
		unique_fonts_detected INTEGER NOT NULL DEFAULT 0,
		font_fingerprint TEXT,

		-- Security headers
		security_headers_tested INTEGER NOT NULL DEFAULT 0,
		security_headers_score INTEGER NOT NULL DEFAULT 0,
		security_headers TEXT,
		missing_security_headers TEXT,

		-- Timezone consistency
		timezone_tested INTEGER NOT NULL DEFAULT 0,
		timezone_consistent INTEGER NOT NULL DEFAULT 0,
		reported_timezone TEXT,
		detected_timezone TEXT,
		offset_consistent INTEGER NOT NULL DEFAULT 0,
		reported_offset INTEGER,
		calculated_offset INTEGER,
		dst_status TEXT,
		timezone_confidence INTEGER NOT NULL DEFAULT 0,
		timezone_discrepancies TEXT,

		-- Profile authenticity
		authenticity_tested INTEGER NOT NULL DEFAULT 0,
		authentic_appearance INTEGER NOT NULL DEFAULT 0,
		authenticity_score INTEGER NOT NULL DEFAULT 0,
		bot_detection_risk TEXT,
		suspicious_factors TEXT,
		authenticity_factors TEXT,
		authenticity_recommendations TEXT,

		-- Behavioral analysis
		behavior_tested INTEGER NOT NULL DEFAULT 0,
		natural_behavior INTEGER NOT NULL DEFAULT 0,
		behavior_score INTEGER NOT NULL DEFAULT 0,
		suspicious_patterns TEXT,
		natural_patterns TEXT,
		interaction_metrics TEXT,

		-- Anti-bot detection
		antibot_tested INTEGER NOT NULL DEFAULT 0,
		passes_basic_bot_checks INTEGER NOT NULL DEFAULT 0,
		passes_advanced_bot_checks INTEGER NOT NULL DEFAULT 0,
		detection_risk_score INTEGER NOT NULL DEFAULT 0,
		triggered_detections TEXT,
		passed_detections TEXT,
		vulnerable_services TEXT,
		detection_evasion_advice TEXT,

		-- Privacy extension impact
		privacy_extensions_tested INTEGER NOT NULL DEFAULT 0,
		extensions_detected TEXT,
		possible_extensions TEXT,
		extension_privacy_impact INTEGER NOT NULL DEFAULT 0,
		extension_authenticity_impact INTEGER NOT NULL DEFAULT 0,
		extension_compatibility_impact INTEGER NOT NULL DEFAULT 0,
		extension_recommendations TEXT,

		-- Do Not Track
		do_not_track_tested INTEGER NOT NULL DEFAULT 0,
		do_not_track_enabled INTEGER NOT NULL DEFAULT 0,

		-- DNS server country
		dns_country_tested INTEGER NOT NULL DEFAULT 0,
		dns_country TEXT,
		dns_country_different INTEGER NOT NULL DEFAULT 0,

		-- Language vs location
		language_tested INTEGER NOT NULL DEFAULT 0,
		system_language TEXT,
		browser_language TEXT,
		language_location_different INTEGER NOT NULL DEFAULT 0,

		-- Assessment
		anonymity_score INTEGER NOT NULL,
		risk_level TEXT NOT NULL,
		score_factors TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_session ON scans(session_id);
	CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// scanColumns lists every stored column except id, in schema order.
// bindRecord and scanRecordRow walk this order; keep all three in sync.
var scanColumns = []string{
	"session_id", "created_at",
	// IP context
	"ip_address", "ip_version", "country", "country_code", "region", "city",
	"timezone", "latitude", "longitude", "isp", "asn",
	"is_vpn", "is_proxy", "is_tor", "proxy_type",
	"headers_json",
	// Browser fingerprint
	"user_agent", "browser_info", "os_info", "screen_resolution",
	"timezone_offset", "language",
	// WebRTC leak
	"webrtc_tested", "webrtc_has_leak", "webrtc_leaked_ips",
	// DNS leak
	"dns_leak_tested", "dns_has_leak", "dns_servers",
	// Email breach
	"email_check_performed", "email_leaked", "email_breach_sites",
	// Cookies
	"cookies_tested", "tracking_cookies_found", "cookie_count",
	"tracking_cookies", "third_party_cookies_enabled",
	// Canvas fingerprint
	"canvas_tested", "canvas_fingerprintable", "canvas_uniqueness_score",
	"canvas_protection_active", "canvas_fingerprint",
	// Permissions and features
	"permissions_tested", "permissions_supported", "permission_data",
	"feature_data", "autoplay_enabled",
	// Connection security
	"ssl_tested", "ssl_secure", "ssl_version", "ssl_cipher", "ssl_protocol",
	// Password strength
	"password_check_performed", "password_strength_score", "password_feedback",
	// Extension detection
	"extension_detection_tested", "privacy_extensions_detected", "detected_extensions",
	// Hardware fingerprint
	"hardware_tested", "hardware_concurrency", "device_memory", "cpu_cores",
	"gpu_vendor", "gpu_renderer",
	// Battery API
	"battery_tested", "battery_api_available", "battery_level", "battery_charging",
	// Audio fingerprint
	"audio_tested", "audio_fingerprintable", "audio_fingerprint",
	// Font fingerprint
	"fonts_tested", "unique_fonts_detected", "font_fingerprint",
	// Security headers
	"security_headers_tested", "security_headers_score", "security_headers",
	"missing_security_headers",
	// Timezone consistency
	"timezone_tested", "timezone_consistent", "reported_timezone",
	"detected_timezone", "offset_consistent", "reported_offset",
	"calculated_offset", "dst_status", "timezone_confidence",
	"timezone_discrepancies",
	// Profile authenticity
	"authenticity_tested", "authentic_appearance", "authenticity_score",
	"bot_detection_risk", "suspicious_factors", "authenticity_factors",
	"authenticity_recommendations",
	// Behavioral analysis
	"behavior_tested", "natural_behavior", "behavior_score",
	"suspicious_patterns", "natural_patterns", "interaction_metrics",
	// Anti-bot detection
	"antibot_tested", "passes_basic_bot_checks", "passes_advanced_bot_checks",
	"detection_risk_score", "triggered_detections", "passed_detections",
	"vulnerable_services", "detection_evasion_advice",
	// Privacy extension impact
	"privacy_extensions_tested", "extensions_detected", "possible_extensions",
	"extension_privacy_impact", "extension_authenticity_impact",
	"extension_compatibility_impact", "extension_recommendations",
	// Do Not Track
	"do_not_track_tested", "do_not_track_enabled",
	// DNS server country
	"dns_country_tested", "dns_country", "dns_country_different",
	// Language vs location
	"language_tested", "system_language", "browser_language",
	"language_location_different",
	// Assessment
	"anonymity_score", "risk_level", "score_factors",
}

var (
	insertScanQuery = "INSERT INTO scans (" + strings.Join(scanColumns, ", ") +
		") VALUES (" + placeholders(len(scanColumns)) + ")"
	selectScanQuery = "SELECT id, " + strings.Join(scanColumns, ", ") + " FROM scans"
)

// placeholders returns n comma-separated SQL parameter markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Save inserts a completed scan record and returns its assigned ID.
// The record itself is not mutated; the caller owns ID assignment.
func (sdb *ScanDB) Save(ctx context.Context, rec *model.ScanRecord) (int64, error) {
	args, err := bindRecord(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize record fields: %w", err)
	}

	result, err := sdb.db.ExecContext(ctx, insertScanQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan record: %w", err)
	}

	return result.LastInsertId()
}

// Get retrieves a scan record by ID. Returns ErrNotFound when no record
// with that ID exists.
func (sdb *ScanDB) Get(ctx context.Context, id int64) (*model.ScanRecord, error) {
	row := sdb.db.QueryRowContext(ctx, selectScanQuery+" WHERE id = ?", id)

	rec, err := scanRecordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan record: %w", err)
	}
	return rec, nil
}

// History retrieves the most recent scan records for a session, newest
// first. A non-positive limit falls back to the default of 10.
func (sdb *ScanDB) History(ctx context.Context, sessionID string, limit int) ([]*model.ScanRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := selectScanQuery + " WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"
	rows, err := sdb.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan history: %w", err)
	}
	defer rows.Close()

	var records []*model.ScanRecord
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Stats summarizes database contents for the admin view.
type Stats struct {
	// TotalCount is the number of stored scan records.
	TotalCount int64 `json:"total_count"`

	// SessionCount is the number of distinct sessions with records.
	SessionCount int64 `json:"session_count"`

	// AvgPerSession is TotalCount divided by SessionCount, 0 when empty.
	AvgPerSession float64 `json:"avg_results_per_session"`

	// MaxPerSession is the largest record count held by any one session.
	MaxPerSession int64 `json:"max_results_per_session"`

	// EstimatedSizeKB approximates on-disk size at ~50KB per record.
	EstimatedSizeKB int64 `json:"total_size_kb"`

	// Oldest and Newest are the creation times of the extreme records,
	// nil when the database is empty.
	Oldest *time.Time `json:"oldest_result"`
	Newest *time.Time `json:"newest_result"`
}

// Stats returns summary statistics about stored scan records.
func (sdb *ScanDB) Stats(ctx context.Context) (*Stats, error) {
	query := `
	SELECT
		COUNT(*),
		COUNT(DISTINCT session_id),
		COALESCE(MIN(created_at), ''),
		COALESCE(MAX(created_at), '')
	FROM scans
	`

	var stats Stats
	var oldest, newest string
	err := sdb.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalCount,
		&stats.SessionCount,
		&oldest,
		&newest,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get database stats: %w", err)
	}

	if stats.SessionCount > 0 {
		stats.AvgPerSession = float64(stats.TotalCount) / float64(stats.SessionCount)
	}
	stats.EstimatedSizeKB = stats.TotalCount * 50 // ~50KB per record

	if oldest != "" {
		t := parseTimestamp(oldest)
		stats.Oldest = &t
	}
	if newest != "" {
		t := parseTimestamp(newest)
		stats.Newest = &t
	}

	maxQuery := `
	SELECT COALESCE(MAX(n), 0)
	FROM (SELECT COUNT(*) AS n FROM scans GROUP BY session_id)
	`
	if err := sdb.db.QueryRowContext(ctx, maxQuery).Scan(&stats.MaxPerSession); err != nil {
		return nil, fmt.Errorf("failed to get per-session counts: %w", err)
	}

	return &stats, nil
}

// DeleteOlderThan removes records created before cutoff and returns the
// number deleted.
func (sdb *ScanDB) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := sdb.db.ExecContext(ctx,
		"DELETE FROM scans WHERE created_at < ?", storedTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}
	return result.RowsAffected()
}

// TrimSessionOverflow removes, for every session, all records beyond the
// newest maxPerSession and returns the number deleted.
func (sdb *ScanDB) TrimSessionOverflow(ctx context.Context, maxPerSession int) (int64, error) {
	if maxPerSession <= 0 {
		return 0, fmt.Errorf("per-session cap must be positive, got %d", maxPerSession)
	}

	query := `
	DELETE FROM scans
	WHERE id NOT IN (
		SELECT keep.id FROM scans AS keep
		WHERE keep.session_id = scans.session_id
		ORDER BY keep.created_at DESC, keep.id DESC
		LIMIT ?
	)
	`

	result, err := sdb.db.ExecContext(ctx, query, maxPerSession)
	if err != nil {
		return 0, fmt.Errorf("failed to trim session overflow: %w", err)
	}
	return result.RowsAffected()
}

// ============ Row binding ============

// bindRecord flattens a record into insert arguments in scanColumns order.
func bindRecord(rec *model.ScanRecord) ([]any, error) {
	// JSON-encoding cannot fail on values that came out of a successful
	// decode, but a torn record must never reach the insert.
	var encErr error
	enc := func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			if encErr == nil {
				encErr = err
			}
			return "null"
		}
		return string(b)
	}

	args := []any{
		rec.SessionID, storedTime(rec.CreatedAt),
		// IP context
		rec.Geo.IP, rec.Geo.Version, rec.Geo.Country, rec.Geo.CountryCode,
		rec.Geo.Region, rec.Geo.City,
		rec.Geo.Timezone, rec.Geo.Latitude, rec.Geo.Longitude, rec.Geo.ISP, rec.Geo.ASN,
		rec.VPNProxy.IsVPN, rec.VPNProxy.IsProxy, rec.VPNProxy.IsTor, rec.VPNProxy.ProxyType,
		rec.HeadersJSON,
		// Browser fingerprint
		rec.Fingerprint.UserAgent, rec.Fingerprint.BrowserInfo, rec.Fingerprint.OSInfo,
		rec.Fingerprint.ScreenResolution,
		rec.Fingerprint.TimezoneOffset, rec.Fingerprint.Language,
		// WebRTC leak
		rec.WebRTC.Tested, rec.WebRTC.HasLeak, enc(rec.WebRTC.LeakedIPs),
		// DNS leak
		rec.DNSLeak.Tested, rec.DNSLeak.HasLeak, enc(rec.DNSLeak.DNSServers),
		// Email breach
		rec.Email.Performed, rec.Email.Leaked, enc(rec.Email.BreachSites),
		// Cookies
		rec.Cookies.Tested, rec.Cookies.TrackingCookiesFound, rec.Cookies.CookieCount,
		enc(rec.Cookies.TrackingCookies), rec.Cookies.ThirdPartyEnabled,
		// Canvas fingerprint
		rec.Canvas.Tested, rec.Canvas.Fingerprintable, rec.Canvas.UniquenessScore,
		rec.Canvas.ProtectionActive, rec.Canvas.CanvasFingerprint,
		// Permissions and features
		rec.Permissions.Tested, rec.Permissions.PermissionsSupported, enc(rec.Permissions.Permissions),
		enc(rec.Permissions.Features), rec.Permissions.AutoplayEnabled,
		// Connection security
		rec.SSL.Tested, rec.SSL.Secure, rec.SSL.Version, rec.SSL.Cipher, rec.SSL.Protocol,
		// Password strength
		rec.Password.Performed, rec.Password.Score, enc(rec.Password.Feedback),
		// Extension detection
		rec.Extensions.Tested, rec.Extensions.PrivacyExtensionsDetected, enc(rec.Extensions.DetectedExtensions),
		// Hardware fingerprint
		rec.Hardware.Tested, rec.Hardware.HardwareConcurrency, rec.Hardware.DeviceMemory, rec.Hardware.CPUCores,
		rec.Hardware.GPUInfo.Vendor, rec.Hardware.GPUInfo.Renderer,
		// Battery API
		rec.Battery.Tested, rec.Battery.APIAvailable, rec.Battery.BatteryLevel, rec.Battery.BatteryCharging,
		// Audio fingerprint
		rec.Audio.Tested, rec.Audio.Fingerprintable, rec.Audio.AudioFingerprint,
		// Font fingerprint
		rec.Fonts.Tested, rec.Fonts.UniqueFontsDetected, enc(rec.Fonts.FontFingerprint),
		// Security headers
		rec.SecurityHeaders.Tested, rec.SecurityHeaders.Score, enc(rec.SecurityHeaders.Headers),
		enc(rec.SecurityHeaders.MissingHeaders),
		// Timezone consistency
		rec.Timezone.Tested, rec.Timezone.Consistent, rec.Timezone.ReportedTimezone,
		rec.Timezone.DetectedTimezone, rec.Timezone.OffsetConsistent, rec.Timezone.ReportedOffset,
		rec.Timezone.CalculatedOffset, rec.Timezone.DSTStatus, rec.Timezone.Confidence,
		enc(rec.Timezone.Discrepancies),
		// Profile authenticity
		rec.Authenticity.Tested, rec.Authenticity.AuthenticAppearance, rec.Authenticity.AuthenticityScore,
		rec.Authenticity.BotDetectionRisk, enc(rec.Authenticity.SuspiciousFactors), enc(rec.Authenticity.AuthenticityFactors),
		enc(rec.Authenticity.Recommendations),
		// Behavioral analysis
		rec.Behavior.Tested, rec.Behavior.NaturalBehavior, rec.Behavior.BehaviorScore,
		enc(rec.Behavior.SuspiciousPatterns), enc(rec.Behavior.NaturalPatterns), enc(rec.Behavior.InteractionMetrics),
		// Anti-bot detection
		rec.Antibot.Tested, rec.Antibot.PassesBasicBotChecks, rec.Antibot.PassesAdvancedBotChecks,
		rec.Antibot.DetectionRiskScore, enc(rec.Antibot.TriggeredDetections), enc(rec.Antibot.PassedDetections),
		enc(rec.Antibot.VulnerableServices), enc(rec.Antibot.DetectionEvasionAdvice),
		// Privacy extension impact
		rec.PrivacyExtensions.Tested, enc(rec.PrivacyExtensions.ExtensionsDetected), enc(rec.PrivacyExtensions.PossibleExtensions),
		rec.PrivacyExtensions.PrivacyImpact, rec.PrivacyExtensions.AuthenticityImpact,
		rec.PrivacyExtensions.CompatibilityImpact, enc(rec.PrivacyExtensions.Recommendations),
		// Do Not Track
		rec.DoNotTrack.Tested, rec.DoNotTrack.Enabled,
		// DNS server country
		rec.DNSCountry.Tested, rec.DNSCountry.DNSCountry, rec.DNSCountry.CountryDifferent,
		// Language vs location
		rec.Language.Tested, rec.Language.SystemLanguage, rec.Language.BrowserLanguage,
		rec.Language.LocationDifferent,
		// Assessment
		rec.Score.Score, rec.RiskLevel.String(), enc(rec.Score),
	}

	if encErr != nil {
		return nil, encErr
	}
	return args, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecordRow reads one full record from a row produced by
// selectScanQuery. Column order follows scanColumns with id prepended.
func scanRecordRow(row rowScanner) (*model.ScanRecord, error) {
	var (
		rec       model.ScanRecord
		createdAt string

		latitude, longitude sql.NullFloat64

		webrtcIPs    string
		dnsServers   string
		breachSites  string
		trackingCkys string

		permissionData string
		featureData    string

		passwordFeedback string
		detectedExts     string

		hwConcurrency sql.NullInt64
		deviceMemory  sql.NullFloat64
		cpuCores      sql.NullInt64

		batteryLevel    sql.NullFloat64
		batteryCharging sql.NullBool

		fontFingerprint string

		secHeaders     string
		missingHeaders string

		reportedOffset   sql.NullInt64
		calculatedOffset sql.NullInt64
		tzDiscrepancies  string

		suspiciousFactors string
		authFactors       string
		authRecs          string

		suspiciousPatterns string
		naturalPatterns    string
		interactionMetrics string

		triggeredDetections string
		passedDetections    string
		vulnerableServices  string
		evasionAdvice       string

		pextDetected string
		pextPossible string
		pextRecs     string

		anonymityScore int
		riskLevel      string
		scoreFactors   string
	)

	err := row.Scan(
		&rec.ID,
		&rec.SessionID, &createdAt,
		// IP context
		&rec.Geo.IP, &rec.Geo.Version, &rec.Geo.Country, &rec.Geo.CountryCode,
		&rec.Geo.Region, &rec.Geo.City,
		&rec.Geo.Timezone, &latitude, &longitude, &rec.Geo.ISP, &rec.Geo.ASN,
		&rec.VPNProxy.IsVPN, &rec.VPNProxy.IsProxy, &rec.VPNProxy.IsTor, &rec.VPNProxy.ProxyType,
		&rec.HeadersJSON,
		// Browser fingerprint
		&rec.Fingerprint.UserAgent, &rec.Fingerprint.BrowserInfo, &rec.Fingerprint.OSInfo,
		&rec.Fingerprint.ScreenResolution,
		&rec.Fingerprint.TimezoneOffset, &rec.Fingerprint.Language,
		// WebRTC leak
		&rec.WebRTC.Tested, &rec.WebRTC.HasLeak, &webrtcIPs,
		// DNS leak
		&rec.DNSLeak.Tested, &rec.DNSLeak.HasLeak, &dnsServers,
		// Email breach
		&rec.Email.Performed, &rec.Email.Leaked, &breachSites,
		// Cookies
		&rec.Cookies.Tested, &rec.Cookies.TrackingCookiesFound, &rec.Cookies.CookieCount,
		&trackingCkys, &rec.Cookies.ThirdPartyEnabled,
		// Canvas fingerprint
		&rec.Canvas.Tested, &rec.Canvas.Fingerprintable, &rec.Canvas.UniquenessScore,
		&rec.Canvas.ProtectionActive, &rec.Canvas.CanvasFingerprint,
		// Permissions and features
		&rec.Permissions.Tested, &rec.Permissions.PermissionsSupported, &permissionData,
		&featureData, &rec.Permissions.AutoplayEnabled,
		// Connection security
		&rec.SSL.Tested, &rec.SSL.Secure, &rec.SSL.Version, &rec.SSL.Cipher, &rec.SSL.Protocol,
		// Password strength
		&rec.Password.Performed, &rec.Password.Score, &passwordFeedback,
		// Extension detection
		&rec.Extensions.Tested, &rec.Extensions.PrivacyExtensionsDetected, &detectedExts,
		// Hardware fingerprint
		&rec.Hardware.Tested, &hwConcurrency, &deviceMemory, &cpuCores,
		&rec.Hardware.GPUInfo.Vendor, &rec.Hardware.GPUInfo.Renderer,
		// Battery API
		&rec.Battery.Tested, &rec.Battery.APIAvailable, &batteryLevel, &batteryCharging,
		// Audio fingerprint
		&rec.Audio.Tested, &rec.Audio.Fingerprintable, &rec.Audio.AudioFingerprint,
		// Font fingerprint
		&rec.Fonts.Tested, &rec.Fonts.UniqueFontsDetected, &fontFingerprint,
		// Security headers
		&rec.SecurityHeaders.Tested, &rec.SecurityHeaders.Score, &secHeaders,
		&missingHeaders,
		// Timezone consistency
		&rec.Timezone.Tested, &rec.Timezone.Consistent, &rec.Timezone.ReportedTimezone,
		&rec.Timezone.DetectedTimezone, &rec.Timezone.OffsetConsistent, &reportedOffset,
		&calculatedOffset, &rec.Timezone.DSTStatus, &rec.Timezone.Confidence,
		&tzDiscrepancies,
		// Profile authenticity
		&rec.Authenticity.Tested, &rec.Authenticity.AuthenticAppearance, &rec.Authenticity.AuthenticityScore,
		&rec.Authenticity.BotDetectionRisk, &suspiciousFactors, &authFactors,
		&authRecs,
		// Behavioral analysis
		&rec.Behavior.Tested, &rec.Behavior.NaturalBehavior, &rec.Behavior.BehaviorScore,
		&suspiciousPatterns, &naturalPatterns, &interactionMetrics,
		// Anti-bot detection
		&rec.Antibot.Tested, &rec.Antibot.PassesBasicBotChecks, &rec.Antibot.PassesAdvancedBotChecks,
		&rec.Antibot.DetectionRiskScore, &triggeredDetections, &passedDetections,
		&vulnerableServices, &evasionAdvice,
		// Privacy extension impact
		&rec.PrivacyExtensions.Tested, &pextDetected, &pextPossible,
		&rec.PrivacyExtensions.PrivacyImpact, &rec.PrivacyExtensions.AuthenticityImpact,
		&rec.PrivacyExtensions.CompatibilityImpact, &pextRecs,
		// Do Not Track
		&rec.DoNotTrack.Tested, &rec.DoNotTrack.Enabled,
		// DNS server country
		&rec.DNSCountry.Tested, &rec.DNSCountry.DNSCountry, &rec.DNSCountry.CountryDifferent,
		// Language vs location
		&rec.Language.Tested, &rec.Language.SystemLanguage, &rec.Language.BrowserLanguage,
		&rec.Language.LocationDifferent,
		// Assessment
		&anonymityScore, &riskLevel, &scoreFactors,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = parseTimestamp(createdAt)

	rec.Geo.Latitude = nullableFloat(latitude)
	rec.Geo.Longitude = nullableFloat(longitude)
	rec.Hardware.HardwareConcurrency = nullableInt(hwConcurrency)
	rec.Hardware.DeviceMemory = nullableFloat(deviceMemory)
	rec.Hardware.CPUCores = nullableInt(cpuCores)
	rec.Battery.BatteryLevel = nullableFloat(batteryLevel)
	rec.Battery.BatteryCharging = nullableBool(batteryCharging)
	rec.Timezone.ReportedOffset = nullableInt(reportedOffset)
	rec.Timezone.CalculatedOffset = nullableInt(calculatedOffset)

	var decErr error
	dec := func(data string, v any) {
		if data == "" {
			return
		}
		if err := json.Unmarshal([]byte(data), v); err != nil && decErr == nil {
			decErr = err
		}
	}

	dec(webrtcIPs, &rec.WebRTC.LeakedIPs)
	dec(dnsServers, &rec.DNSLeak.DNSServers)
	dec(breachSites, &rec.Email.BreachSites)
	dec(trackingCkys, &rec.Cookies.TrackingCookies)
	dec(permissionData, &rec.Permissions.Permissions)
	dec(featureData, &rec.Permissions.Features)
	dec(passwordFeedback, &rec.Password.Feedback)
	dec(detectedExts, &rec.Extensions.DetectedExtensions)
	dec(fontFingerprint, &rec.Fonts.FontFingerprint)
	dec(secHeaders, &rec.SecurityHeaders.Headers)
	dec(missingHeaders, &rec.SecurityHeaders.MissingHeaders)
	dec(tzDiscrepancies, &rec.Timezone.Discrepancies)
	dec(suspiciousFactors, &rec.Authenticity.SuspiciousFactors)
	dec(authFactors, &rec.Authenticity.AuthenticityFactors)
	dec(authRecs, &rec.Authenticity.Recommendations)
	dec(suspiciousPatterns, &rec.Behavior.SuspiciousPatterns)
	dec(naturalPatterns, &rec.Behavior.NaturalPatterns)
	dec(interactionMetrics, &rec.Behavior.InteractionMetrics)
	dec(triggeredDetections, &rec.Antibot.TriggeredDetections)
	dec(passedDetections, &rec.Antibot.PassedDetections)
	dec(vulnerableServices, &rec.Antibot.VulnerableServices)
	dec(evasionAdvice, &rec.Antibot.DetectionEvasionAdvice)
	dec(pextDetected, &rec.PrivacyExtensions.ExtensionsDetected)
	dec(pextPossible, &rec.PrivacyExtensions.PossibleExtensions)
	dec(pextRecs, &rec.PrivacyExtensions.Recommendations)
	dec(scoreFactors, &rec.Score)
	if decErr != nil {
		return nil, fmt.Errorf("failed to parse stored record fields: %w", decErr)
	}

	// The flattened columns are authoritative for score and risk level.
	rec.Score.Score = anonymityScore
	level, err := model.ParseRiskLevel(riskLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored risk level: %w", err)
	}
	rec.RiskLevel = level

	return &rec, nil
}

// ============ Value helpers ============

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullableFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullableBool(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}

// storedTimeLayout is RFC3339 with a fixed-width fractional second. Fixed
// width keeps lexicographic ordering of the created_at TEXT column identical
// to chronological ordering, which the history and retention queries rely on.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// storedTime formats a timestamp for the created_at column, always UTC.
func storedTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
