package model

// This file defines the normalized signal family: one struct per telemetry
// dimension the client can report. Every struct carries a Tested flag
// (Performed for the password dimension, matching the wire contract)
// distinguishing "not evaluated" from "evaluated, negative result". A
// dimension the client never sent is the zero value with Tested=false and
// contributes no penalty.
//
// Design decision: We use one flat struct per dimension rather than a single
// map-backed bundle because:
//  1. The scorer reads these fields on its hot path and should not pay for
//     map lookups or type assertions
//  2. Field renames become compile errors instead of silently-missing keys
//  3. The zero value of each struct is already the documented default
//
// Defaults that are NOT the Go zero value (behavior score 100, authenticity
// score 100, timezone confidence 100, consistency flags true) are applied by
// the normalize package, never assumed here.

// ============ Identity and transport ============

// FingerprintSignal is the parsed browser fingerprint summary.
// String fields default to the Unknown sentinel.
type FingerprintSignal struct {
	UserAgent        string `json:"user_agent"`
	BrowserInfo      string `json:"browser_info"`
	OSInfo           string `json:"os_info"`
	ScreenResolution string `json:"screen_resolution"`
	TimezoneOffset   string `json:"timezone_offset"`
	Language         string `json:"language"`
}

// WebRTCSignal reports local addresses exposed through WebRTC.
// HasLeak is evaluated unconditionally by the scorer; Tested is retained
// for storage parity with the other dimensions.
type WebRTCSignal struct {
	Tested    bool     `json:"tested"`
	HasLeak   bool     `json:"has_leak"`
	LeakedIPs []string `json:"leaked_ips"`
}

// DNSLeakSignal reports DNS servers observed bypassing the tunnel.
type DNSLeakSignal struct {
	Tested     bool     `json:"tested"`
	HasLeak    bool     `json:"has_leak"`
	DNSServers []string `json:"dns_servers"`
}

// SSLSignal reports the transport security of the scan connection.
type SSLSignal struct {
	Tested   bool   `json:"tested"`
	Secure   bool   `json:"secure"`
	Version  string `json:"version"`
	Cipher   string `json:"cipher"`
	Protocol string `json:"protocol"`
}

// ============ Tracking and fingerprint surface ============

// CookieSignal reports tracking-cookie findings.
type CookieSignal struct {
	Tested               bool     `json:"tested"`
	TrackingCookiesFound bool     `json:"tracking_cookies_found"`
	CookieCount          int      `json:"cookie_count"`
	TrackingCookies      []string `json:"tracking_cookies"`
	ThirdPartyEnabled    bool     `json:"third_party_enabled"`
}

// CanvasSignal reports canvas fingerprintability.
type CanvasSignal struct {
	Tested            bool   `json:"tested"`
	Fingerprintable   bool   `json:"fingerprintable"`
	UniquenessScore   int    `json:"uniqueness_score"`
	ProtectionActive  bool   `json:"protection_active"`
	CanvasFingerprint string `json:"canvas_fingerprint"`
}

// AudioSignal reports audio-stack fingerprintability.
type AudioSignal struct {
	Tested           bool   `json:"tested"`
	Fingerprintable  bool   `json:"fingerprintable"`
	AudioFingerprint string `json:"audio_fingerprint"`
}

// FontSignal reports installed-font enumeration results.
type FontSignal struct {
	Tested              bool           `json:"tested"`
	UniqueFontsDetected int            `json:"unique_fonts_detected"`
	FontFingerprint     map[string]any `json:"font_fingerprint"`
}

// GPUInfo is the WebGL-exposed GPU identity inside HardwareSignal.
type GPUInfo struct {
	Vendor   string `json:"vendor"`
	Renderer string `json:"renderer"`
}

// HardwareSignal reports hardware identifiers exposed to scripts.
// Numeric fields are pointers so a stored record round-trips "not reported"
// as null rather than zero.
type HardwareSignal struct {
	Tested              bool     `json:"tested"`
	HardwareConcurrency *int     `json:"hardware_concurrency"`
	DeviceMemory        *float64 `json:"device_memory"`
	CPUCores            *int     `json:"cpu_cores"`
	GPUInfo             GPUInfo  `json:"gpu_info"`
}

// BatterySignal reports Battery Status API exposure.
type BatterySignal struct {
	Tested          bool     `json:"tested"`
	APIAvailable    bool     `json:"api_available"`
	BatteryLevel    *float64 `json:"battery_level"`
	BatteryCharging *bool    `json:"battery_charging"`
}

// ============ Policy and configuration ============

// PermissionsSignal reports browser permission and feature state.
// Permissions maps permission name to its state string ("granted",
// "denied", "prompt"); Features maps feature name to enablement.
type PermissionsSignal struct {
	Tested               bool              `json:"tested"`
	PermissionsSupported bool              `json:"permissions_supported"`
	Permissions          map[string]string `json:"permissions"`
	Features             map[string]bool   `json:"features"`
	AutoplayEnabled      bool              `json:"autoplay_enabled"`
}

// MissingHeader describes one absent security header reported by the client.
type MissingHeader struct {
	Name        string `json:"name"`
	Importance  string `json:"importance"`
	Description string `json:"description,omitempty"`
}

// SecurityHeadersSignal reports the security-header posture of the site the
// client tested against.
type SecurityHeadersSignal struct {
	Tested         bool              `json:"tested"`
	Score          int               `json:"score"`
	Headers        map[string]string `json:"headers"`
	MissingHeaders []MissingHeader   `json:"missing_headers"`
}

// TimezoneSignal reports timezone consistency between the browser's claimed
// zone and locally computed evidence. Consistency flags default to true and
// Confidence to 100 when the dimension is tested but fields are absent.
type TimezoneSignal struct {
	Tested           bool     `json:"tested"`
	Consistent       bool     `json:"consistent"`
	ReportedTimezone string   `json:"reported_timezone"`
	DetectedTimezone string   `json:"detected_timezone"`
	OffsetConsistent bool     `json:"offset_consistent"`
	ReportedOffset   *int     `json:"reported_offset"`
	CalculatedOffset *int     `json:"calculated_offset"`
	DSTStatus        string   `json:"dst_status"`
	Confidence       int      `json:"confidence"`
	Discrepancies    []string `json:"discrepancies"`
}

// DNTSignal reports the Do Not Track browser setting.
type DNTSignal struct {
	Tested  bool `json:"tested"`
	Enabled bool `json:"enabled"`
}

// DNSCountrySignal reports whether the resolver country diverges from the
// IP geolocation country. CountryDifferent is computed by the normalizer
// from the resolved GeoInfo, never taken from the client.
type DNSCountrySignal struct {
	Tested           bool   `json:"tested"`
	DNSCountry       string `json:"dns_country"`
	CountryDifferent bool   `json:"country_different"`
}

// LanguageSignal reports whether the system or browser language is plausible
// for the IP geolocation country.
type LanguageSignal struct {
	Tested            bool   `json:"tested"`
	SystemLanguage    string `json:"system_language"`
	BrowserLanguage   string `json:"browser_language"`
	LocationDifferent bool   `json:"location_different"`
}

// ============ Identity exposure ============

// BreachSite is one breach-database entry attributed to an email address.
type BreachSite struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// EmailSignal reports the breach estimate for the client-supplied address.
// The wire contract names the flag Performed rather than Tested.
type EmailSignal struct {
	Performed   bool         `json:"performed"`
	Leaked      bool         `json:"leaked"`
	BreachSites []BreachSite `json:"breach_sites"`
}

// PasswordSignal reports the client-side password strength check.
type PasswordSignal struct {
	Performed bool           `json:"performed"`
	Score     int            `json:"score"`
	Feedback  map[string]any `json:"feedback"`
}

// ExtensionSignal reports detected browser extensions.
type ExtensionSignal struct {
	Tested                    bool     `json:"tested"`
	PrivacyExtensionsDetected bool     `json:"privacy_extensions_detected"`
	DetectedExtensions        []string `json:"detected_extensions"`
}

// ============ Automation posture ============

// AuthenticitySignal reports how authentic the browser profile appears.
// AuthenticAppearance defaults to true and AuthenticityScore to 100.
type AuthenticitySignal struct {
	Tested              bool     `json:"tested"`
	AuthenticAppearance bool     `json:"authentic_appearance"`
	AuthenticityScore   int      `json:"authenticity_score"`
	BotDetectionRisk    string   `json:"bot_detection_risk"`
	SuspiciousFactors   []string `json:"suspicious_factors"`
	AuthenticityFactors []string `json:"authenticity_factors"`
	Recommendations     []string `json:"recommendations"`
}

// BehaviorSignal reports interaction naturalness. NaturalBehavior defaults
// to true and BehaviorScore to 100.
type BehaviorSignal struct {
	Tested             bool           `json:"tested"`
	NaturalBehavior    bool           `json:"natural_behavior"`
	BehaviorScore      int            `json:"behavior_score"`
	SuspiciousPatterns []string       `json:"suspicious_patterns"`
	NaturalPatterns    []string       `json:"natural_patterns"`
	InteractionMetrics map[string]any `json:"interaction_metrics"`
}

// AntibotSignal reports how the profile fares against bot-detection systems.
// The pass flags default to true.
type AntibotSignal struct {
	Tested                  bool     `json:"tested"`
	PassesBasicBotChecks    bool     `json:"passes_basic_bot_checks"`
	PassesAdvancedBotChecks bool     `json:"passes_advanced_bot_checks"`
	DetectionRiskScore      int      `json:"detection_risk_score"`
	TriggeredDetections     []string `json:"triggered_detections"`
	PassedDetections        []string `json:"passed_detections"`
	VulnerableServices      []string `json:"vulnerable_services"`
	DetectionEvasionAdvice  []string `json:"detection_evasion_advice"`
}

// PrivacyExtensionsSignal reports the authenticity and compatibility cost of
// detected privacy extensions. Impact scores default to 0 when the client
// omits the impact object; a tested dimension with absent impacts therefore
// lands in the severest scorer tier.
type PrivacyExtensionsSignal struct {
	Tested              bool     `json:"tested"`
	ExtensionsDetected  []string `json:"extensions_detected"`
	PossibleExtensions  []string `json:"possible_extensions"`
	PrivacyImpact       int      `json:"privacy_impact"`
	AuthenticityImpact  int      `json:"authenticity_impact"`
	CompatibilityImpact int      `json:"compatibility_impact"`
	Recommendations     []string `json:"recommendations"`
}
