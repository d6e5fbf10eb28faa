package model

import "time"

// ScanRecord is the persisted outcome of one scan: the resolved IP context,
// every normalized signal, and the computed score. Records are created once
// at scan time and are immutable afterward except for bulk retention
// deletion. Each record belongs to exactly one session; there are no
// cross-session references.
type ScanRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`

	// ============ IP context ============

	Geo      GeoInfo      `json:"geo"`
	VPNProxy VPNProxyInfo `json:"vpn_proxy"`

	// HeadersJSON is the JSON-encoded request header map captured at scan
	// time. Stored raw; the legitimacy projection tolerates malformed
	// content when parsing it back.
	HeadersJSON string `json:"headers_json"`

	// ============ Normalized signals ============

	Fingerprint       FingerprintSignal       `json:"fingerprint"`
	WebRTC            WebRTCSignal            `json:"webrtc"`
	DNSLeak           DNSLeakSignal           `json:"dns_leak"`
	Email             EmailSignal             `json:"email"`
	Cookies           CookieSignal            `json:"cookies"`
	Canvas            CanvasSignal            `json:"canvas"`
	Permissions       PermissionsSignal       `json:"permissions"`
	SSL               SSLSignal               `json:"ssl"`
	Password          PasswordSignal          `json:"password"`
	Extensions        ExtensionSignal         `json:"extensions"`
	Hardware          HardwareSignal          `json:"hardware"`
	Battery           BatterySignal           `json:"battery"`
	Audio             AudioSignal             `json:"audio"`
	Fonts             FontSignal              `json:"fonts"`
	SecurityHeaders   SecurityHeadersSignal   `json:"security_headers"`
	Timezone          TimezoneSignal          `json:"timezone"`
	Authenticity      AuthenticitySignal      `json:"authenticity"`
	Behavior          BehaviorSignal          `json:"behavior"`
	Antibot           AntibotSignal           `json:"antibot"`
	PrivacyExtensions PrivacyExtensionsSignal `json:"privacy_extensions"`
	DoNotTrack        DNTSignal               `json:"do_not_track"`
	DNSCountry        DNSCountrySignal        `json:"dns_country"`
	Language          LanguageSignal          `json:"language"`

	// ============ Assessment ============

	Score     ScoreResult `json:"score"`
	RiskLevel RiskLevel   `json:"risk_level"`
}
