package model

import (
	"encoding/json"
	"fmt"
)

// PenaltyKind identifies the rule family that produced a penalty factor.
// The recommendation generator dispatches on this enum; the human-readable
// Reason string on PenaltyFactor is display/storage contract only and is
// never parsed downstream.
//
// Design decision: We use a closed iota enum rather than matching substrings
// of the reason text. Reason strings are curated copy that occasionally
// carries interpolated values (cookie counts, header names), and a wording
// tweak must not be able to silently detach a recommendation trigger. Any
// numeric payload a consumer needs (the breach count) rides on the factor as
// a typed field.
type PenaltyKind int

const (
	// PenaltyUnknown is the zero value, only seen when deserializing a
	// record written by a newer version. Consumers treat it as inert.
	PenaltyUnknown PenaltyKind = iota

	// PenaltyNoVPN fires when neither a VPN nor a proxy was detected.
	PenaltyNoVPN

	// PenaltyInsecureConnection fires when the scan connection was not
	// HTTPS-and-secure. No recommendation block consumes it.
	PenaltyInsecureConnection

	// PenaltyWebRTCLeak fires when WebRTC exposed a private address.
	PenaltyWebRTCLeak

	// PenaltyDNSLeak fires when DNS requests bypass the tunnel.
	PenaltyDNSLeak

	// PenaltyNonPrivateBrowser fires when the browser is neither Tor nor
	// Firefox derived.
	PenaltyNonPrivateBrowser

	// PenaltyTrackingCookies covers both the high-count and the basic
	// tracking-cookie findings.
	PenaltyTrackingCookies

	// PenaltyThirdPartyCookies fires when third-party cookies are enabled.
	PenaltyThirdPartyCookies

	// PenaltyCanvasFingerprint fires when the canvas is fingerprintable.
	PenaltyCanvasFingerprint

	// PenaltyAudioFingerprint fires when the audio stack is fingerprintable.
	PenaltyAudioFingerprint

	// PenaltyFontFingerprint covers the high/medium/low font-count tiers.
	PenaltyFontFingerprint

	// PenaltyHardwareFingerprint fires when hardware identifiers are exposed.
	PenaltyHardwareFingerprint

	// PenaltyBatteryFingerprint fires when the Battery API is reachable.
	PenaltyBatteryFingerprint

	// PenaltyTimezoneInconsistent fires on a timezone name mismatch.
	PenaltyTimezoneInconsistent

	// PenaltyTimezoneOffset fires on an offset-only mismatch.
	PenaltyTimezoneOffset

	// PenaltyTimezoneConfidence fires on low check confidence. It does not
	// trigger the timezone recommendation on its own.
	PenaltyTimezoneConfidence

	// PenaltyEmailBreach fires when the breach heuristic flags the email.
	// The factor carries the breach count as a typed payload.
	PenaltyEmailBreach

	// PenaltyWeakPassword covers both the weak and moderate tiers.
	PenaltyWeakPassword

	// PenaltySecurityHeaders covers the poor/inadequate header-score tiers.
	PenaltySecurityHeaders

	// PenaltyCriticalHeadersMissing fires when a high-importance header
	// (HSTS, CSP, X-Frame-Options) is reported missing.
	PenaltyCriticalHeadersMissing

	// PenaltySensitivePermissions fires when sensitive permissions are granted.
	PenaltySensitivePermissions

	// PenaltySensitiveFeatures fires when sensitive device APIs are enabled.
	// No recommendation block consumes it.
	PenaltySensitiveFeatures

	// PenaltyAuthenticity covers both authenticity-score tiers.
	PenaltyAuthenticity

	// PenaltyBehavior covers both behavior-naturalness tiers.
	PenaltyBehavior

	// PenaltyBotDetection covers the anti-bot elif chain (basic, advanced,
	// high risk, moderate risk).
	PenaltyBotDetection

	// PenaltyExtensionAuthenticity covers the extension authenticity-impact tiers.
	PenaltyExtensionAuthenticity

	// PenaltyExtensionCompatibility covers the extension compatibility-impact tiers.
	PenaltyExtensionCompatibility

	// PenaltyDoNotTrackDisabled fires when Do Not Track is off.
	PenaltyDoNotTrackDisabled

	// PenaltyDNSCountryMismatch fires when the DNS server country differs
	// from the IP location.
	PenaltyDNSCountryMismatch

	// PenaltyLanguageMismatch fires when the browser/system language does
	// not fit the IP location.
	PenaltyLanguageMismatch
)

// penaltyKindNames maps each kind to its stable serialized name. These names
// are stored inside persisted penalty lists; do not rename.
var penaltyKindNames = map[PenaltyKind]string{
	PenaltyNoVPN:                  "no_vpn",
	PenaltyInsecureConnection:     "insecure_connection",
	PenaltyWebRTCLeak:             "webrtc_leak",
	PenaltyDNSLeak:                "dns_leak",
	PenaltyNonPrivateBrowser:      "non_private_browser",
	PenaltyTrackingCookies:        "tracking_cookies",
	PenaltyThirdPartyCookies:      "third_party_cookies",
	PenaltyCanvasFingerprint:      "canvas_fingerprint",
	PenaltyAudioFingerprint:       "audio_fingerprint",
	PenaltyFontFingerprint:        "font_fingerprint",
	PenaltyHardwareFingerprint:    "hardware_fingerprint",
	PenaltyBatteryFingerprint:     "battery_fingerprint",
	PenaltyTimezoneInconsistent:   "timezone_inconsistent",
	PenaltyTimezoneOffset:         "timezone_offset",
	PenaltyTimezoneConfidence:     "timezone_confidence",
	PenaltyEmailBreach:            "email_breach",
	PenaltyWeakPassword:           "weak_password",
	PenaltySecurityHeaders:        "security_headers",
	PenaltyCriticalHeadersMissing: "critical_headers_missing",
	PenaltySensitivePermissions:   "sensitive_permissions",
	PenaltySensitiveFeatures:      "sensitive_features",
	PenaltyAuthenticity:           "authenticity",
	PenaltyBehavior:               "behavior",
	PenaltyBotDetection:           "bot_detection",
	PenaltyExtensionAuthenticity:  "extension_authenticity",
	PenaltyExtensionCompatibility: "extension_compatibility",
	PenaltyDoNotTrackDisabled:     "do_not_track_disabled",
	PenaltyDNSCountryMismatch:     "dns_country_mismatch",
	PenaltyLanguageMismatch:       "language_mismatch",
}

// String returns the stable serialized name of the kind.
func (k PenaltyKind) String() string {
	if name, ok := penaltyKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParsePenaltyKind resolves a serialized kind name. Unrecognized names map
// to PenaltyUnknown without error so that records written by newer versions
// still load; the unknown factor simply stops matching recommendations.
func ParsePenaltyKind(name string) PenaltyKind {
	for kind, n := range penaltyKindNames {
		if n == name {
			return kind
		}
	}
	return PenaltyUnknown
}

// MarshalJSON encodes the kind as its stable name.
func (k PenaltyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a stable kind name.
func (k *PenaltyKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("penalty kind: %w", err)
	}
	*k = ParsePenaltyKind(name)
	return nil
}

// PenaltyFactor is one deduction applied to the anonymity score.
//
// Factors are kept in discovery order: the scorer appends them as its fixed
// rule sequence fires, and both display and recommendation generation rely
// on that order being deterministic for identical inputs. Reason is curated
// display text and part of the stored contract; Weight is always >= 0.
type PenaltyFactor struct {
	Kind   PenaltyKind `json:"kind"`
	Reason string      `json:"reason"`
	Weight int         `json:"weight"`

	// BreachCount is set only on PenaltyEmailBreach factors. It carries the
	// count that is also interpolated into Reason, so consumers never have
	// to parse it back out of the text.
	BreachCount int `json:"breach_count,omitempty"`
}

// BonusFactor is a reserved positive adjustment. Current scoring policy
// never emits bonuses; the type exists so the stored score shape stays
// symmetric if policy changes.
type BonusFactor struct {
	Reason string `json:"reason"`
	Weight int    `json:"weight"`
}
