package model

import "encoding/json"

// LegitimacySnapshot is the immutable projection the legitimacy scorer
// consumes. It holds exactly the fields the scorer reads, copied out of a
// ScanRecord at build time, so the scorer's contract never depends on the
// storage representation.
//
// Design decision: The scorer used to be fed the stored record directly,
// which coupled its rule set to the persistence schema and forced it to
// re-parse the raw header JSON on every evaluation. The snapshot moves that
// parsing to one place, and a nil Headers map tells the scorer "headers
// unavailable or unparseable, skip header rules" without the scorer knowing
// why.
type LegitimacySnapshot struct {
	BrowserInfo string

	TimezoneTested     bool
	TimezoneConsistent bool

	LanguageTested   bool
	LanguageMismatch bool

	IsVPN   bool
	IsProxy bool
	IsTor   bool

	DNSCountryTested   bool
	DNSCountryMismatch bool

	// Headers is the parsed request header map, nil when the stored JSON
	// was absent or malformed. Nil disables the header rules entirely; an
	// empty non-nil map still fails the Accept-header rule.
	Headers map[string]string

	DoNotTrackTested  bool
	DoNotTrackEnabled bool

	PrivacyExtensionsDetected bool

	CanvasTested           bool
	CanvasProtectionActive bool

	BehaviorTested  bool
	NaturalBehavior bool
	// BehaviorScore is nil when the dimension never reported a score; the
	// continuous behavior deduction only applies when it is present.
	BehaviorScore *int

	AntibotTested           bool
	PassesBasicBotChecks    bool
	PassesAdvancedBotChecks bool
	DetectionRiskScore      int

	AuthenticityTested  bool
	AuthenticAppearance bool
	AuthenticityScore   int
}

// NewLegitimacySnapshot projects a stored record into the scorer's input.
// The returned snapshot shares no mutable state with the record.
func NewLegitimacySnapshot(rec *ScanRecord) LegitimacySnapshot {
	snap := LegitimacySnapshot{
		BrowserInfo: rec.Fingerprint.BrowserInfo,

		TimezoneTested:     rec.Timezone.Tested,
		TimezoneConsistent: rec.Timezone.Consistent,

		LanguageTested:   rec.Language.Tested,
		LanguageMismatch: rec.Language.LocationDifferent,

		IsVPN:   rec.VPNProxy.IsVPN,
		IsProxy: rec.VPNProxy.IsProxy,
		IsTor:   rec.VPNProxy.IsTor,

		DNSCountryTested:   rec.DNSCountry.Tested,
		DNSCountryMismatch: rec.DNSCountry.CountryDifferent,

		DoNotTrackTested:  rec.DoNotTrack.Tested,
		DoNotTrackEnabled: rec.DoNotTrack.Enabled,

		PrivacyExtensionsDetected: rec.Extensions.PrivacyExtensionsDetected,

		CanvasTested:           rec.Canvas.Tested,
		CanvasProtectionActive: rec.Canvas.ProtectionActive,

		BehaviorTested:  rec.Behavior.Tested,
		NaturalBehavior: rec.Behavior.NaturalBehavior,

		AntibotTested:           rec.Antibot.Tested,
		PassesBasicBotChecks:    rec.Antibot.PassesBasicBotChecks,
		PassesAdvancedBotChecks: rec.Antibot.PassesAdvancedBotChecks,
		DetectionRiskScore:      rec.Antibot.DetectionRiskScore,

		AuthenticityTested:  rec.Authenticity.Tested,
		AuthenticAppearance: rec.Authenticity.AuthenticAppearance,
		AuthenticityScore:   rec.Authenticity.AuthenticityScore,
	}

	if rec.Behavior.Tested {
		score := rec.Behavior.BehaviorScore
		snap.BehaviorScore = &score
	}

	if rec.HeadersJSON != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(rec.HeadersJSON), &headers); err == nil {
			snap.Headers = headers
		}
	}

	return snap
}
