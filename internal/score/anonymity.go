package score

import (
	"fmt"
	"strings"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// privateBrowserMarkers are substrings of a lowercased browser family name
// that indicate real fingerprinting protection out of the box.
var privateBrowserMarkers = []string{"tor", "firefox"}

// criticalHeaders are the security headers whose absence at high importance
// draws its own penalty on top of the general header score.
var criticalHeaders = map[string]bool{
	"Strict-Transport-Security": true,
	"Content-Security-Policy":   true,
	"X-Frame-Options":           true,
}

// sensitivePermissions maps permission names to the display labels used in
// the penalty reason. Order matters: reasons list labels in this order.
var sensitivePermissions = []struct {
	name  string
	label string
}{
	{"geolocation", "Location tracking"},
	{"microphone", "Microphone access"},
	{"camera", "Camera access"},
	{"notifications", "Notification access"},
}

// sensitiveFeatures maps device API names to display labels.
var sensitiveFeatures = []struct {
	name  string
	label string
}{
	{"bluetooth", "Bluetooth API"},
	{"usb", "USB API"},
	{"serial", "Serial API"},
	{"nfc", "NFC API"},
	{"sensors", "Motion sensors"},
}

// Anonymity computes the 0-100 anonymity score for a scan. The score
// starts at 100 and each matched rule subtracts its weight; the itemized
// factors come back in rule order. Bonuses are structurally present but
// never granted under current policy.
//
// Four inputs are judged unconditionally (VPN posture, WebRTC, DNS leak,
// browser choice); every other rule is gated on its dimension having been
// tested, so an absent probe costs nothing.
func Anonymity(rec *model.ScanRecord) model.ScoreResult {
	var penalties []model.PenaltyFactor
	add := func(kind model.PenaltyKind, reason string, weight int) {
		penalties = append(penalties, model.PenaltyFactor{Kind: kind, Reason: reason, Weight: weight})
	}

	// ============ Primary security factors ============

	if !rec.VPNProxy.IsVPN && !rec.VPNProxy.IsProxy {
		add(model.PenaltyNoVPN, "Not using VPN/proxy", 15)
	}

	if rec.SSL.Tested && !(rec.SSL.Protocol == "HTTPS" && rec.SSL.Secure) {
		add(model.PenaltyInsecureConnection, "Insecure connection", 20)
	}

	if rec.WebRTC.HasLeak {
		add(model.PenaltyWebRTCLeak, "WebRTC IP leak detected", 20)
	}

	if rec.DNSLeak.HasLeak {
		add(model.PenaltyDNSLeak, "DNS leak detected", 15)
	}

	// ============ Browser security factors ============

	browser := strings.ToLower(rec.Fingerprint.BrowserInfo)
	if !containsAny(browser, privateBrowserMarkers) {
		add(model.PenaltyNonPrivateBrowser, "Not using privacy-focused browser", 10)
	}

	// ============ Tracking vulnerability factors ============

	if rec.Cookies.Tested {
		if rec.Cookies.TrackingCookiesFound {
			if count := rec.Cookies.CookieCount; count > 10 {
				add(model.PenaltyTrackingCookies,
					fmt.Sprintf("High number of tracking cookies (%d)", count), 10)
			} else {
				add(model.PenaltyTrackingCookies, "Tracking cookies detected", 5)
			}
		}
		if rec.Cookies.ThirdPartyEnabled {
			add(model.PenaltyThirdPartyCookies, "Third-party cookies enabled", 8)
		}
	}

	if rec.Canvas.Tested && rec.Canvas.Fingerprintable {
		weight := rec.Canvas.UniquenessScore + 4
		if weight > 12 {
			weight = 12
		}
		add(model.PenaltyCanvasFingerprint, "Canvas fingerprinting vulnerability", weight)
	}

	if rec.Audio.Tested && rec.Audio.Fingerprintable {
		add(model.PenaltyAudioFingerprint, "Audio fingerprinting vulnerability", 8)
	}

	if rec.Fonts.Tested {
		switch fonts := rec.Fonts.UniqueFontsDetected; {
		case fonts > 50:
			add(model.PenaltyFontFingerprint, "High font fingerprinting risk", 8)
		case fonts > 20:
			add(model.PenaltyFontFingerprint, "Medium font fingerprinting risk", 5)
		case fonts > 0:
			add(model.PenaltyFontFingerprint, "Low font fingerprinting risk", 3)
		}
	}

	if rec.Hardware.Tested {
		weight := 0
		if reported(rec.Hardware.HardwareConcurrency) || reportedFloat(rec.Hardware.DeviceMemory) {
			weight += 4
		}
		if rec.Hardware.GPUInfo.Renderer != "" {
			weight += 3
		}
		if weight > 0 {
			add(model.PenaltyHardwareFingerprint, "Hardware fingerprinting vulnerability", weight)
		}
	}

	if rec.Battery.Tested && rec.Battery.APIAvailable {
		add(model.PenaltyBatteryFingerprint, "Battery API fingerprinting vulnerability", 3)
	}

	if rec.Timezone.Tested {
		if !rec.Timezone.Consistent {
			add(model.PenaltyTimezoneInconsistent, "Timezone inconsistency detected", 10)
		} else if !rec.Timezone.OffsetConsistent {
			add(model.PenaltyTimezoneOffset, "Timezone offset inconsistency", 8)
		}
		if rec.Timezone.Confidence < 50 {
			add(model.PenaltyTimezoneConfidence, "Low timezone consistency confidence", 5)
		}
	}

	// ============ Data security factors ============

	if rec.Email.Leaked {
		count := len(rec.Email.BreachSites)
		weight := 8
		if count > 5 {
			weight = 15
		}
		penalties = append(penalties, model.PenaltyFactor{
			Kind:        model.PenaltyEmailBreach,
			Reason:      fmt.Sprintf("Email found in %d data breaches", count),
			Weight:      weight,
			BreachCount: count,
		})
	}

	if rec.Password.Performed {
		if rec.Password.Score < 40 {
			add(model.PenaltyWeakPassword, "Weak password", 12)
		} else if rec.Password.Score < 60 {
			add(model.PenaltyWeakPassword, "Moderate password", 6)
		}
	}

	if rec.SecurityHeaders.Tested {
		if rec.SecurityHeaders.Score < 30 {
			add(model.PenaltySecurityHeaders, "Poor security headers", 12)
		} else if rec.SecurityHeaders.Score < 60 {
			add(model.PenaltySecurityHeaders, "Inadequate security headers", 6)
		}

		var criticalMissing []string
		for _, header := range rec.SecurityHeaders.MissingHeaders {
			if header.Importance == "high" && criticalHeaders[header.Name] {
				criticalMissing = append(criticalMissing, header.Name)
			}
		}
		if len(criticalMissing) > 0 {
			add(model.PenaltyCriticalHeadersMissing,
				"Missing critical security headers: "+strings.Join(criticalMissing, ", "), 8)
		}
	}

	// ============ Permissions and features ============

	if rec.Permissions.Tested {
		var granted []string
		for _, perm := range sensitivePermissions {
			if rec.Permissions.Permissions[perm.name] == "granted" {
				granted = append(granted, perm.label)
			}
		}
		if len(granted) > 0 {
			weight := 4 * len(granted)
			if weight > 15 {
				weight = 15
			}
			add(model.PenaltySensitivePermissions,
				"Granted sensitive permissions: "+strings.Join(granted, ", "), weight)
		}

		var enabled []string
		for _, feature := range sensitiveFeatures {
			if rec.Permissions.Features[feature.name] {
				enabled = append(enabled, feature.label)
			}
		}
		if len(enabled) > 0 {
			weight := 2 * len(enabled)
			if weight > 10 {
				weight = 10
			}
			add(model.PenaltySensitiveFeatures,
				"Enabled sensitive features: "+strings.Join(enabled, ", "), weight)
		}
	}

	// ============ User authenticity factors ============

	if rec.Authenticity.Tested {
		risk := rec.Authenticity.BotDetectionRisk
		authScore := rec.Authenticity.AuthenticityScore
		if risk == "High" || authScore < 50 {
			add(model.PenaltyAuthenticity, "Low authenticity score (high bot detection risk)", 15)
		} else if risk == "Medium" || authScore < 75 {
			add(model.PenaltyAuthenticity, "Medium authenticity score (moderate bot detection risk)", 8)
		}
	}

	if rec.Behavior.Tested {
		if !rec.Behavior.NaturalBehavior || rec.Behavior.BehaviorScore < 50 {
			add(model.PenaltyBehavior, "Unnatural browsing behavior patterns detected", 10)
		} else if rec.Behavior.BehaviorScore < 75 {
			add(model.PenaltyBehavior, "Some unusual browsing behavior patterns", 5)
		}
	}

	if rec.Antibot.Tested {
		switch {
		case !rec.Antibot.PassesBasicBotChecks:
			add(model.PenaltyBotDetection, "Fails basic bot detection checks", 15)
		case !rec.Antibot.PassesAdvancedBotChecks:
			add(model.PenaltyBotDetection, "Fails advanced bot detection checks", 10)
		case rec.Antibot.DetectionRiskScore > 70:
			add(model.PenaltyBotDetection, "High risk of triggering bot detection systems", 12)
		case rec.Antibot.DetectionRiskScore > 40:
			add(model.PenaltyBotDetection, "Moderate risk of triggering bot detection systems", 6)
		}
	}

	if rec.PrivacyExtensions.Tested {
		if rec.PrivacyExtensions.AuthenticityImpact < 50 {
			add(model.PenaltyExtensionAuthenticity,
				"Privacy extensions severely impact browser authenticity", 12)
		} else if rec.PrivacyExtensions.AuthenticityImpact < 70 {
			add(model.PenaltyExtensionAuthenticity,
				"Privacy extensions moderately impact browser authenticity", 6)
		}

		if rec.PrivacyExtensions.CompatibilityImpact < 50 {
			add(model.PenaltyExtensionCompatibility,
				"Privacy extensions severely impact website compatibility", 8)
		} else if rec.PrivacyExtensions.CompatibilityImpact < 70 {
			add(model.PenaltyExtensionCompatibility,
				"Privacy extensions moderately impact website compatibility", 4)
		}
	}

	// ============ Privacy posture factors ============

	if rec.DoNotTrack.Tested && !rec.DoNotTrack.Enabled {
		add(model.PenaltyDoNotTrackDisabled, "Do Not Track browser setting disabled", 5)
	}

	if rec.DNSCountry.Tested && rec.DNSCountry.CountryDifferent {
		add(model.PenaltyDNSCountryMismatch, "DNS server country differs from IP location", 8)
	}

	if rec.Language.Tested && rec.Language.LocationDifferent {
		add(model.PenaltyLanguageMismatch, "Browser/system language differs from IP location", 7)
	}

	// ============ Apply ============

	result := model.ScoreResult{
		Penalties: penalties,
		Bonuses:   []model.BonusFactor{},
	}
	score := 100 - result.TotalPenalty()
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	result.Score = score
	return result
}

// containsAny reports whether s contains any of the markers.
func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// reported is true for a pointer reading that is present and non-zero.
// A reading of zero means the API was reachable but neutered, which is
// not a fingerprinting surface.
func reported(v *int) bool {
	return v != nil && *v != 0
}

func reportedFloat(v *float64) bool {
	return v != nil && *v != 0
}
