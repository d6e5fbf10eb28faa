package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// commonBrowsers are the families an unremarkable visitor runs. Anything
// else, including an unparseable user agent, reads as unusual.
var commonBrowsers = map[string]bool{
	"Chrome":  true,
	"Firefox": true,
	"Safari":  true,
	"Edge":    true,
}

// automationMarkers are user-agent substrings that give away automation
// frameworks and headless browsers.
var automationMarkers = []string{"headless", "phantomjs", "selenium", "webdriver", "puppeteer"}

// Legitimacy computes how much the scanned profile looks like an ordinary
// human visitor. It reads only the snapshot, never the stored record.
//
// Deductions come in two shapes: fixed steps for boolean findings, and
// continuous amounts scaled from sub-scores. Continuous amounts accumulate
// unrounded; only the itemized factor lines and the final score round, and
// they round half-to-even. The level is judged on the unrounded value, so
// a 79.6 reports as score 80 at Medium rather than High.
func Legitimacy(snap model.LegitimacySnapshot) model.LegitimacyResult {
	remaining := 100.0
	var factors []model.LegitimacyFactor
	deduct := func(label string, amount int) {
		remaining -= float64(amount)
		factors = append(factors, model.LegitimacyFactor{Label: label, Delta: -amount})
	}

	// ============ Browser and fingerprint factors ============

	if snap.BrowserInfo != "" && !commonBrowsers[snap.BrowserInfo] {
		deduct("Using uncommon browser", 5)
	}

	if snap.TimezoneTested && !snap.TimezoneConsistent {
		deduct("Browser timezone inconsistency", 15)
	}

	if snap.LanguageTested && snap.LanguageMismatch {
		deduct("Browser language doesn't match location", 10)
	}

	// ============ Network factors ============

	if snap.IsVPN || snap.IsProxy || snap.IsTor {
		deduct("Using VPN, proxy, or Tor", 20)
	}

	if snap.DNSCountryTested && snap.DNSCountryMismatch {
		deduct("DNS location mismatch", 15)
	}

	// ============ Header factors ============

	// A nil map means headers were unavailable, which skips these rules.
	// An empty map means headers were captured and the browser sent none
	// worth keeping, and that genuinely fails the Accept check.
	if snap.Headers != nil {
		if ua, ok := snap.Headers["User-Agent"]; ok {
			if containsAny(strings.ToLower(ua), automationMarkers) {
				deduct("Automation framework detected in user agent", 30)
			}
		}
		if accept, ok := snap.Headers["Accept"]; !ok || accept == "*/*" {
			deduct("Unusual Accept header", 5)
		}
	}

	// ============ Privacy posture factors ============

	// Privacy protections read as suspicious here even though the
	// anonymity scorer rewards them. That tension is the product.
	if snap.DoNotTrackTested && snap.DoNotTrackEnabled {
		deduct("Do Not Track enabled", 5)
	}

	if snap.PrivacyExtensionsDetected {
		deduct("Privacy extensions detected", 10)
	}

	if snap.CanvasTested && snap.CanvasProtectionActive {
		deduct("Canvas fingerprinting protection active", 10)
	}

	// ============ Behavior factors ============

	if snap.BehaviorTested {
		if !snap.NaturalBehavior {
			deduct("Unnatural browsing behavior", 20)
		}
		if snap.BehaviorScore != nil {
			impact := math.Max(0, float64(100-*snap.BehaviorScore)) / 4
			if impact > 5 {
				factors = append(factors, model.LegitimacyFactor{
					Label: fmt.Sprintf("Behavior score: %d/100", *snap.BehaviorScore),
					Delta: -int(math.RoundToEven(impact)),
				})
			}
			remaining -= impact
		}
	}

	// ============ Bot detection factors ============

	if snap.AntibotTested {
		if !snap.PassesBasicBotChecks {
			deduct("Fails basic bot checks", 25)
		}
		if !snap.PassesAdvancedBotChecks {
			deduct("Fails advanced bot checks", 15)
		}
		if snap.DetectionRiskScore > 50 {
			impact := float64(snap.DetectionRiskScore-50) / 2.5
			remaining -= impact
			factors = append(factors, model.LegitimacyFactor{
				Label: fmt.Sprintf("High bot detection risk: %d/100", snap.DetectionRiskScore),
				Delta: -int(math.RoundToEven(impact)),
			})
		}
	}

	// ============ Authenticity factors ============

	if snap.AuthenticityTested {
		if !snap.AuthenticAppearance {
			deduct("Profile appears inauthentic", 15)
		}
		if snap.AuthenticityScore < 60 {
			impact := float64(60-snap.AuthenticityScore) / 3
			remaining -= impact
			factors = append(factors, model.LegitimacyFactor{
				Label: fmt.Sprintf("Low authenticity score: %d/100", snap.AuthenticityScore),
				Delta: -int(math.RoundToEven(impact)),
			})
		}
	}

	// ============ Finalize ============

	remaining = math.Max(0, math.Min(100, remaining))

	level := model.LegitimacyLow
	switch {
	case remaining >= 80:
		level = model.LegitimacyHigh
	case remaining >= 50:
		level = model.LegitimacyMedium
	}

	return model.LegitimacyResult{
		Score:   int(math.RoundToEven(remaining)),
		Level:   level,
		Factors: factors,
	}
}
