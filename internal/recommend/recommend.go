package recommend

import (
	"fmt"
	"sort"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// Generate produces remediation advice for a scored scan. Blocks run in a
// fixed order and the result is stable-sorted by priority, so identical
// penalty lists always yield identical output.
//
// Two penalty kinds intentionally have no block: the insecure-connection
// finding (remediation belongs to the site, not the visitor) and the
// sensitive-features finding. Low timezone confidence alone does not
// trigger the timezone block either; it needs an actual mismatch.
func Generate(penalties []model.PenaltyFactor) []model.Recommendation {
	if len(penalties) == 0 {
		return []model.Recommendation{{
			Category:    model.CategoryBrowser,
			Title:       "Consider Browser Privacy Settings",
			Description: "Review and adjust your browser privacy settings regularly to enhance your online privacy.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Browser Privacy Guide", URL: "https://www.privacytools.io/"},
			},
		}}
	}

	present := make(map[model.PenaltyKind]bool, len(penalties))
	breachCount := 0
	for _, p := range penalties {
		present[p.Kind] = true
		if p.Kind == model.PenaltyEmailBreach && breachCount == 0 {
			breachCount = p.BreachCount
		}
	}
	has := func(kinds ...model.PenaltyKind) bool {
		for _, k := range kinds {
			if present[k] {
				return true
			}
		}
		return false
	}

	recs := []model.Recommendation{}

	if has(model.PenaltyNoVPN) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryConnection,
			Title:       "Use a VPN or Proxy Service",
			Description: "Your connection is not protected by a VPN or proxy. This means your ISP and visited websites can see your real IP address and potentially track your activity. Consider using a reputable VPN service to encrypt your traffic and mask your IP address.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "What is a VPN?", URL: "https://www.eff.org/issues/vpn"},
				{Text: "Choosing a VPN", URL: "https://www.privacytools.io/providers/vpn/"},
			},
		})
	}

	if has(model.PenaltyNonPrivateBrowser) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBrowser,
			Title:       "Switch to a Privacy-Focused Browser",
			Description: "Your browser was identified as potentially vulnerable to tracking. Consider switching to Firefox with privacy enhancements or Tor Browser for maximum anonymity.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "Firefox Privacy Settings", URL: "https://support.mozilla.org/en-US/kb/privacy-settings-firefox"},
				{Text: "Tor Browser", URL: "https://www.torproject.org/"},
			},
		})
	}

	if has(model.PenaltyWebRTCLeak) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBrowser,
			Title:       "Fix WebRTC Leaks",
			Description: "Your browser is leaking your local IP address through WebRTC. Install a WebRTC blocking extension or disable WebRTC in your browser settings.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "WebRTC Leak Test", URL: "https://browserleaks.com/webrtc"},
				{Text: "How to Disable WebRTC", URL: "https://privacytools.io/browsers/#webrtc"},
			},
		})
	}

	if has(model.PenaltyDNSLeak) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryConnection,
			Title:       "Fix DNS Leaks",
			Description: "Your DNS requests may be bypassing your VPN, potentially revealing your browsing activity. Configure your system to use your VPN provider's DNS servers or use a secure DNS service.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "DNS Leak Test", URL: "https://www.dnsleaktest.com/"},
				{Text: "Secure DNS Services", URL: "https://www.privacytools.io/providers/dns/"},
			},
		})
	}

	if has(model.PenaltyTrackingCookies, model.PenaltyThirdPartyCookies) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBrowser,
			Title:       "Enhance Cookie Protection",
			Description: "Your browser is accepting tracking cookies that can monitor your online activity. Enable Enhanced Tracking Protection in your browser settings and consider using privacy extensions.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Cookie Settings Guide", URL: "https://www.cookiestatus.com/"},
				{Text: "Privacy Badger Extension", URL: "https://privacybadger.org/"},
			},
		})
	}

	if has(model.PenaltyCanvasFingerprint) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryFingerprinting,
			Title:       "Prevent Canvas Fingerprinting",
			Description: "Your browser is vulnerable to canvas fingerprinting. Install anti-fingerprinting extensions or use browsers with built-in fingerprinting protection like Firefox or Tor Browser.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Canvas Fingerprinting Explained", URL: "https://pixelprivacy.com/resources/canvas-fingerprinting/"},
				{Text: "Canvas Blocker Extension", URL: "https://addons.mozilla.org/en-US/firefox/addon/canvasblocker/"},
			},
		})
	}

	if has(model.PenaltyAudioFingerprint) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryFingerprinting,
			Title:       "Prevent Audio Fingerprinting",
			Description: "Your browser is vulnerable to audio fingerprinting. Use browser extensions that block audio fingerprinting or switch to a privacy-focused browser.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Audio Fingerprinting Explained", URL: "https://fingerprintjs.com/blog/audio-fingerprinting/"},
				{Text: "Browser Privacy Guide", URL: "https://www.privacytools.io/browsers/"},
			},
		})
	}

	if has(model.PenaltyFontFingerprint) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryFingerprinting,
			Title:       "Reduce Font Fingerprinting Risk",
			Description: "Your system's unique fonts can be used to track you. Consider using font fingerprinting protection extensions or limiting the fonts installed on your system.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Font Fingerprinting Protection", URL: "https://github.com/joue-quroi/chameleon"},
				{Text: "Browser Fingerprinting Guide", URL: "https://www.eff.org/deeplinks/2010/05/every-browser-unique-results-fom-panopticlick"},
			},
		})
	}

	if has(model.PenaltyHardwareFingerprint) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryFingerprinting,
			Title:       "Reduce Hardware Fingerprinting",
			Description: "Your hardware details are being exposed, which can be used to track you. Use a browser with fingerprinting protection or extensions that limit access to hardware information.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Hardware Fingerprinting Explained", URL: "https://pixelprivacy.com/resources/browser-fingerprinting/"},
				{Text: "Privacy Browsers Comparison", URL: "https://privacytools.io/browsers/"},
			},
		})
	}

	if has(model.PenaltyBatteryFingerprint) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryFingerprinting,
			Title:       "Disable Battery API",
			Description: "The Battery API in your browser can be used for fingerprinting. Use a browser extension to disable this API or switch to a browser with better privacy protections.",
			Priority:    model.PriorityLow,
			Links: []model.Link{
				{Text: "Battery API Risks", URL: "https://eprint.iacr.org/2015/616.pdf"},
				{Text: "Disable Battery API", URL: "https://www.ghacks.net/2016/11/15/firefox-disable-battery-api/"},
			},
		})
	}

	if has(model.PenaltyEmailBreach) {
		priority := model.PriorityMedium
		if breachCount > 3 {
			priority = model.PriorityHigh
		}
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryData,
			Title:       "Address Email Data Breaches",
			Description: fmt.Sprintf("Your email was found in %d data breaches. Change passwords for affected accounts, enable two-factor authentication, and consider using a password manager.", breachCount),
			Priority:    priority,
			Links: []model.Link{
				{Text: "Data Breach Response", URL: "https://www.identitytheft.gov/databreach"},
				{Text: "Password Manager Guide", URL: "https://www.privacytools.io/software/passwords/"},
			},
		})
	}

	if has(model.PenaltyWeakPassword) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryData,
			Title:       "Strengthen Your Password",
			Description: "Your password is too weak. Create a strong, unique password that is at least 12 characters long with a mix of uppercase, lowercase, numbers, and special characters.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "Password Strength Guide", URL: "https://www.ncsc.gov.uk/collection/top-tips-for-staying-secure-online/password-managers"},
				{Text: "Password Managers", URL: "https://www.privacytools.io/software/passwords/"},
			},
		})
	}

	if has(model.PenaltyTimezoneInconsistent, model.PenaltyTimezoneOffset) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryLocation,
			Title:       "Fix Timezone Inconsistency",
			Description: "Your browser's timezone settings don't match your actual location or system timezone. This could indicate VPN/proxy misconfiguration or intentional spoofing. Adjust your system clock and timezone settings for better privacy protection.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Timezone Leaks", URL: "https://browserleaks.com/javascript"},
				{Text: "VPN Timezone Issues", URL: "https://www.privacytools.io/"},
			},
		})
	}

	if has(model.PenaltySecurityHeaders, model.PenaltyCriticalHeadersMissing) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryWeb,
			Title:       "Improve Website Security Headers",
			Description: "The website you're connecting to is missing important security headers. If you manage this site, implement recommended security headers to improve protection.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Security Headers Guide", URL: "https://securityheaders.com/"},
				{Text: "OWASP Secure Headers", URL: "https://owasp.org/www-project-secure-headers/"},
			},
		})
	}

	if has(model.PenaltySensitivePermissions) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryPermissions,
			Title:       "Review Browser Permissions",
			Description: "You've granted sensitive permissions to this website. Review and revoke unnecessary permissions in your browser settings.",
			Priority:    model.PriorityHigh,
			Links: []model.Link{
				{Text: "Managing Browser Permissions", URL: "https://support.mozilla.org/en-US/kb/permissions-manager-give-ability-store-passwords-set-cookies-more"},
				{Text: "Privacy & Permissions Guide", URL: "https://www.privacytools.io/browsers/#about_config"},
			},
		})
	}

	if has(model.PenaltyAuthenticity) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryAuthenticity,
			Title:       "Improve Browser Authenticity",
			Description: "Your browser profile appears suspicious and might trigger bot detection systems. Consider using more consistent privacy tools or a browser designed for privacy that maintains a natural appearance.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Browser Fingerprinting Guide", URL: "https://coveryourtracks.eff.org/"},
				{Text: "Mullvad Browser", URL: "https://mullvad.net/en/browser"},
			},
		})
	}

	if has(model.PenaltyBehavior) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBehavior,
			Title:       "More Natural Browsing Behavior",
			Description: "Your browsing behavior appears automated or unnatural. This can make websites treat you suspiciously. Try to use your browser more naturally and avoid rapid, repetitive actions.",
			Priority:    model.PriorityLow,
			Links: []model.Link{
				{Text: "Browser Automation Detection", URL: "https://antoinevastel.com/bot%20detection/2020/01/20/detecting-web-bots.html"},
			},
		})
	}

	// Authenticity findings double as bot-detection warnings: the profile
	// that looks inauthentic is the one detection systems flag.
	if has(model.PenaltyBotDetection, model.PenaltyAuthenticity) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryDetection,
			Title:       "Avoid Bot Detection Triggers",
			Description: "Your browser is triggering anti-bot detection systems. Consider using a different browser profile for sensitive services, with fewer privacy modifications that might make you look suspicious.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Bot Detection Guide", URL: "https://fingerprint.com/blog/bot-detection-techniques/"},
				{Text: "Balanced Privacy Approach", URL: "https://www.privacytools.io/"},
			},
		})
	}

	if has(model.PenaltyExtensionAuthenticity, model.PenaltyExtensionCompatibility) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryExtensions,
			Title:       "Optimize Privacy Extensions",
			Description: "Your privacy extensions are creating a unique browser fingerprint or causing compatibility issues. Consider using fewer, more comprehensive extensions instead of many specialized ones.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Privacy Extensions Guide", URL: "https://www.privacytools.io/browsers/#addons"},
				{Text: "Extension Fingerprinting", URL: "https://arxiv.org/pdf/1810.10897.pdf"},
			},
		})
	}

	if has(model.PenaltyDoNotTrackDisabled) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBrowser,
			Title:       "Enable Do Not Track",
			Description: "Your browser is not sending the Do Not Track signal to websites. While not all websites honor this setting, enabling it can help reduce tracking from those that do respect this preference.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Enable Do Not Track", URL: "https://allaboutdnt.com/"},
				{Text: "Do Not Track Explained", URL: "https://blog.mozilla.org/en/products/firefox/do-not-track/"},
			},
		})
	}

	if has(model.PenaltyDNSCountryMismatch) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryConnection,
			Title:       "Check DNS Server Configuration",
			Description: "Your DNS server is located in a different country than your IP address. This could reveal your attempts to mask your location. Consider using DNS servers that match your VPN/proxy location.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "DNS Privacy Guide", URL: "https://www.privacytools.io/providers/dns/"},
				{Text: "VPN DNS Configuration", URL: "https://proprivacy.com/vpn/guides/vpn-dns-leaks"},
			},
		})
	}

	if has(model.PenaltyLanguageMismatch) {
		recs = append(recs, model.Recommendation{
			Category:    model.CategoryBrowser,
			Title:       "Align Browser Language with Location",
			Description: "Your browser's language setting doesn't match your IP address location, which could reveal your true location. Consider changing your browser's language settings to match your VPN/proxy country.",
			Priority:    model.PriorityMedium,
			Links: []model.Link{
				{Text: "Browser Fingerprinting", URL: "https://coveryourtracks.eff.org/"},
				{Text: "Language Settings Guide", URL: "https://www.privacytools.io/"},
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
