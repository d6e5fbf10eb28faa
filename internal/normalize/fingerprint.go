package normalize

import (
	"fmt"
	"strings"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// Browser and OS families matched against the user agent, most common
// first. Matching is by case-insensitive substring, so the order decides
// ties: a Chrome user agent also contains "Safari" and must resolve to
// Chrome.
var (
	browserFamilies = []string{"Chrome", "Firefox", "Safari", "Edge", "Opera"}
	osFamilies      = []string{"Windows", "Mac", "Linux", "Android", "iOS"}
)

// Fingerprint extracts the browser fingerprint surface the client reported:
// user agent, derived browser and OS families, screen geometry, UTC offset
// and primary language.
func Fingerprint(raw map[string]any) model.FingerprintSignal {
	sig := model.FingerprintSignal{
		UserAgent:        rawString(raw, "userAgent", model.Unknown),
		BrowserInfo:      model.Unknown,
		OSInfo:           model.Unknown,
		ScreenResolution: model.Unknown,
		TimezoneOffset:   rawNumeric(raw, "timezoneOffset", model.Unknown),
		Language:         rawString(raw, "language", model.Unknown),
	}

	ua := strings.ToLower(sig.UserAgent)
	for _, family := range browserFamilies {
		if strings.Contains(ua, strings.ToLower(family)) {
			sig.BrowserInfo = family
			break
		}
	}
	for _, family := range osFamilies {
		if strings.Contains(ua, strings.ToLower(family)) {
			sig.OSInfo = family
			break
		}
	}

	if screen := rawObject(raw, "screen"); screen != nil {
		width := rawInt(screen, "width", 0)
		height := rawInt(screen, "height", 0)
		if width != 0 && height != 0 {
			sig.ScreenResolution = fmt.Sprintf("%dx%d", width, height)
		}
	}
	return sig
}
