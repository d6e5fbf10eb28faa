package normalize

import "github.com/hydro414e13/prvcsh/internal/model"

// Cookies reads the tracking-cookie probe.
func Cookies(raw map[string]any) model.CookieSignal {
	return model.CookieSignal{
		Tested:               rawBool(raw, "tested", false),
		TrackingCookiesFound: rawBool(raw, "trackingCookiesFound", false),
		CookieCount:          rawInt(raw, "cookieCount", 0),
		TrackingCookies:      rawStrings(raw, "trackingCookies"),
		ThirdPartyEnabled:    rawBool(raw, "thirdPartyCookiesEnabled", false),
	}
}

// Canvas reads the canvas fingerprinting probe.
func Canvas(raw map[string]any) model.CanvasSignal {
	return model.CanvasSignal{
		Tested:            rawBool(raw, "tested", false),
		Fingerprintable:   rawBool(raw, "fingerprintable", false),
		UniquenessScore:   rawInt(raw, "uniquenessScore", 0),
		ProtectionActive:  rawBool(raw, "protectionActive", false),
		CanvasFingerprint: rawString(raw, "canvasFingerprint", ""),
	}
}

// Permissions reads browser permission and feature state. The autoplay flag
// rides on its own wire key rather than inside the feature map.
func Permissions(raw map[string]any) model.PermissionsSignal {
	return model.PermissionsSignal{
		Tested:               rawBool(raw, "tested", false),
		PermissionsSupported: rawBool(raw, "permissionsSupported", false),
		Permissions:          rawStringMap(raw, "permissions"),
		Features:             rawBoolMap(raw, "features"),
		AutoplayEnabled:      rawBool(raw, "autoplay", false),
	}
}

// Extensions reads the privacy-extension detection probe.
func Extensions(raw map[string]any) model.ExtensionSignal {
	return model.ExtensionSignal{
		Tested:                    rawBool(raw, "tested", false),
		PrivacyExtensionsDetected: rawBool(raw, "privacyExtensionsDetected", false),
		DetectedExtensions:        rawStrings(raw, "detectedExtensions"),
	}
}

// DoNotTrack reads the Do Not Track browser setting.
func DoNotTrack(raw map[string]any) model.DNTSignal {
	return model.DNTSignal{
		Tested:  rawBool(raw, "tested", false),
		Enabled: rawBool(raw, "enabled", false),
	}
}
