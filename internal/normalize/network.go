package normalize

import (
	"net/netip"
	"strings"

	"golang.org/x/text/language"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// WebRTC inspects the candidate addresses the client's WebRTC stack
// volunteered. An RFC 1918 address that is neither loopback nor the public
// IP the scan arrived from means the browser is exposing the local network
// behind the tunnel.
func WebRTC(raw map[string]any, publicIP string) model.WebRTCSignal {
	sig := model.WebRTCSignal{Tested: rawBool(raw, "tested", false)}
	for _, ip := range rawStrings(raw, "local_ips") {
		if ip == "127.0.0.1" || ip == "localhost" || ip == publicIP {
			continue
		}
		if isPrivateIPv4(ip) {
			sig.HasLeak = true
			sig.LeakedIPs = append(sig.LeakedIPs, ip)
		}
	}
	return sig
}

// isPrivateIPv4 reports whether s is a well-formed RFC 1918 address
// (10/8, 172.16/12 or 192.168/16).
func isPrivateIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}
	return addr.Is4() && addr.IsPrivate()
}

// DNSLeak reads the client-side resolver probe. Either inconsistent
// results across probes or an explicit leak verdict counts as a leak.
func DNSLeak(raw map[string]any) model.DNSLeakSignal {
	sig := model.DNSLeakSignal{Tested: rawBool(raw, "tested", false)}
	if !sig.Tested {
		return sig
	}
	sig.DNSServers = rawStrings(raw, "dnsServers")
	sig.HasLeak = rawBool(raw, "inconsistentResults", false) || rawBool(raw, "leakDetected", false)
	return sig
}

// DNSCountry compares the country the client's resolver answered from with
// the country code of the scan's public IP. ipCountryCode comes from the
// geolocation lookup and may be Unknown, which disables the comparison.
func DNSCountry(raw map[string]any, ipCountryCode string) model.DNSCountrySignal {
	sig := model.DNSCountrySignal{
		Tested:     rawBool(raw, "tested", false),
		DNSCountry: rawString(raw, "dnsCountry", model.Unknown),
	}
	if sig.Tested && sig.DNSCountry != model.Unknown && ipCountryCode != model.Unknown {
		sig.CountryDifferent = sig.DNSCountry != ipCountryCode
	}
	return sig
}

// languageCountries maps a primary language subtag to the country codes
// where it is a plausible default locale. Deliberately coarse: the point is
// to flag a Russian-localized browser scanning from Brazil, not to model
// the world's linguistics.
var languageCountries = map[string][]string{
	"en": {"US", "GB", "CA", "AU", "NZ"},
	"es": {"ES", "MX", "AR", "CO", "CL"},
	"fr": {"FR", "CA", "BE", "CH"},
	"de": {"DE", "AT", "CH"},
	"it": {"IT", "CH"},
	"pt": {"PT", "BR"},
	"ru": {"RU", "BY", "KZ"},
	"zh": {"CN", "TW", "SG"},
	"ja": {"JP"},
	"ko": {"KR"},
}

// LanguageLocation flags a mismatch between the locales the client reports
// and the country its IP resolves to. Either the system or the browser
// language being implausible for the country is enough.
func LanguageLocation(raw map[string]any, ipCountryCode string) model.LanguageSignal {
	sig := model.LanguageSignal{
		Tested:          rawBool(raw, "tested", false),
		SystemLanguage:  rawString(raw, "systemLanguage", model.Unknown),
		BrowserLanguage: rawString(raw, "browserLanguage", model.Unknown),
	}
	if !sig.Tested || ipCountryCode == model.Unknown {
		return sig
	}
	for _, tag := range []string{sig.SystemLanguage, sig.BrowserLanguage} {
		countries, ok := languageCountries[primarySubtag(tag)]
		if !ok {
			continue
		}
		if !containsString(countries, ipCountryCode) {
			sig.LocationDifferent = true
			break
		}
	}
	return sig
}

// primarySubtag reduces a BCP 47 locale like "en-US" to its language
// subtag. Well-formed tags go through the canonicalizing parser; anything
// else falls back to taking the part before the first hyphen.
func primarySubtag(locale string) string {
	if locale == "" || locale == model.Unknown {
		return ""
	}
	if tag, err := language.Parse(locale); err == nil {
		base, _ := tag.Base()
		return base.String()
	}
	code, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(code)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
