package normalize

import (
	"reflect"
	"testing"
)

// TestWebRTC tests local address leak detection.
func TestWebRTC(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		raw        map[string]any
		publicIP   string
		wantLeak   bool
		wantLeaked []string
	}{
		{
			name: "private address leaks",
			raw: map[string]any{
				"tested":    true,
				"local_ips": []any{"192.168.1.23"},
			},
			publicIP:   "203.0.113.7",
			wantLeak:   true,
			wantLeaked: []string{"192.168.1.23"},
		},
		{
			name: "loopback and public address ignored",
			raw: map[string]any{
				"tested":    true,
				"local_ips": []any{"127.0.0.1", "localhost", "203.0.113.7"},
			},
			publicIP: "203.0.113.7",
			wantLeak: false,
		},
		{
			name: "ten slash eight leaks",
			raw: map[string]any{
				"tested":    true,
				"local_ips": []any{"10.0.0.5", "172.20.1.9"},
			},
			publicIP:   "203.0.113.7",
			wantLeak:   true,
			wantLeaked: []string{"10.0.0.5", "172.20.1.9"},
		},
		{
			name: "public candidate is not a leak",
			raw: map[string]any{
				"tested":    true,
				"local_ips": []any{"8.8.8.8"},
			},
			publicIP: "203.0.113.7",
			wantLeak: false,
		},
		{
			name: "malformed candidate ignored",
			raw: map[string]any{
				"tested":    true,
				"local_ips": []any{"10.0.0", "not-an-ip"},
			},
			publicIP: "203.0.113.7",
			wantLeak: false,
		},
		{
			name:     "empty payload",
			raw:      map[string]any{},
			publicIP: "203.0.113.7",
			wantLeak: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := WebRTC(tc.raw, tc.publicIP)
			if got.HasLeak != tc.wantLeak {
				t.Errorf("HasLeak = %v, expected %v", got.HasLeak, tc.wantLeak)
			}
			if !reflect.DeepEqual(got.LeakedIPs, tc.wantLeaked) {
				t.Errorf("LeakedIPs = %v, expected %v", got.LeakedIPs, tc.wantLeaked)
			}
		})
	}
}

// TestDNSLeak tests that leak verdicts only count on a tested probe.
func TestDNSLeak(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      map[string]any
		wantLeak bool
	}{
		{
			name:     "inconsistent results leak",
			raw:      map[string]any{"tested": true, "inconsistentResults": true},
			wantLeak: true,
		},
		{
			name:     "explicit leak verdict",
			raw:      map[string]any{"tested": true, "leakDetected": true},
			wantLeak: true,
		},
		{
			name:     "untested probe never leaks",
			raw:      map[string]any{"tested": false, "inconsistentResults": true, "leakDetected": true},
			wantLeak: false,
		},
		{
			name:     "tested and clean",
			raw:      map[string]any{"tested": true},
			wantLeak: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DNSLeak(tc.raw); got.HasLeak != tc.wantLeak {
				t.Errorf("HasLeak = %v, expected %v", got.HasLeak, tc.wantLeak)
			}
		})
	}
}

// TestDNSLeakServers tests DNS server capture on a tested probe.
func TestDNSLeakServers(t *testing.T) {
	t.Parallel()

	got := DNSLeak(map[string]any{
		"tested":     true,
		"dnsServers": []any{"9.9.9.9", "149.112.112.112"},
	})
	want := []string{"9.9.9.9", "149.112.112.112"}
	if !reflect.DeepEqual(got.DNSServers, want) {
		t.Errorf("DNSServers = %v, expected %v", got.DNSServers, want)
	}
}

// TestDNSCountry tests the resolver country comparison and its gates.
func TestDNSCountry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		raw           map[string]any
		ipCountry     string
		wantDifferent bool
	}{
		{
			name:          "mismatch flagged",
			raw:           map[string]any{"tested": true, "dnsCountry": "DE"},
			ipCountry:     "US",
			wantDifferent: true,
		},
		{
			name:          "match not flagged",
			raw:           map[string]any{"tested": true, "dnsCountry": "US"},
			ipCountry:     "US",
			wantDifferent: false,
		},
		{
			name:          "unknown resolver country disables comparison",
			raw:           map[string]any{"tested": true},
			ipCountry:     "US",
			wantDifferent: false,
		},
		{
			name:          "unknown ip country disables comparison",
			raw:           map[string]any{"tested": true, "dnsCountry": "DE"},
			ipCountry:     "Unknown",
			wantDifferent: false,
		},
		{
			name:          "untested probe disables comparison",
			raw:           map[string]any{"tested": false, "dnsCountry": "DE"},
			ipCountry:     "US",
			wantDifferent: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := DNSCountry(tc.raw, tc.ipCountry)
			if got.CountryDifferent != tc.wantDifferent {
				t.Errorf("CountryDifferent = %v, expected %v", got.CountryDifferent, tc.wantDifferent)
			}
		})
	}
}

// TestLanguageLocation tests locale-versus-country plausibility.
func TestLanguageLocation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		raw           map[string]any
		ipCountry     string
		wantDifferent bool
	}{
		{
			name:          "english in the US is plausible",
			raw:           map[string]any{"tested": true, "systemLanguage": "en-US", "browserLanguage": "en-US"},
			ipCountry:     "US",
			wantDifferent: false,
		},
		{
			name:          "russian locale in the US is flagged",
			raw:           map[string]any{"tested": true, "systemLanguage": "ru-RU", "browserLanguage": "ru"},
			ipCountry:     "US",
			wantDifferent: true,
		},
		{
			name:          "browser language alone can flag",
			raw:           map[string]any{"tested": true, "systemLanguage": "en-US", "browserLanguage": "ja"},
			ipCountry:     "US",
			wantDifferent: true,
		},
		{
			name:          "uppercase tag is normalized",
			raw:           map[string]any{"tested": true, "systemLanguage": "EN-us"},
			ipCountry:     "GB",
			wantDifferent: false,
		},
		{
			name:          "unmapped language is not judged",
			raw:           map[string]any{"tested": true, "systemLanguage": "fi-FI"},
			ipCountry:     "US",
			wantDifferent: false,
		},
		{
			name:          "unknown ip country disables comparison",
			raw:           map[string]any{"tested": true, "systemLanguage": "ru-RU"},
			ipCountry:     "Unknown",
			wantDifferent: false,
		},
		{
			name:          "untested probe disables comparison",
			raw:           map[string]any{"tested": false, "systemLanguage": "ru-RU"},
			ipCountry:     "US",
			wantDifferent: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := LanguageLocation(tc.raw, tc.ipCountry)
			if got.LocationDifferent != tc.wantDifferent {
				t.Errorf("LocationDifferent = %v, expected %v", got.LocationDifferent, tc.wantDifferent)
			}
		})
	}
}
