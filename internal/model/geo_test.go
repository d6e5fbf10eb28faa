package model

import "testing"

// TestNewGeoInfo tests sentinel initialization and local version detection.
func TestNewGeoInfo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		ip          string
		wantVersion string
	}{
		{"IPv4 address", "203.0.113.7", IPv4},
		{"IPv6 address", "2001:db8::1", IPv6},
		{"IPv4-mapped IPv6 address", "::ffff:203.0.113.7", IPv4},
		{"malformed address", "not-an-ip", Unknown},
		{"empty address", "", Unknown},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			geo := NewGeoInfo(tc.ip)

			if geo.IP != tc.ip {
				t.Errorf("IP = %q, expected %q", geo.IP, tc.ip)
			}
			if geo.Version != tc.wantVersion {
				t.Errorf("Version = %q, expected %q", geo.Version, tc.wantVersion)
			}
			if geo.Country != Unknown || geo.City != Unknown || geo.ISP != Unknown {
				t.Errorf("lookup fields not initialized to sentinel: %+v", geo)
			}
			if geo.Latitude != nil || geo.Longitude != nil {
				t.Error("coordinates should start nil")
			}
			if geo.Resolved() {
				t.Error("fresh GeoInfo should not report Resolved")
			}
		})
	}
}

// TestGeoInfoMerge tests that only populated fields overwrite and that the
// locally computed fields never change.
func TestGeoInfoMerge(t *testing.T) {
	t.Parallel()

	lat := 51.5074
	geo := NewGeoInfo("203.0.113.7")
	geo.Country = "Germany"

	geo.Merge(GeoInfo{
		IP:       "9.9.9.9",
		Version:  IPv6,
		Country:  Unknown,
		City:     "London",
		ISP:      "Example Networks",
		Latitude: &lat,
	})

	if geo.IP != "203.0.113.7" || geo.Version != IPv4 {
		t.Errorf("locally computed fields changed: %+v", geo)
	}
	if geo.Country != "Germany" {
		t.Errorf("Country overwritten by sentinel: %q", geo.Country)
	}
	if geo.City != "London" {
		t.Errorf("City = %q, expected %q", geo.City, "London")
	}
	if geo.ISP != "Example Networks" {
		t.Errorf("ISP = %q, expected %q", geo.ISP, "Example Networks")
	}
	if geo.Latitude == nil || *geo.Latitude != lat {
		t.Errorf("Latitude not merged: %v", geo.Latitude)
	}
	if geo.Longitude != nil {
		t.Error("Longitude should remain nil")
	}
	if !geo.Resolved() {
		t.Error("country+city+isp populated, expected Resolved")
	}
}

// TestVPNProxyInfoActive tests the any-layer-active predicate.
func TestVPNProxyInfoActive(t *testing.T) {
	t.Parallel()

	if NewVPNProxyInfo().Active() {
		t.Error("zero classification should not be active")
	}
	if got := NewVPNProxyInfo().ProxyType; got != ProxyTypeNone {
		t.Errorf("ProxyType = %q, expected %q", got, ProxyTypeNone)
	}

	for _, info := range []VPNProxyInfo{
		{IsVPN: true, ProxyType: ProxyTypeNone},
		{IsProxy: true, ProxyType: ProxyTypeHTTP},
		{IsTor: true, ProxyType: ProxyTypeTor},
	} {
		if !info.Active() {
			t.Errorf("expected Active for %+v", info)
		}
	}
}
