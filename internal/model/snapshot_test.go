package model

import "testing"

// TestNewLegitimacySnapshot tests the projection from a stored record.
func TestNewLegitimacySnapshot(t *testing.T) {
	t.Parallel()

	rec := &ScanRecord{
		VPNProxy:    VPNProxyInfo{IsVPN: true, ProxyType: ProxyTypeNone},
		HeadersJSON: `{"User-Agent":"Mozilla/5.0","Accept":"text/html"}`,
		Fingerprint: FingerprintSignal{BrowserInfo: "Firefox"},
		Timezone:    TimezoneSignal{Tested: true, Consistent: false, OffsetConsistent: true, Confidence: 100},
		Behavior:    BehaviorSignal{Tested: true, NaturalBehavior: true, BehaviorScore: 72},
		DoNotTrack:  DNTSignal{Tested: true, Enabled: true},
	}

	snap := NewLegitimacySnapshot(rec)

	if snap.BrowserInfo != "Firefox" {
		t.Errorf("BrowserInfo = %q, expected %q", snap.BrowserInfo, "Firefox")
	}
	if !snap.IsVPN || snap.IsProxy || snap.IsTor {
		t.Errorf("VPN flags not projected: %+v", snap)
	}
	if !snap.TimezoneTested || snap.TimezoneConsistent {
		t.Error("timezone fields not projected")
	}
	if snap.Headers == nil {
		t.Fatal("expected parsed headers")
	}
	if snap.Headers["Accept"] != "text/html" {
		t.Errorf("Accept = %q, expected %q", snap.Headers["Accept"], "text/html")
	}
	if snap.BehaviorScore == nil || *snap.BehaviorScore != 72 {
		t.Errorf("BehaviorScore = %v, expected 72", snap.BehaviorScore)
	}
	if !snap.DoNotTrackEnabled {
		t.Error("DNT enablement not projected")
	}
}

// TestNewLegitimacySnapshotHeaderHandling tests that absent or malformed
// header JSON disables the header rules by leaving the map nil, while an
// empty object still yields a non-nil map.
func TestNewLegitimacySnapshotHeaderHandling(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		headersJSON string
		wantNil     bool
	}{
		{"absent", "", true},
		{"malformed", `{"User-Agent": `, true},
		{"wrong shape", `["not","an","object"]`, true},
		{"empty object", `{}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := NewLegitimacySnapshot(&ScanRecord{HeadersJSON: tc.headersJSON})
			if (snap.Headers == nil) != tc.wantNil {
				t.Errorf("Headers nil = %v, expected %v", snap.Headers == nil, tc.wantNil)
			}
		})
	}
}

// TestNewLegitimacySnapshotBehaviorScore tests that the behavior score only
// materializes when the dimension was tested.
func TestNewLegitimacySnapshotBehaviorScore(t *testing.T) {
	t.Parallel()

	untested := NewLegitimacySnapshot(&ScanRecord{
		Behavior: BehaviorSignal{Tested: false, BehaviorScore: 40},
	})
	if untested.BehaviorScore != nil {
		t.Errorf("untested behavior produced score %v", *untested.BehaviorScore)
	}

	tested := NewLegitimacySnapshot(&ScanRecord{
		Behavior: BehaviorSignal{Tested: true, BehaviorScore: 0},
	})
	if tested.BehaviorScore == nil || *tested.BehaviorScore != 0 {
		t.Errorf("tested zero score lost: %v", tested.BehaviorScore)
	}
}
