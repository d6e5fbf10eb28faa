package scan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/hydro414e13/prvcsh/internal/model"
)

type stubGeo struct {
	info  model.GeoInfo
	gotIP string
}

func (s *stubGeo) Lookup(_ context.Context, ip string) model.GeoInfo {
	s.gotIP = ip
	return s.info
}

type stubIntel struct {
	info       model.VPNProxyInfo
	gotIP      string
	gotHeaders http.Header
}

func (s *stubIntel) Classify(_ context.Context, ip string, headers http.Header) model.VPNProxyInfo {
	s.gotIP = ip
	s.gotHeaders = headers
	return s.info
}

type stubStore struct {
	saved *model.ScanRecord
	id    int64
	err   error
}

func (s *stubStore) Save(_ context.Context, rec *model.ScanRecord) (int64, error) {
	s.saved = rec
	return s.id, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawDims(pairs map[string]string) map[string]json.RawMessage {
	dims := make(map[string]json.RawMessage, len(pairs))
	for name, blob := range pairs {
		dims[name] = json.RawMessage(blob)
	}
	return dims
}

// TestEngineScanProtectedProfile tests the happy path: a tunneled Firefox
// visitor with no findings keeps a perfect score and the record lands in
// the store with the resolver context attached.
func TestEngineScanProtectedProfile(t *testing.T) {
	t.Parallel()

	geo := &stubGeo{info: model.GeoInfo{IP: "203.0.113.9", Country: "Germany", CountryCode: "DE"}}
	intel := &stubIntel{info: model.VPNProxyInfo{IsVPN: true, ProxyType: model.ProxyTypeNone}}
	store := &stubStore{id: 41}

	engine := New(geo, intel, store, WithLogger(quietLogger()))
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	engine.now = func() time.Time { return frozen }

	headers := http.Header{"User-Agent": []string{"Mozilla/5.0 Firefox/126.0"}}
	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-1",
		IP:        "203.0.113.9",
		Headers:   headers,
		Dimensions: rawDims(map[string]string{
			"fingerprint": `{"userAgent":"Mozilla/5.0 (Windows NT 10.0; rv:126.0) Gecko/20100101 Firefox/126.0"}`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if rec.ID != 41 {
		t.Errorf("ID = %d, expected the store's 41", rec.ID)
	}
	if rec.Score.Score != 100 {
		t.Errorf("Score = %d, expected 100, penalties %v", rec.Score.Score, rec.Score.Penalties)
	}
	if rec.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %v, expected Low", rec.RiskLevel)
	}
	if rec.Geo.Country != "Germany" {
		t.Errorf("Geo.Country = %q, expected resolver result", rec.Geo.Country)
	}
	if !rec.VPNProxy.IsVPN {
		t.Error("VPNProxy.IsVPN = false, expected classifier result")
	}
	if rec.CreatedAt != frozen.UTC() {
		t.Errorf("CreatedAt = %v, expected %v", rec.CreatedAt, frozen.UTC())
	}
	if geo.gotIP != "203.0.113.9" || intel.gotIP != "203.0.113.9" {
		t.Errorf("lookups got IPs (%q, %q), expected the client IP", geo.gotIP, intel.gotIP)
	}
	if intel.gotHeaders.Get("User-Agent") == "" {
		t.Error("classifier did not receive the request headers")
	}
	if store.saved != rec {
		t.Error("store did not receive the returned record")
	}

	var stored map[string]string
	if err := json.Unmarshal([]byte(rec.HeadersJSON), &stored); err != nil {
		t.Fatalf("HeadersJSON did not parse: %v", err)
	}
	if stored["User-Agent"] != "Mozilla/5.0 Firefox/126.0" {
		t.Errorf("stored headers = %v, expected the first value per key", stored)
	}
}

// TestEngineScanExposedProfile tests the unprotected end-to-end scenario:
// no tunnel, insecure transport, WebRTC leak, Firefox browser.
func TestEngineScanExposedProfile(t *testing.T) {
	t.Parallel()

	engine := New(&stubGeo{}, &stubIntel{info: model.NewVPNProxyInfo()}, &stubStore{id: 1},
		WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-2",
		IP:        "198.51.100.7",
		Dimensions: rawDims(map[string]string{
			"fingerprint": `{"userAgent":"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Firefox/126.0"}`,
			"ssl":         `{"tested":true,"secure":false,"protocol":"HTTP"}`,
			"webrtc":      `{"tested":true,"local_ips":["192.168.1.5"]}`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if rec.Score.Score != 45 {
		t.Errorf("Score = %d, expected 45, penalties %v", rec.Score.Score, rec.Score.Penalties)
	}
	if rec.RiskLevel != model.RiskHigh {
		t.Errorf("RiskLevel = %v, expected High", rec.RiskLevel)
	}

	wantReasons := []string{
		"Not using VPN/proxy",
		"Insecure connection",
		"WebRTC IP leak detected",
	}
	if len(rec.Score.Penalties) != len(wantReasons) {
		t.Fatalf("Penalties = %v, expected %d entries", rec.Score.Penalties, len(wantReasons))
	}
	for i, want := range wantReasons {
		if rec.Score.Penalties[i].Reason != want {
			t.Errorf("Penalties[%d].Reason = %q, expected %q", i, rec.Score.Penalties[i].Reason, want)
		}
	}
}

// TestEngineScanGeoContextFlowsIntoNormalizers tests that the resolved
// country code reaches the DNS-country and language checks.
func TestEngineScanGeoContextFlowsIntoNormalizers(t *testing.T) {
	t.Parallel()

	geo := &stubGeo{info: model.GeoInfo{CountryCode: "DE"}}
	engine := New(geo, &stubIntel{}, &stubStore{id: 1}, WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-3",
		IP:        "203.0.113.4",
		Dimensions: rawDims(map[string]string{
			"dns":      `{"tested":true,"dnsCountry":"US"}`,
			"language": `{"tested":true,"systemLanguage":"ja-JP","browserLanguage":"ja-JP"}`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if !rec.DNSCountry.Tested || !rec.DNSCountry.CountryDifferent {
		t.Errorf("DNSCountry = %+v, expected a mismatch against DE", rec.DNSCountry)
	}
	if !rec.Language.Tested || !rec.Language.LocationDifferent {
		t.Errorf("Language = %+v, expected Japanese to mismatch DE", rec.Language)
	}
}

// TestEngineScanServerSideBreachEstimate tests that an address-only email
// dimension triggers the local breach estimate.
func TestEngineScanServerSideBreachEstimate(t *testing.T) {
	t.Parallel()

	engine := New(&stubGeo{}, &stubIntel{}, &stubStore{id: 1}, WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-4",
		IP:        "203.0.113.4",
		Dimensions: rawDims(map[string]string{
			"email": `{"tested":true,"email":"test@gmail.com"}`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if !rec.Email.Performed {
		t.Error("Email.Performed = false, expected true")
	}
	if !rec.Email.Leaked {
		t.Error("Email.Leaked = false, expected the estimator to flag test@gmail.com")
	}
	if len(rec.Email.BreachSites) == 0 {
		t.Error("BreachSites empty, expected at least one entry")
	}
}

// TestEngineScanClientBreachVerdictWins tests that a complete client-side
// verdict is stored as-is without a server-side estimate.
func TestEngineScanClientBreachVerdictWins(t *testing.T) {
	t.Parallel()

	engine := New(&stubGeo{}, &stubIntel{}, &stubStore{id: 1}, WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-5",
		IP:        "203.0.113.4",
		Dimensions: rawDims(map[string]string{
			"email": `{"tested":true,"email":"test@gmail.com","leakFound":false,"breachSites":[]}`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if rec.Email.Leaked {
		t.Error("Email.Leaked = true, expected the client verdict to stand")
	}
}

// TestEngineScanMalformedDimensions tests that undecodable blobs score as
// untested instead of failing the scan.
func TestEngineScanMalformedDimensions(t *testing.T) {
	t.Parallel()

	engine := New(&stubGeo{}, &stubIntel{info: model.VPNProxyInfo{IsVPN: true}}, &stubStore{id: 1},
		WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{
		SessionID: "session-6",
		IP:        "203.0.113.4",
		Dimensions: rawDims(map[string]string{
			"fingerprint": `{"userAgent":"firefox"}`,
			"cookies":     `{not json`,
			"canvas":      `[]`,
		}),
	})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if rec.Cookies.Tested || rec.Canvas.Tested {
		t.Errorf("malformed dimensions parsed as tested: cookies=%v canvas=%v",
			rec.Cookies.Tested, rec.Canvas.Tested)
	}
	if rec.Score.Score != 100 {
		t.Errorf("Score = %d, expected 100", rec.Score.Score)
	}
}

// TestEngineScanSaveFailure tests that persistence errors fail the scan.
func TestEngineScanSaveFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("disk full")
	engine := New(&stubGeo{}, &stubIntel{}, &stubStore{err: wantErr}, WithLogger(quietLogger()))

	_, err := engine.Scan(context.Background(), Input{SessionID: "session-7", IP: "203.0.113.4"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Scan() error = %v, expected to wrap the store error", err)
	}
}

// TestEngineScanNoHeaders tests that a headerless submission stores an
// empty header blob, which later disables the header-based legitimacy
// rules.
func TestEngineScanNoHeaders(t *testing.T) {
	t.Parallel()

	engine := New(&stubGeo{}, &stubIntel{}, &stubStore{id: 1}, WithLogger(quietLogger()))

	rec, err := engine.Scan(context.Background(), Input{SessionID: "session-8", IP: "203.0.113.4"})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}
	if rec.HeadersJSON != "" {
		t.Errorf("HeadersJSON = %q, expected empty", rec.HeadersJSON)
	}

	snap := model.NewLegitimacySnapshot(rec)
	if snap.Headers != nil {
		t.Errorf("snapshot Headers = %v, expected nil", snap.Headers)
	}
}
