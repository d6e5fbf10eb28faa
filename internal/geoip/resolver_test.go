package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// testProvider builds a provider that targets a test server and parses
// ip-api.com shaped answers.
func testProvider(name, baseURL string) provider {
	return provider{
		name:  name,
		url:   func(ip string) string { return baseURL + "/json/" + ip },
		parse: parseIPAPI,
	}
}

// TestResolverLookupEarlyStop tests that a complete first answer stops the
// chain before the fallback provider is called.
func TestResolverLookupEarlyStop(t *testing.T) {
	t.Parallel()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"success","country":"Germany","countryCode":"DE",` +
			`"regionName":"Bavaria","city":"Munich","timezone":"Europe/Berlin",` +
			`"isp":"Deutsche Telekom AG","as":"AS3320"}`))
	}))
	defer primary.Close()

	var fallbackCalls atomic.Int32
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fallbackCalls.Add(1)
		w.Write([]byte(`{"status":"success","country":"Austria"}`))
	}))
	defer fallback.Close()

	r := NewResolver()
	r.providers = []provider{
		testProvider("primary", primary.URL),
		testProvider("fallback", fallback.URL),
	}

	got := r.Lookup(context.Background(), "203.0.113.7")
	if got.Country != "Germany" || got.City != "Munich" || got.ISP != "Deutsche Telekom AG" {
		t.Errorf("got %q/%q/%q", got.Country, got.City, got.ISP)
	}
	if got.IP != "203.0.113.7" || got.Version != model.IPv4 {
		t.Errorf("identity = %q/%q", got.IP, got.Version)
	}
	if n := fallbackCalls.Load(); n != 0 {
		t.Errorf("fallback called %d times, expected 0", n)
	}
}

// TestResolverLookupMerge tests that partial answers from successive
// providers merge instead of overwriting each other.
func TestResolverLookupMerge(t *testing.T) {
	t.Parallel()

	partial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"success","country":"Germany","countryCode":"DE"}`))
	}))
	defer partial.Close()

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"success","city":"Munich","isp":"Deutsche Telekom AG"}`))
	}))
	defer rest.Close()

	r := NewResolver()
	r.providers = []provider{
		testProvider("partial", partial.URL),
		testProvider("rest", rest.URL),
	}

	got := r.Lookup(context.Background(), "203.0.113.7")
	if got.Country != "Germany" {
		t.Errorf("Country = %q, first answer should survive the merge", got.Country)
	}
	if got.City != "Munich" || got.ISP != "Deutsche Telekom AG" {
		t.Errorf("fallback fields = %q/%q", got.City, got.ISP)
	}
}

// TestResolverLookupAllFail tests the all-providers-down case.
func TestResolverLookupAllFail(t *testing.T) {
	t.Parallel()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	r := NewResolver()
	r.providers = []provider{testProvider("down", down.URL)}

	got := r.Lookup(context.Background(), "2001:db8::1")
	if got.Country != model.Unknown || got.City != model.Unknown || got.ISP != model.Unknown {
		t.Errorf("expected unknown sentinels, got %+v", got)
	}
	if got.Version != model.IPv6 {
		t.Errorf("Version = %q, expected %q even with providers down", got.Version, model.IPv6)
	}
}

// TestResolverLookupCache tests that a cache hit bypasses providers and a
// miss populates the cache.
func TestResolverLookupCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"status":"success","country":"Germany","city":"Munich","isp":"DTAG"}`))
	}))
	defer srv.Close()

	r := NewResolver(WithCache(NewMemoryCache(time.Minute)))
	r.providers = []provider{testProvider("srv", srv.URL)}

	first := r.Lookup(context.Background(), "203.0.113.7")
	second := r.Lookup(context.Background(), "203.0.113.7")
	if first.Country != "Germany" || second.Country != "Germany" {
		t.Errorf("lookups = %q/%q", first.Country, second.Country)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("provider called %d times, expected 1", n)
	}
}
