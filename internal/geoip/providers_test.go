package geoip

import (
	"testing"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// TestParseIPAPI tests the ip-api.com response parser.
func TestParseIPAPI(t *testing.T) {
	t.Parallel()

	t.Run("successful lookup", func(t *testing.T) {
		t.Parallel()
		body := `{"status":"success","country":"Germany","countryCode":"DE",` +
			`"regionName":"Bavaria","city":"Munich","timezone":"Europe/Berlin",` +
			`"lat":48.1374,"lon":11.5755,"isp":"Deutsche Telekom AG","as":"AS3320 Deutsche Telekom AG"}`
		got, ok := parseIPAPI([]byte(body))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.Country != "Germany" || got.CountryCode != "DE" || got.City != "Munich" {
			t.Errorf("location = %q/%q/%q", got.Country, got.CountryCode, got.City)
		}
		if got.ISP != "Deutsche Telekom AG" || got.ASN != "AS3320 Deutsche Telekom AG" {
			t.Errorf("operator = %q/%q", got.ISP, got.ASN)
		}
		if got.Latitude == nil || *got.Latitude != 48.1374 {
			t.Errorf("Latitude = %v, expected 48.1374", got.Latitude)
		}
	})

	t.Run("in-band failure", func(t *testing.T) {
		t.Parallel()
		if _, ok := parseIPAPI([]byte(`{"status":"fail","message":"private range"}`)); ok {
			t.Error("expected ok=false for status fail")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		if _, ok := parseIPAPI([]byte(`<html>rate limited</html>`)); ok {
			t.Error("expected ok=false for malformed body")
		}
	})
}

// TestParseIPAPICo tests the ipapi.co response parser and its ASN forms.
func TestParseIPAPICo(t *testing.T) {
	t.Parallel()

	t.Run("string asn", func(t *testing.T) {
		t.Parallel()
		body := `{"country_name":"Finland","country_code":"FI","region":"Uusimaa",` +
			`"city":"Helsinki","timezone":"Europe/Helsinki","latitude":60.1708,` +
			`"longitude":24.9375,"org":"Hetzner Online GmbH","asn":"AS24940"}`
		got, ok := parseIPAPICo([]byte(body))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.ASN != "AS24940" {
			t.Errorf("ASN = %q, expected %q", got.ASN, "AS24940")
		}
		if got.Country != "Finland" || got.ISP != "Hetzner Online GmbH" {
			t.Errorf("got %q/%q", got.Country, got.ISP)
		}
	})

	t.Run("numeric asn", func(t *testing.T) {
		t.Parallel()
		got, ok := parseIPAPICo([]byte(`{"country_name":"Finland","asn":24940}`))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.ASN != "AS24940" {
			t.Errorf("ASN = %q, expected %q", got.ASN, "AS24940")
		}
	})

	t.Run("missing asn", func(t *testing.T) {
		t.Parallel()
		got, ok := parseIPAPICo([]byte(`{"country_name":"Finland"}`))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.ASN != model.Unknown {
			t.Errorf("ASN = %q, expected %q", got.ASN, model.Unknown)
		}
	})

	t.Run("error body", func(t *testing.T) {
		t.Parallel()
		if _, ok := parseIPAPICo([]byte(`{"error":true,"reason":"RateLimited"}`)); ok {
			t.Error("expected ok=false for error body")
		}
	})
}

// TestParseIPInfo tests the ipinfo.io response parser.
func TestParseIPInfo(t *testing.T) {
	t.Parallel()

	t.Run("org and loc unpacking", func(t *testing.T) {
		t.Parallel()
		body := `{"country":"US","region":"California","city":"Mountain View",` +
			`"timezone":"America/Los_Angeles","loc":"37.4056,-122.0775","org":"AS15169 Google LLC"}`
		got, ok := parseIPInfo([]byte(body))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.Country != "US" || got.CountryCode != "US" {
			t.Errorf("country fields = %q/%q, expected country code reuse", got.Country, got.CountryCode)
		}
		if got.ASN != "AS15169" {
			t.Errorf("ASN = %q, expected %q", got.ASN, "AS15169")
		}
		if got.ISP != "AS15169 Google LLC" {
			t.Errorf("ISP = %q", got.ISP)
		}
		if got.Latitude == nil || *got.Latitude != 37.4056 {
			t.Errorf("Latitude = %v, expected 37.4056", got.Latitude)
		}
		if got.Longitude == nil || *got.Longitude != -122.0775 {
			t.Errorf("Longitude = %v, expected -122.0775", got.Longitude)
		}
	})

	t.Run("missing org keeps unknown asn", func(t *testing.T) {
		t.Parallel()
		got, ok := parseIPInfo([]byte(`{"country":"US","loc":"bogus"}`))
		if !ok {
			t.Fatal("expected ok=true")
		}
		if got.ASN != model.Unknown {
			t.Errorf("ASN = %q, expected %q", got.ASN, model.Unknown)
		}
		if got.Latitude != nil {
			t.Errorf("Latitude = %v, expected nil for unparseable loc", got.Latitude)
		}
	})
}
