package geoip

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// provider is one external lookup service: how to build the request URL
// for an IP and how to read the answer into a partial GeoInfo. parse
// reports ok=false when the body is unusable (malformed, or a structured
// error such as a rate limit notice).
type provider struct {
	name  string
	url   func(ip string) string
	parse func(data []byte) (model.GeoInfo, bool)
}

// defaultProviders returns the production chain in order of preference.
// ip-api.com comes first because its free tier is the most complete; it is
// also plain HTTP only, which is acceptable for public-IP lookups.
func defaultProviders() []provider {
	return []provider{
		{
			name:  "ip-api.com",
			url:   func(ip string) string { return "http://ip-api.com/json/" + ip },
			parse: parseIPAPI,
		},
		{
			name:  "ipapi.co",
			url:   func(ip string) string { return "https://ipapi.co/" + ip + "/json/" },
			parse: parseIPAPICo,
		},
		{
			name:  "ipinfo.io",
			url:   func(ip string) string { return "https://ipinfo.io/" + ip + "/json" },
			parse: parseIPInfo,
		},
	}
}

// parseIPAPI reads an ip-api.com answer. The service reports lookup
// failures in-band with status "fail" and HTTP 200.
func parseIPAPI(data []byte) (model.GeoInfo, bool) {
	var resp struct {
		Status      string   `json:"status"`
		Country     string   `json:"country"`
		CountryCode string   `json:"countryCode"`
		RegionName  string   `json:"regionName"`
		City        string   `json:"city"`
		Timezone    string   `json:"timezone"`
		Lat         *float64 `json:"lat"`
		Lon         *float64 `json:"lon"`
		ISP         string   `json:"isp"`
		AS          string   `json:"as"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Status == "fail" {
		return model.GeoInfo{}, false
	}
	return model.GeoInfo{
		Country:     resp.Country,
		CountryCode: resp.CountryCode,
		Region:      resp.RegionName,
		City:        resp.City,
		Timezone:    resp.Timezone,
		Latitude:    resp.Lat,
		Longitude:   resp.Lon,
		ISP:         resp.ISP,
		ASN:         resp.AS,
	}, true
}

// parseIPAPICo reads an ipapi.co answer. Errors arrive as HTTP 200 bodies
// carrying an "error" key. The ASN field has shifted type across API
// versions, so both string and numeric forms are accepted.
func parseIPAPICo(data []byte) (model.GeoInfo, bool) {
	var resp struct {
		Error       any      `json:"error"`
		CountryName string   `json:"country_name"`
		CountryCode string   `json:"country_code"`
		Region      string   `json:"region"`
		City        string   `json:"city"`
		Timezone    string   `json:"timezone"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Org         string   `json:"org"`
		ASN         any      `json:"asn"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Error != nil {
		return model.GeoInfo{}, false
	}
	return model.GeoInfo{
		Country:     resp.CountryName,
		CountryCode: resp.CountryCode,
		Region:      resp.Region,
		City:        resp.City,
		Timezone:    resp.Timezone,
		Latitude:    resp.Latitude,
		Longitude:   resp.Longitude,
		ISP:         resp.Org,
		ASN:         asnLabel(resp.ASN),
	}, true
}

// asnLabel renders an autonomous system number with the AS prefix.
func asnLabel(v any) string {
	switch asn := v.(type) {
	case string:
		if asn == "" {
			return model.Unknown
		}
		if strings.HasPrefix(asn, "AS") {
			return asn
		}
		return "AS" + asn
	case float64:
		return fmt.Sprintf("AS%d", int64(asn))
	}
	return model.Unknown
}

// parseIPInfo reads an ipinfo.io answer. The free tier packs latitude and
// longitude into a single "loc" string and fuses the ASN into the org
// field, so both need unpacking. Only the country code is available, not
// the country name.
func parseIPInfo(data []byte) (model.GeoInfo, bool) {
	var resp struct {
		Error    any    `json:"error"`
		Country  string `json:"country"`
		Region   string `json:"region"`
		City     string `json:"city"`
		Timezone string `json:"timezone"`
		Loc      string `json:"loc"`
		Org      string `json:"org"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Error != nil {
		return model.GeoInfo{}, false
	}

	info := model.GeoInfo{
		Country:     resp.Country,
		CountryCode: resp.Country,
		Region:      resp.Region,
		City:        resp.City,
		Timezone:    resp.Timezone,
		ISP:         resp.Org,
		ASN:         model.Unknown,
	}
	if fields := strings.Fields(resp.Org); len(fields) > 0 {
		info.ASN = fields[0]
	}
	if lat, lon, ok := parseLoc(resp.Loc); ok {
		info.Latitude = &lat
		info.Longitude = &lon
	}
	return info, true
}

// parseLoc splits an ipinfo.io "lat,lon" location string.
func parseLoc(loc string) (lat, lon float64, ok bool) {
	latStr, lonStr, found := strings.Cut(loc, ",")
	if !found {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
