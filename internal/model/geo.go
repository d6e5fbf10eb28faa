package model

import "net/netip"

// Unknown is the null sentinel for unresolved string fields in GeoInfo and
// the normalized signals. External providers frequently omit fields, so every
// string consumer must treat this literal as "no data" rather than a value.
const Unknown = "Unknown"

// IP version labels as computed from address syntax.
const (
	IPv4 = "IPv4"
	IPv6 = "IPv6"
)

// GeoInfo holds best-effort geolocation data for a single IP address.
// It is populated by merging partial results from a chain of external
// providers; any field a provider could not supply stays at the Unknown
// sentinel. Only Latitude and Longitude may be nil.
type GeoInfo struct {
	IP          string   `json:"ip"`
	Version     string   `json:"version"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Timezone    string   `json:"timezone"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ISP         string   `json:"isp"`
	ASN         string   `json:"asn"`
}

// NewGeoInfo returns a GeoInfo for ip with every lookup field set to the
// Unknown sentinel. The IP version is computed locally from the address
// syntax so it is available even when every provider fails.
func NewGeoInfo(ip string) GeoInfo {
	return GeoInfo{
		IP:          ip,
		Version:     ipVersion(ip),
		Country:     Unknown,
		CountryCode: Unknown,
		Region:      Unknown,
		City:        Unknown,
		Timezone:    Unknown,
		ISP:         Unknown,
		ASN:         Unknown,
	}
}

// ipVersion classifies an address literal as IPv4 or IPv6.
// Malformed addresses yield Unknown.
func ipVersion(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return Unknown
	}
	if addr.Is4() || addr.Is4In6() {
		return IPv4
	}
	return IPv6
}

// Resolved reports whether the basic location fields are all populated.
// The provider chain stops early once this holds.
func (g *GeoInfo) Resolved() bool {
	return g.Country != Unknown && g.City != Unknown && g.ISP != Unknown
}

// Merge copies every populated field of partial into g. A string field is
// populated when it is neither empty nor the Unknown sentinel; coordinates
// are populated when non-nil. The IP and Version fields are never merged
// because they are computed locally, not provider-supplied.
func (g *GeoInfo) Merge(partial GeoInfo) {
	mergeString(&g.Country, partial.Country)
	mergeString(&g.CountryCode, partial.CountryCode)
	mergeString(&g.Region, partial.Region)
	mergeString(&g.City, partial.City)
	mergeString(&g.Timezone, partial.Timezone)
	mergeString(&g.ISP, partial.ISP)
	mergeString(&g.ASN, partial.ASN)
	if partial.Latitude != nil {
		g.Latitude = partial.Latitude
	}
	if partial.Longitude != nil {
		g.Longitude = partial.Longitude
	}
}

func mergeString(dst *string, src string) {
	if src != "" && src != Unknown {
		*dst = src
	}
}
