package model

// Proxy type labels reported alongside the VPN/proxy/Tor flags.
// These are display strings and part of the stored record contract.
const (
	ProxyTypeNone = "None"
	ProxyTypeHTTP = "HTTP Proxy"
	ProxyTypeTor  = "Tor"
)

// VPNProxyInfo holds the VPN/proxy/Tor classification for a client address.
// It is independent of GeoInfo: the flags come from request-header
// inspection, a network-intelligence lookup, and known Tor exit prefixes,
// OR'd together. Any single source triggering is sufficient.
type VPNProxyInfo struct {
	IsVPN     bool   `json:"is_vpn"`
	IsProxy   bool   `json:"is_proxy"`
	IsTor     bool   `json:"is_tor"`
	ProxyType string `json:"proxy_type"`
}

// NewVPNProxyInfo returns the zero classification: nothing detected.
func NewVPNProxyInfo() VPNProxyInfo {
	return VPNProxyInfo{ProxyType: ProxyTypeNone}
}

// Active reports whether any anonymization layer was detected.
func (v VPNProxyInfo) Active() bool {
	return v.IsVPN || v.IsProxy || v.IsTor
}
