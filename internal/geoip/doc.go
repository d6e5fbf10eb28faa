// Package geoip resolves public IP addresses to location and network
// operator data.
//
// Resolution runs through a chain of free lookup services (ip-api.com,
// ipapi.co, ipinfo.io) in order of preference. Partial answers merge into
// one result and the chain stops as soon as country, city and ISP are all
// known. Every provider failure is survivable: the worst case is a result
// full of Unknown sentinels, never an error. An optional Cache keeps
// recently resolved addresses out of the provider chain entirely.
package geoip
