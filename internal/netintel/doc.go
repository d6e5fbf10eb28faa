// Package netintel classifies the network path a scan arrived through:
// VPN, HTTP proxy, Tor, or none of these.
//
// Classification layers three heuristics: request headers that only proxies
// add, an IP reputation lookup (proxy and hosting flags plus keyword matches
// on the operator name), and static knowledge of hosting ASNs and Tor exit
// prefixes. The static layer is deliberately coarse; it exists so the
// classifier still says something useful when the reputation service is
// unreachable.
package netintel
