// Package model defines the core data structures used throughout prvcsh.
//
// This package contains the following main types:
//   - GeoInfo: Best-effort IP geolocation data with "Unknown" sentinels
//   - VPNProxyInfo: VPN/proxy/Tor classification flags
//   - The normalized signal family: one struct per telemetry dimension
//   - ScoreResult / PenaltyFactor: the anonymity score with itemized penalties
//   - LegitimacyResult / LegitimacySnapshot: the "looks human" score and
//     the immutable projection it is computed from
//   - Recommendation: curated remediation entries derived from penalties
//   - ScanRecord: the persisted outcome of one scan
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (normalize, score, recommend, database,
// server, report) need these types, so centralizing them prevents import
// cycles.
//
// The models are designed to be serializable to JSON for API responses and
// database storage. Field names are part of the wire contract and must not
// change without versioning the storage layer.
package model
