// Package normalize converts raw client telemetry into the typed signal
// structs in the model package.
//
// Each dimension has one adapter function taking the decoded JSON object
// (map[string]any) the client submitted for that dimension. Adapters are
// pure and total: a missing, malformed or wrong-typed field resolves to the
// dimension's documented default and never produces an error. This is what
// lets the scorer treat an absent dimension uniformly as "no evidence, no
// penalty" instead of handling failures mid-aggregation.
//
// No adapter inspects another dimension. The few cross-dimension inputs
// (the public IP for WebRTC, the geolocated country for the DNS-country and
// language checks) are passed in by the caller as plain values.
package normalize
