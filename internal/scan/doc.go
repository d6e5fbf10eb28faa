// Package scan runs the full scan flow: decode the raw telemetry bundle,
// normalize every dimension, resolve the IP context, score, persist.
//
// The engine owns ordering, not computation. Normalizers, scorers and the
// breach estimator are pure functions from their own packages; the resolver
// and classifier hide their providers behind small interfaces so the engine
// can be exercised without the network. External lookups run concurrently
// and degrade to defaults on failure; only persistence can fail a scan.
package scan
