// Package main provides the entry point for the prvcsh CLI.
//
// prvcsh scores browser and network telemetry for privacy exposure.
// It serves an HTTP API that collects telemetry bundles, scores them,
// and keeps a short per-session history, and it can score a telemetry
// JSON file offline.
//
// Usage:
//
//	prvcsh serve
//	prvcsh scan telemetry.json
//
// See --help for all available options.
package main

// main is the entry point for prvcsh.
func main() {
	Execute()
}
