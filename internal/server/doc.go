// Package server provides the HTTP API for submitting telemetry scans and
// reading their results.
//
// # Architecture
//
// The package is designed around the Server type, which owns the chi router
// and the handlers. Scans flow through the injected scan engine; reads go
// straight to the database. The server never computes scores itself.
//
// Design decision: Legitimacy scores and recommendations are computed on
// every read rather than stored because:
//  1. Both derive entirely from the stored record, so storing them would
//     duplicate state that can drift
//  2. Recommendation copy changes between releases; recomputing keeps old
//     records current
//  3. The computation is pure and cheap compared to the row fetch
//
// # Endpoints
//
//   - POST /api/scan: submit a telemetry bundle, get back the record ID and scores
//   - GET /api/results/{id}: stored record plus legitimacy and recommendations
//   - GET /api/history: the caller's ten most recent scans
//   - POST /api/check-email: standalone breach estimate for one address
//   - GET /api/admin/stats, POST /api/admin/cleanup: token-protected maintenance
//   - GET /healthz: liveness probe
//
// # Sessions
//
// Callers are identified by the prvcsh_session cookie, a UUID set on first
// contact. History is scoped to it. The cookie is HttpOnly and carries no
// server-side state beyond being the records' session key.
//
// # Usage
//
//	srv := server.New(cfg, db, engine, server.WithSweeper(sweeper))
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
