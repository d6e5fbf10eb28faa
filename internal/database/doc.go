// Package database provides SQLite-based storage for scan records.
//
// This package implements the ScanDB, which stores:
//   - Completed scan records with all normalized signals flattened into columns
//   - The computed anonymity score, risk level and penalty breakdown
//   - Session-scoped history for the history view
//
// It also implements the RetentionSweeper, which deletes age-expired records
// and trims per-session overflow so the database stays bounded without an
// external scheduler.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Signals are flattened into typed columns rather than stored as one JSON
// blob so that retention, stats and history queries never have to parse
// record bodies. List- and map-shaped fields are stored as JSON text.
package database
