// Package breach estimates whether an email address has appeared in known
// data breaches.
//
// This is a pattern heuristic, not a lookup against a real breach corpus.
// It combines the breach history of a few heavily-breached providers,
// account-name patterns that attackers target first (administrative,
// service and test accounts), and a hash-derived score that keeps verdicts
// stable per address without storing anything. The output shape matches a
// real breach API so a corpus-backed implementation could slot in behind
// the same function.
package breach
