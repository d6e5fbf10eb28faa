// Package log provides secure logging functionality with automatic redaction
// of personal data, built on top of the standard slog package.
//
// The service handles telemetry that identifies people: email addresses,
// client IP addresses, session identifiers, fingerprint hashes. None of
// that may end up in log output, which is routinely shipped to aggregators
// and shared during debugging.
//
// # Redaction
//
// The SecureHandler masks, before emission:
//   - Email addresses and IP literals appearing anywhere in the log
//     message or in string attribute values
//   - Attributes whose key names sensitive data (cookie, authorization,
//     session_id, email, client_ip, ...)
//   - String values matching secret patterns (JWT, Bearer/Basic
//     credentials, PEM key markers, long opaque hashes)
//
// Even in debug mode, redacted values stay masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, debug)
//
//	logger.Info("scan stored",
//	    "client_ip", "203.0.113.7",   // masked
//	    "session_id", sessionID,      // masked
//	    "score", 85,                  // kept
//	)
//
//	slog.SetDefault(logger)
package log
