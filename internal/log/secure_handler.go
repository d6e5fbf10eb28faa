package log

import (
	"context"
	"io"
	"log/slog"
	"net/netip"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// Attribute keys that are always masked, grouped by where they come from.
// The groups are joined into one lookup set at init.
var (
	headerKeys = []string{
		"authorization", "cookie", "set-cookie", "x-api-key",
		"x-auth-token", "proxy-authorization", "x-forwarded-for",
	}
	credentialKeys = []string{
		"password", "passwd", "secret", "token", "api_key", "apikey",
		"api-key", "access_token", "admin_token", "private_key",
		"secret_key", "credential", "credentials", "auth",
	}
	sessionKeys = []string{
		"session", "session_id", "sessionid", "sid", "prvcsh_session",
	}
	// Telemetry identity: the values this service exists to score. They
	// identify a person, so they never reach the log stream in clear.
	identityKeys = []string{
		"email", "email_address", "ip", "ip_address", "client_ip",
		"remote_addr",
	}

	blockedKeys = newKeySet(headerKeys, credentialKeys, sessionKeys, identityKeys)
)

// blockedKeySubstrings marks a key sensitive when any of these appear
// anywhere in it ("db_password", "csrf_token"). Bare "auth" and "private"
// are deliberately absent: they false-positive against telemetry keys such
// as "authenticity_score" and "private_browsing". Their exact forms are in
// blockedKeys.
var blockedKeySubstrings = []string{
	"password", "passwd", "secret", "token", "credential",
}

func newKeySet(groups ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range groups {
		for _, k := range g {
			set[k] = struct{}{}
		}
	}
	return set
}

// keyIsBlocked reports whether an attribute key names sensitive data.
// Matching is case-insensitive.
func keyIsBlocked(key string) bool {
	k := strings.ToLower(key)
	if _, ok := blockedKeys[k]; ok {
		return true
	}
	for _, sub := range blockedKeySubstrings {
		if strings.Contains(k, sub) {
			return true
		}
	}
	return false
}

// secretValuePatterns mask a value on its shape alone, whatever its key.
var secretValuePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer and Basic authorization values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Long opaque strings: API keys, fingerprint hashes. Telemetry hashes
	// identify a browser as reliably as a cookie does, so they are masked
	// like one.
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// Private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

func valueIsSecret(value string) bool {
	for _, p := range secretValuePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// emailPattern matches email addresses embedded in free text.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ipCandidatePattern matches substrings that look like IP literals: a
// dotted quad, or a hex run with at least two colons. Candidates are
// verified with netip.ParseAddr before masking, so times ("12:30:45") and
// out-of-range quads ("256.1.1.1") pass through untouched.
var ipCandidatePattern = regexp.MustCompile(`\b\d{1,3}(?:\.\d{1,3}){3}\b|[0-9a-fA-F]{0,4}:[0-9a-fA-F]{0,4}:[0-9a-fA-F:.]*`)

// redactAddresses masks email addresses and IP literals embedded in text.
func redactAddresses(s string) string {
	if strings.Contains(s, "@") {
		s = emailPattern.ReplaceAllString(s, MaskValue)
	}

	if strings.ContainsAny(s, ".:") {
		s = ipCandidatePattern.ReplaceAllStringFunc(s, func(m string) string {
			// The candidate pattern may swallow trailing punctuation
			trimmed := strings.TrimRight(m, ".:")
			if _, err := netip.ParseAddr(trimmed); err != nil {
				return m
			}
			return MaskValue + m[len(trimmed):]
		})
	}

	return s
}

// redactAttr returns the attribute with sensitive content masked. Groups
// are walked recursively. Keys decide first; string values are then checked
// for secret shapes and for embedded emails or IP literals.
func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		out := make([]slog.Attr, len(members))
		for i, m := range members {
			out[i] = redactAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if keyIsBlocked(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		if valueIsSecret(v) {
			return slog.String(a.Key, MaskValue)
		}
		if redacted := redactAddresses(v); redacted != v {
			return slog.String(a.Key, redacted)
		}
	}

	return a
}

// SecureHandler wraps an slog.Handler and masks personal and secret data
// in messages and attributes before they reach the wrapped handler.
//
// Design decision: Redaction lives in a handler wrapper, not in call sites,
// because:
//  1. Every component that takes a *slog.Logger inherits it with no code
//  2. One wrapper serves text and JSON output alike
//  3. A missed call site fails closed instead of leaking
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// A nil handler falls back to slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rebuilds the record with a redacted message and redacted
// attributes, then hands it to the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, redactAddresses(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs redacts the attributes before adding them downstream.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redactAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func handlerOptions(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// NewSecureLogger creates a redacting text logger writing to w. With debug
// true the level is Debug, otherwise Info. The result is safe to install
// with slog.SetDefault or to pass to any component taking a *slog.Logger.
func NewSecureLogger(w io.Writer, debug bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(debug))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for deployments
// that feed logs to an aggregator.
func NewSecureJSONLogger(w io.Writer, debug bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(debug))))
}
