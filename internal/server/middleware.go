package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie that keys scan history to a browser.
const SessionCookieName = "prvcsh_session"

// contentSecurityPolicy allows the self-hosted frontend plus the CDNs and
// lookup APIs it loads from. The connect-src entries let the client-side
// checks call the public IP services directly.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://cdn.jsdelivr.net https://cdnjs.cloudflare.com; " +
	"style-src 'self' 'unsafe-inline' https://cdn.replit.com https://cdnjs.cloudflare.com https://fonts.googleapis.com; " +
	"img-src 'self' data:; " +
	"font-src 'self' https://fonts.gstatic.com https://cdnjs.cloudflare.com; " +
	"media-src 'self' data:; " +
	"connect-src 'self' https://api.ipify.org https://ipapi.co;"

type contextKey struct {
	name string
}

var sessionContextKey = &contextKey{name: "session"}

// SessionID returns the session identifier attached by the session
// middleware, or an empty string outside a request.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionContextKey).(string); ok {
		return id
	}
	return ""
}

// session ensures every request carries a session identifier. A valid
// UUID cookie is reused; anything else gets a fresh one. The cookie is
// HttpOnly and expires with the browser session.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// securityHeaders sets the response headers every page and API response
// carries regardless of route.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request. The client address goes
// through the redacting handler like every other sensitive attribute.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"client_ip", clientIP(r),
		)
	})
}

// clientIP resolves the caller's address: the first entry of
// X-Forwarded-For when a proxy chain reports one, otherwise the
// transport's remote address without the port.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
