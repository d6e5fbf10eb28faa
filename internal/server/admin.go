package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hydro414e13/prvcsh/internal/database"
)

type statsResponse struct {
	Status string          `json:"status"`
	Stats  *database.Stats `json:"stats"`
}

type cleanupResponse struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	DeletedOld    int64           `json:"deleted_old"`
	DeletedExcess int64           `json:"deleted_excess"`
	Stats         *database.Stats `json:"stats"`
}

// requireAdmin gates the maintenance endpoints behind the configured
// token. Without a configured hash the endpoints do not exist: a plain
// 404 rather than a 403 that would advertise them.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminTokenHash == "" {
			http.NotFound(w, r)
			return
		}
		token := adminToken(r)
		if token == "" || bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminTokenHash), []byte(token)) != nil {
			s.respondError(w, http.StatusForbidden, "Unauthorized access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminToken extracts the credential from the Authorization header,
// falling back to the token query parameter for curl convenience.
func adminToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// handleAdminStats reports storage statistics.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to collect stats", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	s.respondJSON(w, http.StatusOK, statsResponse{Status: "success", Stats: stats})
}

// handleAdminCleanup runs a forced retention pass with the caller's
// parameters, defaulting to the configured retention policy. It responds
// with the deletion counts and post-cleanup statistics.
func (s *Server) handleAdminCleanup(w http.ResponseWriter, r *http.Request) {
	days := s.cfg.RetentionDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = n
	}

	perSession := s.cfg.PerSessionCap
	if v := r.URL.Query().Get("max_per_session"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "invalid max_per_session parameter")
			return
		}
		perSession = n
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	expired, err := s.db.DeleteOlderThan(r.Context(), cutoff)
	if err != nil {
		s.logger.Error("cleanup failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}
	overflow, err := s.db.TrimSessionOverflow(r.Context(), perSession)
	if err != nil {
		s.logger.Error("cleanup failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	stats, err := s.db.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to collect stats", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}

	s.logger.Info("admin cleanup completed", "deleted_old", expired, "deleted_excess", overflow)
	s.respondJSON(w, http.StatusOK, cleanupResponse{
		Status:        "success",
		Message:       fmt.Sprintf("Cleanup completed. Deleted %d old records and %d excess records.", expired, overflow),
		DeletedOld:    expired,
		DeletedExcess: overflow,
		Stats:         stats,
	})
}
