package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hydro414e13/prvcsh/internal/breach"
	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/hydro414e13/prvcsh/internal/model"
	"github.com/hydro414e13/prvcsh/internal/recommend"
	"github.com/hydro414e13/prvcsh/internal/scan"
	"github.com/hydro414e13/prvcsh/internal/score"
)

// errorResponse is the uniform error body for all endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// scanResponse acknowledges a stored scan with enough detail for the
// client to render a summary without a second request.
type scanResponse struct {
	Success   bool                  `json:"success"`
	ResultID  int64                 `json:"result_id"`
	Score     int                   `json:"score"`
	RiskLevel model.RiskLevel       `json:"risk_level"`
	Penalties []model.PenaltyFactor `json:"penalties"`
}

// resultResponse is the full view of one scan: the stored record plus the
// legitimacy result and recommendations recomputed from it. Categories
// maps the category keys present in the recommendations to their display
// names so clients can render section headings without a copy of the map.
type resultResponse struct {
	Record          *model.ScanRecord       `json:"record"`
	Legitimacy      *model.LegitimacyResult `json:"legitimacy"`
	Recommendations []model.Recommendation  `json:"recommendations"`
	Categories      map[string]string       `json:"categories"`
}

// historyItem is one row of the session's scan history.
type historyItem struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Score     int             `json:"score"`
	RiskLevel model.RiskLevel `json:"risk_level"`
	Location  string          `json:"location"`
	Browser   string          `json:"browser"`
}

type historyResponse struct {
	Scans []historyItem `json:"scans"`
	Count int           `json:"count"`
}

type checkEmailRequest struct {
	Email string `json:"email"`
}

type checkEmailResponse struct {
	Email       string             `json:"email"`
	Leaked      bool               `json:"leaked"`
	BreachCount int                `json:"breach_count"`
	BreachSites []model.BreachSite `json:"breach_sites"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScan accepts one telemetry bundle, runs it through the engine and
// responds with the stored record's ID and scores. The bundle arrives
// either as a JSON object keyed by dimension name, or as a form whose
// values are JSON strings per dimension.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	dims, err := decodeDimensions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.engine.Scan(r.Context(), scan.Input{
		SessionID:  SessionID(r.Context()),
		IP:         clientIP(r),
		Headers:    r.Header,
		Dimensions: dims,
	})
	if err != nil {
		s.logger.Error("scan failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	if s.sweeper != nil {
		// Detached from the request so the response doesn't wait on
		// deletes and cancellation doesn't abort them mid-sweep.
		go s.sweeper.MaybeSweep(context.WithoutCancel(r.Context()))
	}

	s.respondJSON(w, http.StatusOK, scanResponse{
		Success:   true,
		ResultID:  rec.ID,
		Score:     rec.Score.Score,
		RiskLevel: rec.RiskLevel,
		Penalties: rec.Score.Penalties,
	})
}

// decodeDimensions reads the per-dimension JSON blobs from either a JSON
// body or form fields. Unparseable individual dimensions are kept as-is;
// the engine substitutes defaults for anything it cannot decode.
func decodeDimensions(r *http.Request) (map[string]json.RawMessage, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var dims map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&dims); err != nil {
			return nil, err
		}
		return dims, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	dims := make(map[string]json.RawMessage, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			dims[key] = json.RawMessage(values[0])
		}
	}
	return dims, nil
}

// handleResults returns a stored scan with its derived legitimacy result
// and recommendations.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid result id")
		return
	}

	rec, err := s.db.Get(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load result", "id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load result")
		return
	}

	legitimacy := score.Legitimacy(model.NewLegitimacySnapshot(rec))
	recommendations := recommend.Generate(rec.Score.Penalties)

	s.respondJSON(w, http.StatusOK, resultResponse{
		Record:          rec,
		Legitimacy:      &legitimacy,
		Recommendations: recommendations,
		Categories:      categoryNames(recommendations),
	})
}

// categoryNames maps the categories present in recommendations to their
// display names.
func categoryNames(recommendations []model.Recommendation) map[string]string {
	names := make(map[string]string, len(recommendations))
	for _, rec := range recommendations {
		names[string(rec.Category)] = rec.Category.DisplayName()
	}
	return names
}

// handleHistory returns the caller's most recent scans, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.History(r.Context(), SessionID(r.Context()), historyLimit)
	if err != nil {
		s.logger.Error("failed to load history", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			Score:     rec.Score.Score,
			RiskLevel: rec.RiskLevel,
			Location:  locationLabel(rec.Geo),
			Browser:   rec.Fingerprint.BrowserInfo,
		})
	}

	s.respondJSON(w, http.StatusOK, historyResponse{Scans: items, Count: len(items)})
}

// locationLabel renders "City, Country" omitting unresolved parts.
func locationLabel(geo model.GeoInfo) string {
	city := geo.City
	country := geo.Country
	switch {
	case city != "" && city != model.Unknown && country != "" && country != model.Unknown:
		return city + ", " + country
	case country != "" && country != model.Unknown:
		return country
	default:
		return model.Unknown
	}
}

// handleCheckEmail runs the breach estimate for a single address without
// storing anything.
func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req checkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	leaked, sites := breach.Estimate(req.Email)
	if sites == nil {
		sites = []model.BreachSite{}
	}

	s.respondJSON(w, http.StatusOK, checkEmailResponse{
		Email:       req.Email,
		Leaked:      leaked,
		BreachCount: len(sites),
		BreachSites: sites,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Status: "error", Message: message})
}
