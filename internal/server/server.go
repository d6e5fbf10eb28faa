package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/hydro414e13/prvcsh/internal/scan"
)

const (
	// requestTimeout bounds one request end to end. Scan requests wait on
	// up to three geolocation providers plus the intel provider, each with
	// its own short timeout, so this only catches pathological cases.
	requestTimeout = 30 * time.Second

	// shutdownTimeout is how long Run waits for in-flight requests to
	// drain after the context is canceled.
	shutdownTimeout = 10 * time.Second

	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second

	// historyLimit caps the history endpoint at the ten most recent scans,
	// the same depth the retention sweep keeps per session.
	historyLimit = 10
)

// Server serves the scan API over HTTP.
type Server struct {
	// cfg carries the listen address, CORS origins, admin token hash and
	// body-size cap.
	cfg *config.Config

	// db is the scan record store, used directly by the read endpoints
	// and the admin maintenance endpoints.
	db *database.ScanDB

	// engine runs submitted scans.
	engine *scan.Engine

	// sweeper, when set, is poked after each stored scan so retention
	// runs without a separate scheduler process.
	sweeper *database.RetentionSweeper

	// maxBody limits request body sizes on the POST endpoints.
	maxBody int64

	// logger is used for request and error logging.
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSweeper attaches a retention sweeper that is triggered
// opportunistically after scans are stored.
func WithSweeper(sweeper *database.RetentionSweeper) Option {
	return func(s *Server) {
		s.sweeper = sweeper
	}
}

// New creates a Server over the given config, store and scan engine.
func New(cfg *config.Config, db *database.ScanDB, engine *scan.Engine, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		engine:  engine,
		maxBody: cfg.MaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxBody <= 0 {
		s.maxBody = config.DefaultMaxBodySize
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler builds the routing tree. Exposed separately from Run so tests
// can drive the full middleware stack through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(securityHeaders)
	r.Use(s.session)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Get("/results/{id}", s.handleResults)
		r.Get("/history", s.handleHistory)
		r.Post("/check-email", s.handleCheckEmail)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/stats", s.handleAdminStats)
			r.Post("/cleanup", s.handleAdminCleanup)
		})
	})

	return r
}

// corsOptions derives the CORS policy from config. An empty origin list
// means a public API: any origin, no credentials. Naming explicit origins
// switches credentials on so browser sessions survive cross-origin calls.
func (s *Server) corsOptions() cors.Options {
	origins := s.cfg.AllowedOrigins
	credentials := true
	if len(origins) == 0 {
		origins = []string{"*"}
		credentials = false
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: credentials,
		MaxAge:           300,
	}
}

// Run serves until the context is canceled, then drains in-flight
// requests for up to shutdownTimeout before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", s.cfg.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
