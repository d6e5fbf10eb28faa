package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/hydro414e13/prvcsh/internal/geoip"
	"github.com/hydro414e13/prvcsh/internal/netintel"
	"github.com/hydro414e13/prvcsh/internal/scan"
	"github.com/hydro414e13/prvcsh/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// geoCacheTTL bounds how long a geolocation lookup result is reused.
// Provider data changes on a much slower scale, so an hour trades little
// accuracy for far fewer upstream requests.
const geoCacheTTL = time.Hour

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the privacy analysis HTTP API",
		Long: `Serve runs the HTTP API that scores browser and network telemetry.

The API accepts telemetry bundles, resolves the caller's network context
(geolocation, VPN/proxy/Tor posture), scores anonymity and legitimacy,
and keeps a short per-session scan history in SQLite. Old records are
swept opportunistically in the background.

Examples:
  # Listen on the default address
  prvcsh serve

  # Listen on a specific port with a Redis geolocation cache
  prvcsh serve --listen :8080 --redis 127.0.0.1:6379

  # Enable the admin endpoints
  prvcsh serve --admin-token-hash '$2a$10$...'

  # Use a custom configuration file
  prvcsh serve -c myconfig.yml

Configuration file (.prvcsh.yml) example:
  listen: ":5000"
  retentionDays: 30
  maxPerSession: 10
  allowedOrigins:
    - https://privacy.example.com`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	// Network flags
	cmd.Flags().StringP("listen", "l", config.DefaultListenAddress,
		"Listen address in host:port form")
	cmd.Flags().StringSlice("allowed-origins", nil,
		"Origins allowed by CORS (default: any origin, without credentials)")

	// Storage flags
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")
	cmd.Flags().String("redis", "",
		"Redis address for the shared geolocation cache (e.g., 127.0.0.1:6379)")

	// Admin API
	cmd.Flags().String("admin-token-hash", "",
		"bcrypt hash of the admin API token (empty disables the admin endpoints)")

	// Retention flags
	cmd.Flags().Int("retention-days", config.DefaultRetentionDays,
		"Days of scan history to keep")
	cmd.Flags().Int("max-per-session", config.DefaultPerSessionCap,
		"Newest records kept per session")
	cmd.Flags().Duration("sweep-interval", config.DefaultSweepInterval,
		"Minimum time between retention sweeps")

	// Lookup behavior
	cmd.Flags().Duration("lookup-timeout", config.DefaultLookupTimeout,
		"Per-provider timeout for geolocation and proxy intelligence lookups")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .prvcsh.yml in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Debug, getLogJSONFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	return runServe(ctx, cfg, logger)
}

// buildServeConfig creates a Config from serve command flags, merging in
// values from the configuration file for flags left at their defaults.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ListenAddress, err = cmd.Flags().GetString("listen")
	if err != nil {
		return nil, err
	}

	cfg.AllowedOrigins, err = cmd.Flags().GetStringSlice("allowed-origins")
	if err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.RedisAddress, err = cmd.Flags().GetString("redis")
	if err != nil {
		return nil, err
	}

	cfg.AdminTokenHash, err = cmd.Flags().GetString("admin-token-hash")
	if err != nil {
		return nil, err
	}

	cfg.RetentionDays, err = cmd.Flags().GetInt("retention-days")
	if err != nil {
		return nil, err
	}

	cfg.PerSessionCap, err = cmd.Flags().GetInt("max-per-session")
	if err != nil {
		return nil, err
	}

	cfg.SweepInterval, err = cmd.Flags().GetDuration("sweep-interval")
	if err != nil {
		return nil, err
	}

	cfg.LookupTimeout, err = cmd.Flags().GetDuration("lookup-timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigInto(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Debug = getDebugFlag(cmd)

	return cfg, nil
}

// runServe wires the scan pipeline together and runs the HTTP server
// until the context is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DatabasePath(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", db.Path())

	resolver := geoip.NewResolver(
		geoip.WithProviderTimeout(cfg.LookupTimeout),
		geoip.WithCache(geoCache(cfg, logger)),
		geoip.WithLogger(logger),
	)

	classifier := netintel.NewClassifier(
		netintel.WithIntelTimeout(cfg.LookupTimeout),
		netintel.WithGeoLookup(resolver),
		netintel.WithLogger(logger),
	)

	engine := scan.New(resolver, classifier, db, scan.WithLogger(logger))

	sweeper := database.NewRetentionSweeper(db,
		database.WithSweepInterval(cfg.SweepInterval),
		database.WithMaxAge(time.Duration(cfg.RetentionDays)*24*time.Hour),
		database.WithPerSessionCap(cfg.PerSessionCap),
		database.WithSweeperLogger(logger),
	)

	srv := server.New(cfg, db, engine,
		server.WithSweeper(sweeper),
		server.WithLogger(logger),
	)

	fmt.Printf("Listening on %s\n", cfg.ListenAddress)
	return srv.Run(ctx)
}

// geoCache selects the geolocation cache backend. With a Redis address
// configured the cache is shared across instances; otherwise lookup
// results live in process memory only.
func geoCache(cfg *config.Config, logger *slog.Logger) geoip.Cache {
	if cfg.RedisAddress == "" {
		return geoip.NewMemoryCache(geoCacheTTL)
	}
	logger.Info("using Redis geolocation cache", "address", cfg.RedisAddress)
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	return geoip.NewRedisCache(client, geoCacheTTL)
}
