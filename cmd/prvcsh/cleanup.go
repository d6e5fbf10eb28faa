package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/spf13/cobra"
)

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired scan records from the database",
		Long: `Cleanup runs one retention sweep against the scan database and exits.

It deletes records older than the retention window and trims each
session's history beyond the per-session cap. The serve command runs the
same sweep opportunistically in the background; cleanup exists for cron
jobs and for reclaiming space while the server is down.

Examples:
  # Sweep with the configured retention policy
  prvcsh cleanup

  # Keep only the last 7 days, 5 records per session
  prvcsh cleanup --retention-days 7 --max-per-session 5

  # Sweep a specific database directory
  prvcsh cleanup --db-dir /var/lib/prvcsh`,
		Args: cobra.NoArgs,
		RunE: runCleanupCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")
	cmd.Flags().Int("retention-days", config.DefaultRetentionDays,
		"Days of scan history to keep")
	cmd.Flags().Int("max-per-session", config.DefaultPerSessionCap,
		"Newest records kept per session")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .prvcsh.yml in current or home directory)")

	return cmd
}

// runCleanupCmd executes the cleanup command.
func runCleanupCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCleanupConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Debug, getLogJSONFlag(cmd))
	slog.SetDefault(logger)

	return runCleanup(context.Background(), cmd, cfg, logger)
}

// buildCleanupConfig creates a Config from cleanup command flags, merging
// in values from the configuration file for flags left at their defaults.
func buildCleanupConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.RetentionDays, err = cmd.Flags().GetInt("retention-days")
	if err != nil {
		return nil, err
	}

	cfg.PerSessionCap, err = cmd.Flags().GetInt("max-per-session")
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

// runCleanup opens the database and forces one retention sweep.
func runCleanup(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DatabasePath(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sweeper := database.NewRetentionSweeper(db,
		database.WithMaxAge(time.Duration(cfg.RetentionDays)*24*time.Hour),
		database.WithPerSessionCap(cfg.PerSessionCap),
		database.WithSweeperLogger(logger),
	)

	expired, overflow, err := sweeper.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Cleanup completed. Deleted %d old records and %d excess records.\n",
		expired, overflow)

	stats, err := db.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read database stats: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Remaining: %d records across %d sessions.\n",
		stats.TotalCount, stats.SessionCount)

	return nil
}
