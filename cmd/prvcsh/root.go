// Package main provides the entry point for the prvcsh CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for prvcsh.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prvcsh",
		Short: "Privacy exposure scoring for browser and network telemetry",
		Long: `prvcsh scores browser and network telemetry for privacy exposure.

The serve command runs an HTTP API that accepts telemetry bundles from a
web client, resolves the caller's network context, scores both anonymity
and legitimacy, and keeps a short per-session scan history.

The scan command scores a telemetry JSON file offline without any network
lookups and writes a console, JSON, or Markdown report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewCleanupCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getDebugFlag retrieves the debug flag from the command or its parent.
func getDebugFlag(cmd *cobra.Command) bool {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		debug, err = cmd.Root().PersistentFlags().GetBool("debug")
		if err != nil {
			return false
		}
	}
	return debug
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	jsonOut, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonOut, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return jsonOut
}

// setupLogger creates a redacting structured logger. All commands log
// through it so telemetry values never reach the log stream verbatim.
func setupLogger(debug, jsonOut bool) *slog.Logger {
	if jsonOut {
		return log.NewSecureJSONLogger(os.Stderr, debug)
	}
	return log.NewSecureLogger(os.Stderr, debug)
}

// loadConfigInto merges configuration file values into cfg for every flag
// the user did not set explicitly. An explicitly specified config path
// must exist; the default lookup locations may be absent.
func loadConfigInto(cmd *cobra.Command, cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := cfg.Apply(file, cmd.Flags().Changed); err != nil {
		return fmt.Errorf("failed to apply config file %s: %w", path, err)
	}
	return nil
}
