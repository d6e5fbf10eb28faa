package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/model"
	"github.com/hydro414e13/prvcsh/internal/recommend"
	"github.com/hydro414e13/prvcsh/internal/report"
	"github.com/hydro414e13/prvcsh/internal/scan"
	"github.com/hydro414e13/prvcsh/internal/score"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [telemetry-file]",
		Short: "Score a telemetry JSON file offline",
		Long: `Scan scores a telemetry bundle without running the HTTP API.

The input file is a single JSON object keyed by dimension name, the same
shape the API accepts: fingerprint, webrtc, dns, cookies, canvas, and so
on. Each value is that dimension's telemetry object.

No network lookups are performed: geolocation stays unknown and no
VPN or proxy is assumed, so connection penalties reflect a direct,
unprotected connection. The result is written as a report and never
stored.

Examples:
  # Score a bundle and print the console report
  prvcsh scan telemetry.json

  # JSON report to a file
  prvcsh scan --json -o report.json telemetry.json

  # Markdown report, recording the client address
  prvcsh scan --markdown --ip 203.0.113.9 telemetry.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Write the report as JSON (conflicts with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write the report as Markdown (conflicts with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Report destination path (parent directories are created)")

	// Record context
	cmd.Flags().String("ip", "",
		"Client IP address recorded with the result (no lookup is performed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Debug, getLogJSONFlag(cmd))

	return runOfflineScan(context.Background(), cfg, logger)
}

// buildScanConfig creates a Config from scan command flags.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ClientIP, err = cmd.Flags().GetString("ip")
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.InputFile = args[0]
	}

	cfg.Debug = getDebugFlag(cmd)

	return cfg, nil
}

// offlineGeo satisfies scan.GeoResolver without network access. The
// address is recorded as-is with every location field unknown.
type offlineGeo struct{}

// Lookup returns an empty geolocation for the given address.
func (offlineGeo) Lookup(_ context.Context, ip string) model.GeoInfo {
	return model.NewGeoInfo(ip)
}

// offlineIntel satisfies scan.Classifier without network access. Offline
// bundles carry no transport context, so the posture is a direct
// connection.
type offlineIntel struct{}

// Classify reports a direct connection for every address.
func (offlineIntel) Classify(_ context.Context, _ string, _ http.Header) model.VPNProxyInfo {
	return model.NewVPNProxyInfo()
}

// discardStore satisfies scan.Store for offline runs. Offline scores are
// one-shot report input and never enter the history database.
type discardStore struct{}

// Save drops the record and reports ID zero.
func (discardStore) Save(_ context.Context, _ *model.ScanRecord) (int64, error) {
	return 0, nil
}

// runOfflineScan scores the telemetry file and writes the report.
func runOfflineScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.InputFile == "" {
		return config.ErrNoInput
	}

	data, err := os.ReadFile(cfg.InputFile) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return fmt.Errorf("failed to read telemetry file: %w", err)
	}

	var dims map[string]json.RawMessage
	if err := json.Unmarshal(data, &dims); err != nil {
		return fmt.Errorf("failed to parse telemetry file %s: %w", cfg.InputFile, err)
	}

	engine := scan.New(offlineGeo{}, offlineIntel{}, discardStore{}, scan.WithLogger(logger))

	rec, err := engine.Scan(ctx, scan.Input{
		SessionID:  "offline",
		IP:         cfg.ClientIP,
		Dimensions: dims,
	})
	if err != nil {
		return fmt.Errorf("failed to score telemetry: %w", err)
	}

	legitimacy := score.Legitimacy(model.NewLegitimacySnapshot(rec))
	result := &report.Result{
		Record:          rec,
		Legitimacy:      &legitimacy,
		Recommendations: recommend.Generate(rec.Score.Penalties),
	}

	return outputReport(cfg, result)
}

// outputReport writes the report in the requested format, to the report
// file when one is configured and to stdout otherwise.
func outputReport(cfg *config.Config, result *report.Result) error {
	output := os.Stdout
	if cfg.ReportFile != "" {
		f, err := openReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithVersion(getVersion()),
		)
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewConsoleWriter(output, report.WithVerbose(cfg.Debug))
	}

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// openReportFile creates the report file and any missing parent
// directories. Reports describe the client's network and fingerprint
// posture, so the file is readable by the owner only.
func openReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
