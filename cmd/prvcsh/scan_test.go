package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hydro414e13/prvcsh/internal/config"
)

// writeTelemetryFile writes a small but realistic telemetry bundle and
// returns its path.
func writeTelemetryFile(t *testing.T) string {
	t.Helper()

	bundle := `{
		"fingerprint": {"userAgent": "Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0"},
		"webrtc": {"tested": true, "local_ips": []},
		"do_not_track": {"tested": true, "enabled": false}
	}`

	path := filepath.Join(t.TempDir(), "telemetry.json")
	if err := os.WriteFile(path, []byte(bundle), 0600); err != nil {
		t.Fatalf("failed to write telemetry file: %v", err)
	}
	return path
}

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [telemetry-file]" {
			t.Errorf("expected use 'scan [telemetry-file]', got %q", cmd.Use)
		}
	})

	t.Run("has report format flags", func(t *testing.T) {
		t.Parallel()
		jsonFlag := cmd.Flags().Lookup("json")
		if jsonFlag == nil {
			t.Fatal("expected json flag")
		}
		if jsonFlag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", jsonFlag.Shorthand)
		}

		markdownFlag := cmd.Flags().Lookup("markdown")
		if markdownFlag == nil {
			t.Fatal("expected markdown flag")
		}
		if markdownFlag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", markdownFlag.Shorthand)
		}

		outputFlag := cmd.Flags().Lookup("output")
		if outputFlag == nil {
			t.Fatal("expected output flag")
		}
		if outputFlag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", outputFlag.Shorthand)
		}
	})

	t.Run("has ip flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("ip")
		if flag == nil {
			t.Fatal("expected ip flag")
		}
		if flag.DefValue != "" {
			t.Errorf("expected empty default, got %q", flag.DefValue)
		}
	})
}

// TestBuildScanConfig tests flag parsing into the configuration.
func TestBuildScanConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		cfg, err := buildScanConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.InputFile != "" {
			t.Errorf("expected empty input file, got %q", cfg.InputFile)
		}
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected report format flags to default to false")
		}
		if cfg.ReportFile != "" {
			t.Errorf("expected empty report file, got %q", cfg.ReportFile)
		}
		if cfg.ClientIP != "" {
			t.Errorf("expected empty client IP, got %q", cfg.ClientIP)
		}
	})

	t.Run("reads flags and positional argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("json", "true"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}
		if err := cmd.Flags().Set("output", "out.json"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}
		if err := cmd.Flags().Set("ip", "203.0.113.9"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildScanConfig(cmd, []string{"telemetry.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.InputFile != "telemetry.json" {
			t.Errorf("expected input file 'telemetry.json', got %q", cfg.InputFile)
		}
		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
		if cfg.ReportFile != "out.json" {
			t.Errorf("expected report file 'out.json', got %q", cfg.ReportFile)
		}
		if cfg.ClientIP != "203.0.113.9" {
			t.Errorf("expected client IP '203.0.113.9', got %q", cfg.ClientIP)
		}
	})

	t.Run("conflicting formats fail validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("json", "true"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}
		if err := cmd.Flags().Set("markdown", "true"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildScanConfig(cmd, []string{"telemetry.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := cfg.Validate(); !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

// TestRunScanCmd tests offline scoring end to end.
func TestRunScanCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes console report to file", func(t *testing.T) {
		t.Parallel()

		input := writeTelemetryFile(t)
		output := filepath.Join(t.TempDir(), "report.txt")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", "-o", output, input})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		text := string(content)
		if !strings.Contains(text, "PRIVACY ANALYSIS REPORT") {
			t.Error("expected report header in output")
		}
		if !strings.Contains(text, "Do Not Track browser setting disabled") {
			t.Error("expected the disabled Do Not Track penalty in output")
		}
	})

	t.Run("writes JSON report", func(t *testing.T) {
		t.Parallel()

		input := writeTelemetryFile(t)
		output := filepath.Join(t.TempDir(), "nested", "report.json")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", "--json", "-o", output, input})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var parsed map[string]json.RawMessage
		if err := json.Unmarshal(content, &parsed); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if _, ok := parsed["record"]; !ok {
			t.Error("expected 'record' key in JSON report")
		}
		if _, ok := parsed["recommendations"]; !ok {
			t.Error("expected 'recommendations' key in JSON report")
		}
	})

	t.Run("writes markdown report", func(t *testing.T) {
		t.Parallel()

		input := writeTelemetryFile(t)
		output := filepath.Join(t.TempDir(), "report.md")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", "--markdown", "-o", output, input})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		if !strings.Contains(string(content), "# Privacy Analysis Report") {
			t.Error("expected markdown title in output")
		}
	})

	t.Run("records the ip flag", func(t *testing.T) {
		t.Parallel()

		input := writeTelemetryFile(t)
		output := filepath.Join(t.TempDir(), "report.json")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", "--json", "--ip", "203.0.113.9", "-o", output, input})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		if !strings.Contains(string(content), "203.0.113.9") {
			t.Error("expected recorded IP in JSON report")
		}
	})

	t.Run("fails without input file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan"})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("fails on missing file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", filepath.Join(t.TempDir(), "absent.json")})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !strings.Contains(err.Error(), "failed to read telemetry file") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("fails on malformed bundle", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", path})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for malformed bundle")
		}
		if !strings.Contains(err.Error(), "failed to parse telemetry file") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		input := writeTelemetryFile(t)

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"scan", "--json", "--markdown", input})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}
