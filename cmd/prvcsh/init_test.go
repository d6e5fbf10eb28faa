package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hydro414e13/prvcsh/internal/config"
)

// runInit executes the init command with the given arguments and returns
// its stdout.
func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewInitCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	if cmd.Use != "init" {
		t.Errorf("expected use 'init', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected non-empty short description")
	}

	flags := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"output", "o", config.DefaultConfigFile},
		{"force", "f", "false"},
	}
	for _, want := range flags {
		flag := cmd.Flags().Lookup(want.name)
		if flag == nil {
			t.Errorf("expected %s flag", want.name)
			continue
		}
		if flag.Shorthand != want.shorthand {
			t.Errorf("%s: expected shorthand %q, got %q", want.name, want.shorthand, flag.Shorthand)
		}
		if flag.DefValue != want.defValue {
			t.Errorf("%s: expected default %q, got %q", want.name, want.defValue, flag.DefValue)
		}
	}
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates the file and documents the settings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".prvcsh.yml")
		out, err := runInit(t, "-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Created configuration file:") {
			t.Errorf("expected creation notice, got: %s", out)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read created file: %v", err)
		}
		for _, key := range []string{"listen", "retentionDays", "maxPerSession", "sweepInterval"} {
			if !strings.Contains(string(content), key) {
				t.Errorf("expected config to document %q", key)
			}
		}
	})

	t.Run("refuses to clobber without force", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".prvcsh.yml")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if _, err := runInit(t, "-o", path); err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected 'already exists' error, got %v", err)
		}

		content, _ := os.ReadFile(path)
		if string(content) != "existing" {
			t.Error("existing file should be untouched")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".prvcsh.yml")
		if err := os.WriteFile(path, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if _, err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(content) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "etc", "prvcsh", "config.yml")
		if err := writeConfigTemplate(path, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file in nested directory: %v", err)
		}
	})

	t.Run("written file is owner-only", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("no Unix permissions on Windows")
		}

		path := filepath.Join(t.TempDir(), ".prvcsh.yml")
		if err := writeConfigTemplate(path, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})
}

func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile("templates/prvcsh.yml")
	if err != nil {
		t.Fatalf("failed to read template: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("expected non-empty template")
	}
	if !strings.Contains(string(content), "#") {
		t.Error("expected template to carry documentation comments")
	}

	// The template ships fully commented out, so a verbatim copy must load
	// as an empty configuration.
	path := filepath.Join(t.TempDir(), ".prvcsh.yml")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write template copy: %v", err)
	}
	file, err := config.LoadConfigFile(path)
	if err != nil {
		t.Fatalf("template did not parse: %v", err)
	}
	if file.Listen != "" || file.RetentionDays != 0 {
		t.Error("expected commented template to load as empty config")
	}
}
