package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/prvcsh.yml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new prvcsh configuration file",
		Long: `Initialize writes a commented .prvcsh.yml configuration file.

Every setting ships commented out with its default documented: the listen
address, database directory, Redis cache, CORS origins, admin token hash,
and the retention policy. Uncomment and edit what should differ from the
defaults.

Examples:
  # Write .prvcsh.yml into the current directory
  prvcsh init

  # Write the file somewhere else
  prvcsh init -o /etc/prvcsh/config.yml

  # Replace an existing file
  prvcsh init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Path for the generated configuration file")
	cmd.Flags().BoolP("force", "f", false,
		"Replace the configuration file if it already exists")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(outputPath, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Listen address and CORS origins")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Retention window and per-session cap")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Redis cache and admin token hash")

	return nil
}

// writeConfigTemplate copies the embedded template to path, creating
// parent directories as needed. Without force an existing file is an
// error rather than silently replaced.
func writeConfigTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
	}

	content, err := configTemplate.ReadFile("templates/prvcsh.yml")
	if err != nil {
		return fmt.Errorf("failed to read embedded config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}
