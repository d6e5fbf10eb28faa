package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
// When unset, values fall back to what the Go toolchain stamped into the binary.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildSetting returns the named key from the binary's embedded build
// settings, or false when the binary was built without VCS information.
func buildSetting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func getCommit() string {
	if commit != "" {
		return commit
	}
	if rev, ok := buildSetting("vcs.revision"); ok {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		return rev
	}
	return "unknown"
}

func getDate() string {
	if date != "" {
		return date
	}
	if t, ok := buildSetting("vcs.time"); ok {
		return t
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and build metadata",
		Long:  `Print the version, commit hash, and build date of prvcsh.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prvcsh version %s\n  commit: %s\n  built:  %s\n",
				getVersion(), getCommit(), getDate())
		},
	}
}
