package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".prvcsh.yml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .prvcsh.yml configuration file.
// Every field is optional; CLI flags take precedence over file values.
type File struct {
	// Listen is the HTTP listen address for the serve command.
	Listen string `yaml:"listen,omitempty"`

	// DBDir is the directory holding the SQLite database file.
	DBDir string `yaml:"dbDir,omitempty"`

	// RedisAddress enables the Redis-backed geolocation cache.
	RedisAddress string `yaml:"redisAddress,omitempty"`

	// AdminTokenHash is the bcrypt hash of the admin API token.
	AdminTokenHash string `yaml:"adminTokenHash,omitempty"`

	// AllowedOrigins lists the origins the CORS middleware accepts.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`

	// RetentionDays is how many days of scan history to keep.
	RetentionDays int `yaml:"retentionDays,omitempty"`

	// MaxPerSession is the number of newest records kept per session.
	MaxPerSession int `yaml:"maxPerSession,omitempty"`

	// SweepInterval is the minimum time between retention sweeps, in Go
	// duration syntax (for example "24h" or "90m").
	SweepInterval string `yaml:"sweepInterval,omitempty"`
}

// ParseSweepInterval parses the SweepInterval field as a Go duration.
// It returns 0 and no error when the field is empty, so callers can keep
// their default.
func (f *File) ParseSweepInterval() (time.Duration, error) {
	if f.SweepInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.SweepInterval)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sweepInterval: %w", err)
	}
	return d, nil
}

// LoadConfigFile reads and parses a YAML configuration file. A missing
// file is reported as ErrConfigNotFound so the CLI can distinguish "no
// config" from "broken config".
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile returns the first existing configuration file: the
// explicit path when one is given, otherwise .prvcsh.yml in the working
// directory and then in the home directory. Empty means none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Apply copies file values into the config for every field the caller has
// not already set on the command line. The set of explicitly-set flag
// names is passed in because only the CLI layer knows which flags changed.
func (c *Config) Apply(f *File, changed func(name string) bool) error {
	if f == nil {
		return nil
	}

	if f.Listen != "" && !changed("listen") {
		c.ListenAddress = f.Listen
	}
	if f.DBDir != "" && !changed("db-dir") {
		c.DBDir = f.DBDir
	}
	if f.RedisAddress != "" && !changed("redis") {
		c.RedisAddress = f.RedisAddress
	}
	if f.AdminTokenHash != "" && !changed("admin-token-hash") {
		c.AdminTokenHash = f.AdminTokenHash
	}
	if len(f.AllowedOrigins) > 0 && !changed("allowed-origins") {
		c.AllowedOrigins = f.AllowedOrigins
	}
	if f.RetentionDays != 0 && !changed("retention-days") {
		c.RetentionDays = f.RetentionDays
	}
	if f.MaxPerSession != 0 && !changed("max-per-session") {
		c.PerSessionCap = f.MaxPerSession
	}
	if !changed("sweep-interval") {
		d, err := f.ParseSweepInterval()
		if err != nil {
			return err
		}
		if d != 0 {
			c.SweepInterval = d
		}
	}

	return nil
}
