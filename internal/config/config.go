// Package config assembles runtime settings for the card keeper CLI.
// Values are layered: defaults, then an optional JSON file, then
// command-line flags, with later sources taking precedence.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - DataDir: durable state (preference database, permanent images, salt).
//   - ScratchDir: cache-tier staging area for freshly supplied images.
//   - KeyringService: service name under which the master key is stored.
//   - MaxImageBytes: decode cap for image display; larger files are
//     treated as undecodable and removed.
//   - SweepInterval: how often the janitor clears the scratch directory.
type Config struct {
	DataDir        string
	ScratchDir     string
	KeyringService string
	MaxImageBytes  int64
	SweepInterval  time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "cardkeep-data"
	c.ScratchDir = filepath.Join(os.TempDir(), "cardkeep-scratch")
	c.KeyringService = "cardkeep"
	c.MaxImageBytes = 16 << 20
	c.SweepInterval = 5 * time.Minute
}

// DBPath returns the preference database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "prefs.db")
}

// ImageDir returns the permanent (encrypted) image directory.
func (c *Config) ImageDir() string {
	return filepath.Join(c.DataDir, "images")
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
