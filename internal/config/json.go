package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cardkeep/internal/flagx"
	"github.com/dmitrijs2005/cardkeep/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "5m" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DataDir        string         `json:"data_dir"`
	ScratchDir     string         `json:"scratch_dir"`
	KeyringService string         `json:"keyring_service"`
	MaxImageBytes  int64          `json:"max_image_bytes"`
	SweepInterval  timex.Duration `json:"sweep_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields actually present in the JSON override the config; zero
// values are treated as absent. Panics on read or unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.ScratchDir != "" {
		cfg.ScratchDir = jc.ScratchDir
	}
	if jc.KeyringService != "" {
		cfg.KeyringService = jc.KeyringService
	}
	if jc.MaxImageBytes != 0 {
		cfg.MaxImageBytes = jc.MaxImageBytes
	}
	if jc.SweepInterval.Duration != 0 {
		cfg.SweepInterval = jc.SweepInterval.Duration
	}
}
