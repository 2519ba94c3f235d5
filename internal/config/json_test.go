package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"data_dir":        "/opt/keep",
		"keyring_service": "keep-svc",
		"max_image_bytes": 2048,
		"sweep_interval":  "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "/opt/keep", cfg.DataDir)
		assert.Equal(t, "keep-svc", cfg.KeyringService)
		assert.Equal(t, int64(2048), cfg.MaxImageBytes)
		assert.Equal(t, 10*time.Second, cfg.SweepInterval)
	})

	t.Run("absent fields keep existing values", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{ScratchDir: "/keep/scratch"}
		parseJson(cfg)

		assert.Equal(t, "/keep/scratch", cfg.ScratchDir)
		assert.Equal(t, "/opt/keep", cfg.DataDir)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			DataDir:       "defaults-dir",
			SweepInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults-dir", cfg.DataDir)
		assert.Equal(t, 42*time.Second, cfg.SweepInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
