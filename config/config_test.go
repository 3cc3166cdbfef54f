package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "lz4", cfg.Compression)
	assert.Equal(t, "F11", cfg.EscapeKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xwebview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
host: 10.0.0.5
viewport_width: 1280
length_check: compressed
replay_interval: 40ms
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 1280, cfg.ViewportWidth)
	assert.Equal(t, "compressed", cfg.LengthCheck)
	assert.Equal(t, 40*time.Millisecond, cfg.ReplayInterval)
	assert.Equal(t, 8080, cfg.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [1"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	cfg.Compression = "gzip"
	cfg.LengthCheck = "maybe"
	cfg.ViewportWidth = -1
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"port", "gzip", "maybe", "viewport_width"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = Default()
	cfg.RecordPath, cfg.ReplayPath = "a", "b"
	assert.Error(t, cfg.Validate())
}
