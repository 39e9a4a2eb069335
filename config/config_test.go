package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_FILE", "DATA_URL", "CACHE_DIR", "CACHE_MAX_AGE_HOURS",
		"FALLBACK_ENABLED", "FALLBACK_SEED", "PALETTE_FILE", "LOG_DIR", "OPEN_BROWSER"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.OpenBrowser)
	assert.Equal(t, "meditation_data.csv", cfg.Data.File)
	assert.Equal(t, 2*time.Hour, cfg.Data.CacheMaxAge)
	assert.True(t, cfg.Data.FallbackEnabled)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "#3b82f6", cfg.Palette.Colour("Chi"))
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_URL", "https://example.com/data.csv")
	t.Setenv("CACHE_MAX_AGE_HOURS", "6")
	t.Setenv("FALLBACK_ENABLED", "false")
	t.Setenv("FALLBACK_SEED", "42")
	t.Setenv("OPEN_BROWSER", "true")
	t.Setenv("PALETTE_FILE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Server.OpenBrowser)
	assert.Equal(t, "https://example.com/data.csv", cfg.Data.URL)
	assert.Equal(t, 6*time.Hour, cfg.Data.CacheMaxAge)
	assert.False(t, cfg.Data.FallbackEnabled)
	assert.Equal(t, uint64(42), cfg.Data.FallbackSeed)
}

func TestFromEnvRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "http")
	t.Setenv("PALETTE_FILE", "")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
techniques:
  Chi: "#000000"
  Breathwork: "#123456"
default: "#ffffff"
`), 0644))

	p, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, "#000000", p.Colour("Chi"))
	assert.Equal(t, "#123456", p.Colour("Breathwork"))
	assert.Equal(t, "#ef4444", p.Colour("Metronomic"), "defaults survive")
	assert.Equal(t, "#ffffff", p.Colour("Unknown"))
}

func TestLoadPaletteErrors(t *testing.T) {
	_, err := LoadPalette(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("techniques: [not, a, map]"), 0644))
	_, err = LoadPalette(path)
	assert.Error(t, err)

	t.Setenv("PALETTE_FILE", path)
	t.Setenv("PORT", "8080")
	_, err = FromEnv()
	assert.Error(t, err)
}
