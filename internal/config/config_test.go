package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.InDelta(t, 0.85, cfg.Dedup.FuzzyThreshold, 0.001)
	assert.True(t, cfg.Dedup.PreferPlaceID)
	assert.Equal(t, "merge", cfg.Dedup.OnDuplicate)
	assert.True(t, cfg.Quality.Enabled)
	assert.True(t, cfg.Quality.RequireSocial)
	assert.Equal(t, 10, cfg.Enrich.TimeoutSecs)
	assert.Equal(t, 5, cfg.Enrich.Concurrency)
	assert.InDelta(t, 2.0, cfg.Enrich.RequestsPerSec, 0.001)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Nominatim.BaseURL)
	assert.Equal(t, []string{"csv", "json", "sqlite"}, cfg.Export.Formats)
	assert.Equal(t, ",", cfg.Export.CSVDelimiter)
	assert.Equal(t, "utf-8", cfg.Export.CSVEncoding)
	assert.Equal(t, "leads", cfg.Export.SQLiteTable)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
dedup:
  fuzzy_threshold: 0.9
  prefer_place_id: false
  on_duplicate: drop
quality:
  require_social: false
  keywords:
    - popup
export:
  formats:
    - json
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Dedup.FuzzyThreshold, 0.001)
	assert.False(t, cfg.Dedup.PreferPlaceID)
	assert.Equal(t, "drop", cfg.Dedup.OnDuplicate)
	assert.False(t, cfg.Quality.RequireSocial)
	assert.Equal(t, []string{"popup"}, cfg.Quality.Keywords)
	assert.Equal(t, []string{"json"}, cfg.Export.Formats)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
}
