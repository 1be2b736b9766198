package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "2020-01-01", cfg.Window.Start)
	assert.Equal(t, "2024-01-01", cfg.Window.End)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "^GSPC", cfg.DataSource.IndexSymbol)
	assert.Equal(t, "^VIX", cfg.DataSource.VIXSymbol)
	assert.Equal(t, "SP500_Data", cfg.Output.Dir)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "fixed", cfg.Pacing.Strategy)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.Interval)
	assert.Equal(t, 1, cfg.Pacing.Burst)
	assert.Empty(t, cfg.Schedule.Cron)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  start: "2022-01-01"
  end: "2023-01-01"
output:
  format: parquet
pacing:
  strategy: token_bucket
  interval: 250ms
  burst: 5
log:
  level: debug
`), 0644))

	t.Setenv("HARVEST_OUTPUT_DIR", "/tmp/harvest")
	t.Setenv("HARVEST_PACING_INTERVAL", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "2022-01-01", cfg.Window.Start)
	assert.Equal(t, "parquet", cfg.Output.Format)
	assert.Equal(t, "/tmp/harvest", cfg.Output.Dir)
	assert.Equal(t, "token_bucket", cfg.Pacing.Strategy)
	assert.Equal(t, 2*time.Second, cfg.Pacing.Interval)
	assert.Equal(t, 5, cfg.Pacing.Burst)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())

	w, err := cfg.ParseWindow()
	require.NoError(t, err)
	assert.Equal(t, 2022, w.Start.Year())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"polygon without key", func(c *Config) { c.DataSource.Provider = "polygon" }},
		{"sqlite without path", func(c *Config) { c.Output.Format = "sqlite" }},
		{"bad date", func(c *Config) { c.Window.Start = "2020/01/01" }},
		{"start after end", func(c *Config) { c.Window.Start = "2025-01-01" }},
		{"unknown pacing", func(c *Config) { c.Pacing.Strategy = "backoff" }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.DataSource.Provider = "polygon"
	cfg.DataSource.APIKey = "key"
	cfg.Output.Format = "sqlite"
	cfg.Output.SQLitePath = "data/harvest.db"
	assert.NoError(t, cfg.Validate())
}
