package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8989, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Database.Mode)
	assert.Equal(t, "./data/ngfw-panel.db", cfg.Database.Local.Path)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Demo.Retention.Std())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9100
database:
  mode: cloud
  cloud:
    dsn: user:pass@tcp(db:3306)/
    name: panel
demo:
  enabled: false
  retention: 1h
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "cloud", cfg.Database.Mode)
	assert.Equal(t, "panel", cfg.Database.Cloud.Name)
	assert.False(t, cfg.Demo.Enabled)
	assert.Equal(t, time.Hour, cfg.Demo.Retention.Std())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644))

	t.Setenv("NGFW_PANEL_PORT", "9200")
	t.Setenv("NGFW_PANEL_DB_MODE", "cloud")
	t.Setenv("NGFW_PANEL_DB_DSN", "u:p@tcp(host:3306)/")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "cloud", cfg.Database.Mode)
	assert.Equal(t, "u:p@tcp(host:3306)/", cfg.Database.Cloud.DSN)
}

func TestBadPortEnvIgnored(t *testing.T) {
	t.Setenv("NGFW_PANEL_PORT", "not-a-port")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8989, cfg.Server.Port)
}
