package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", MapLookup(nil))
	require.NoError(t, err)

	require.Equal(t, 3001, cfg.Server.Port)
	require.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	require.False(t, cfg.Cache.Enabled())
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, "wms3", cfg.Database.Database)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  read_timeout: 5s
cache:
  addr: redis:6379
  ttl: 30s
log:
  format: json
`), 0o600))

	cfg, err := Load(path, MapLookup(map[string]string{
		"PORT":         "9000",
		"REDIS_DB":     "2",
		"SQL_DATABASE": "wms_test",
	}))
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "redis:6379", cfg.Cache.Addr)
	require.Equal(t, 2, cfg.Cache.DB)
	require.True(t, cfg.Cache.Enabled())
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "wms_test", cfg.Database.Database)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), MapLookup(nil))
	require.Error(t, err)

	_, err = Load("", MapLookup(map[string]string{"PORT": "http"}))
	require.ErrorContains(t, err, "PORT")

	_, err = Load("", MapLookup(map[string]string{"SUMMARY_CACHE_TTL": "soon"}))
	require.ErrorContains(t, err, "SUMMARY_CACHE_TTL")

	_, err = Load("", MapLookup(map[string]string{"LOG_FORMAT": "xml"}))
	require.ErrorContains(t, err, "log.format")

	_, err = Load("", MapLookup(map[string]string{"PORT": "70000"}))
	require.ErrorContains(t, err, "out of range")
}
