package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DASHBOARD_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, 10, cfg.Table.DefaultPageSize)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, 8*time.Hour, cfg.Session.TTL())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "9090"
store:
  driver: sqlite
  sqlite_path: /tmp/tickets.db
table:
  default_page_size: 20
  locale: en
`), 0o600))
	t.Setenv("DASHBOARD_CONFIG_PATH", path)
	t.Setenv("TABLE_DEFAULT_PAGE_SIZE", "15")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, DriverSQLite, cfg.Store.Driver)
	require.Equal(t, "/tmp/tickets.db", cfg.Store.SQLitePath)
	require.Equal(t, "en", cfg.Table.Locale)
	require.Equal(t, 15, cfg.Table.DefaultPageSize)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DASHBOARD_CONFIG_PATH", "")
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "")
	t.Setenv("REDIS_DB", "zero")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "")
	t.Setenv("DASHBOARD_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	require.Error(t, err)
}
