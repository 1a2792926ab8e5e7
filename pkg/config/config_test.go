package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/pkg/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Redis.Addr)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: db.internal
  port: 6432
  user: blog
  dbname: blog
  sslmode: require
redis:
  addr: cache.internal:6379
  db: 2
log:
  level: debug
seed:
  users: 3
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 6432, cfg.Database.Port)
	require.Equal(t, "require", cfg.Database.SSLMode)
	require.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	require.Equal(t, 2, cfg.Redis.DB)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 3, cfg.Seed.Users)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n"), 0o644))

	t.Setenv("INKWELL_DB_HOST", "from-env")
	t.Setenv("INKWELL_DB_PORT", "7777")
	t.Setenv("INKWELL_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Database.Host)
	require.Equal(t, 7777, cfg.Database.Port)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestMalformedEnvIntIsIgnored(t *testing.T) {
	t.Setenv("INKWELL_DB_PORT", "not-a-number")
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 5432, cfg.Database.Port)
}

func TestValidateRejectsBrokenConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Host = ""
	require.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Database.Port = 0
	require.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Database.DBName = ""
	require.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Password = "hunter2"
	require.Equal(t,
		"host=localhost port=5432 user=inkwell password=hunter2 dbname=inkwell sslmode=disable",
		cfg.Database.DSN())
}
