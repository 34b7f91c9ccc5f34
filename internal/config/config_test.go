package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "melodiq.db", cfg.DBPath)
	require.Equal(t, StoreSQLite, cfg.SessionStore)
	require.Equal(t, 5, cfg.TasksPerLevel)
	require.Equal(t, 10, cfg.MaxLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MELODIQ_PORT", "9000")
	t.Setenv("MELODIQ_SESSION_STORE", "redis")
	t.Setenv("MELODIQ_REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, StoreRedis, cfg.SessionStore)
	require.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `host: 127.0.0.1
port: 7070
db_path: /tmp/game.db
max_level: 12
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("MELODIQ_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, "/tmp/game.db", cfg.DBPath)
	require.Equal(t, 12, cfg.MaxLevel)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\n"), 0o644))
	t.Setenv("MELODIQ_CONFIG_PATH", path)
	t.Setenv("MELODIQ_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
}

func TestLoad_InvalidStore(t *testing.T) {
	t.Setenv("MELODIQ_SESSION_STORE", "memcached")
	_, err := Load()
	require.Error(t, err)
}
