package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  app_env: dev\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Cache.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.PermTTL())
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout())
}

func TestLoadYAMLValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  addr: ":9090"
  read_timeout: 5s
storage:
  driver: postgres
  dsn: "postgres://localhost/aegis"
cache:
  kind: redis
  perm_ttl: 1m
  redis:
    host: redis.local
    port: 6380
log:
  level: warn
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "redis", cfg.Cache.Kind)
	assert.Equal(t, "redis.local", cfg.Cache.Redis.Host)
	assert.Equal(t, 6380, cfg.Cache.Redis.Port)
	assert.Equal(t, time.Minute, cfg.PermTTL())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_DSN", "postgres://env/aegis")
	t.Setenv("CACHE_PERM_TTL", "45s")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "ERROR")

	cfg, err := Load(writeConfig(t, "storage:\n  driver: memory\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://env/aegis", cfg.Storage.DSN)
	assert.Equal(t, 45*time.Second, cfg.PermTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"postgres sin dsn", "storage:\n  driver: postgres\n"},
		{"driver desconocido", "storage:\n  driver: mongo\n"},
		{"cache desconocido", "cache:\n  kind: memcached\n"},
		{"ttl inválido", "cache:\n  perm_ttl: pronto\n"},
		{"notify sin host", "notify:\n  enabled: true\n"},
		{"prod sin jwt secret", "app:\n  app_env: prod\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestProdWithSecretIsValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  app_env: prod\nauth:\n  jwt_secret: shhh\n"))
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
