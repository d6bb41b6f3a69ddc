package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "oauth.db", cfg.Storage.DatabaseFile)
	require.Equal(t, 5*time.Second, cfg.Storage.Timeout)
	require.Equal(t, time.Hour, cfg.Tokens.AccessTTL)
	require.Equal(t, 30*24*time.Hour, cfg.Tokens.RefreshTTL)
	require.Equal(t, 5*time.Minute, cfg.Tokens.CodeTTL)
	require.True(t, cfg.Tokens.RotateRefreshTokens)
	require.True(t, cfg.Tokens.PasswordGrant)
	require.False(t, cfg.Redis.Enabled)
	require.Empty(t, cfg.AdminToken)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "9090")
	t.Setenv("OAUTH_STORAGE_DRIVER", "postgres")
	t.Setenv("OAUTH_POSTGRES_DSN", "postgres://oauth@localhost/oauth")
	t.Setenv("OAUTH_ACCESS_TTL", "15m")
	t.Setenv("OAUTH_REFRESH_TTL", "0s")
	t.Setenv("OAUTH_ROTATE_REFRESH_TOKENS", "false")
	t.Setenv("OAUTH_REDIS_ENABLED", "true")
	t.Setenv("OAUTH_ADMIN_TOKEN", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, 15*time.Minute, cfg.Tokens.AccessTTL)
	require.Zero(t, cfg.Tokens.RefreshTTL)
	require.False(t, cfg.Tokens.RotateRefreshTokens)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "secret", cfg.AdminToken)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7070
storage:
  driver: memory
tokens:
  code_ttl: 2m
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OAUTH_ADMIN_TOKEN", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, 2*time.Minute, cfg.Tokens.CodeTTL)
	require.Equal(t, time.Hour, cfg.Tokens.AccessTTL)
	require.Equal(t, "from-env", cfg.AdminToken)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:    8080,
			Storage: StorageConfig{Driver: DriverMemory, Timeout: time.Second},
			Tokens:  TokenConfig{AccessTTL: time.Hour, CodeTTL: time.Minute},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"sqlite without file", func(c *Config) { c.Storage.Driver = DriverSQLite }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"zero access ttl", func(c *Config) { c.Tokens.AccessTTL = 0 }},
		{"negative refresh ttl", func(c *Config) { c.Tokens.RefreshTTL = -time.Second }},
		{"zero code ttl", func(c *Config) { c.Tokens.CodeTTL = 0 }},
		{"zero storage timeout", func(c *Config) { c.Storage.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
