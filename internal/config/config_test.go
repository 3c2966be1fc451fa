package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"SHOP_ENV", "SHOP_LOG_LEVEL", "SHOP_DB_DRIVER", "SHOP_DB_PATH", "SHOP_FEED_URL",
	"SHOP_FEED_CACHE", "SHOP_REDIS_ADDR", "SHOP_POLL_INTERVAL", "SHOP_HTTP_ADDR",
	"SHOP_JWT_SECRET", "SHOP_TOKEN_TTL",
}

// clearEnv снимает переменные на время теста и восстанавливает их после
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverBolt, cfg.DBDriver)
	assert.Equal(t, "shopfront.db", cfg.DBPath)
	assert.Equal(t, "https://fakestoreapi.com", cfg.FeedURL)
	assert.Equal(t, FeedCacheStore, cfg.FeedCache)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOP_ENV", "prod")
	t.Setenv("SHOP_DB_DRIVER", "SQLite")
	t.Setenv("SHOP_POLL_INTERVAL", "250ms")
	t.Setenv("SHOP_FEED_CACHE", "redis")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, FeedCacheRedis, cfg.FeedCache)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOP_DB_PATH", "from-env.db")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SHOP_HTTP_ADDR=127.0.0.1:9999\nSHOP_DB_PATH=from-file.db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "from-env.db", cfg.DBPath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "driver", key: "SHOP_DB_DRIVER", value: "mongo"},
		{name: "feed cache", key: "SHOP_FEED_CACHE", value: "memcached"},
		{name: "poll interval", key: "SHOP_POLL_INTERVAL", value: "soon"},
		{name: "negative poll interval", key: "SHOP_POLL_INTERVAL", value: "-1s"},
		{name: "token ttl", key: "SHOP_TOKEN_TTL", value: "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(missingFile(t))
			assert.Error(t, err)
		})
	}
}
