// Package config loads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv          = "local"
	defaultLogLevel     = "info"
	defaultDBDriver     = "bolt"
	defaultDBPath       = "shopfront.db"
	defaultFeedURL      = "https://fakestoreapi.com"
	defaultFeedCache    = "store"
	defaultRedisAddr    = "localhost:6379"
	defaultPollInterval = time.Second
	defaultHTTPAddr     = "127.0.0.1:8080"
	defaultJWTSecret    = "change-me-in-production"
	defaultTokenTTL     = 24 * time.Hour
)

// Драйверы хранилища и кэша каталога
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"

	FeedCacheStore = "store"
	FeedCacheRedis = "redis"
)

// Config содержит настройки приложения
type Config struct {
	Env          string
	LogLevel     string
	DBDriver     string
	DBPath       string
	FeedURL      string
	FeedCache    string
	RedisAddr    string
	HTTPAddr     string
	JWTSecret    string
	PollInterval time.Duration
	TokenTTL     time.Duration
}

// Load reads .env (when present) and the SHOP_* environment variables.
// Variables already set in the environment take precedence over .env.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Env:       get("SHOP_ENV", defaultEnv),
		LogLevel:  get("SHOP_LOG_LEVEL", defaultLogLevel),
		DBDriver:  strings.ToLower(get("SHOP_DB_DRIVER", defaultDBDriver)),
		DBPath:    get("SHOP_DB_PATH", defaultDBPath),
		FeedURL:   get("SHOP_FEED_URL", defaultFeedURL),
		FeedCache: strings.ToLower(get("SHOP_FEED_CACHE", defaultFeedCache)),
		RedisAddr: get("SHOP_REDIS_ADDR", defaultRedisAddr),
		HTTPAddr:  get("SHOP_HTTP_ADDR", defaultHTTPAddr),
		JWTSecret: get("SHOP_JWT_SECRET", defaultJWTSecret),
	}

	var err error
	if cfg.PollInterval, err = duration("SHOP_POLL_INTERVAL", defaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = duration("SHOP_TOKEN_TTL", defaultTokenTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}

	switch c.FeedCache {
	case FeedCacheStore, FeedCacheRedis:
	default:
		return fmt.Errorf("unsupported feed cache %q", c.FeedCache)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}

// IsProduction reports whether the app runs in a production environment
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "production", "prod":
		return true
	}
	return false
}

func get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
