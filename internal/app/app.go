// Package app wires storage, services and the feed into one process.
// Both the CLI and the storefront host are built on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/config"
	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/feed"
	"github.com/iudanet/shopfront/internal/productsync"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/boltdb"
	"github.com/iudanet/shopfront/internal/storage/sqlite"
)

const (
	redisPingTimeout = 2 * time.Second
	redisFeedTTL     = 24 * time.Hour
)

// App holds the services of one process
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Backend storage.Backend
	JSON    *storage.JSON
	Bus     *event.Bus
	Auth    *auth.Service
	Catalog *catalog.Service
	Cart    *cart.Service
	Sync    productsync.Service

	redis *redis.Client
}

// OpenBackend opens the store selected by driver
func OpenBackend(ctx context.Context, driver, path string) (storage.Backend, error) {
	switch driver {
	case config.DriverBolt:
		return boltdb.New(ctx, path)
	case config.DriverSQLite:
		return sqlite.New(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// New opens the store and builds every service.
// opts are passed to the product sync service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...productsync.Option) (*App, error) {
	backend, err := OpenBackend(ctx, cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.DBDriver, err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		JSON:    storage.NewJSON(backend, logger),
		Bus:     event.NewBus(logger),
	}

	a.Auth = auth.NewService(a.JSON, backend, logger)
	a.Catalog = catalog.NewService(a.JSON, backend, a.Bus, logger)
	a.Cart = cart.NewService(a.JSON, a.Bus, logger)

	cache := a.feedCache(ctx)
	source := feed.NewClient(cfg.FeedURL, logger)
	a.Sync = productsync.NewService(source, cache, a.JSON, backend, a.Bus, logger, opts...)

	return a, nil
}

// feedCache returns the redis cache when configured and reachable,
// the store-backed cache otherwise
func (a *App) feedCache(ctx context.Context) feed.Cache {
	storeCache := feed.NewStoreCache(a.JSON)
	if a.Config.FeedCache != config.FeedCacheRedis {
		return storeCache
	}

	rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		a.Logger.WarnContext(ctx, "redis unavailable, feed cache falls back to the local store",
			slog.String("addr", a.Config.RedisAddr),
			slog.Any("error", err))
		_ = rdb.Close()
		return storeCache
	}

	a.redis = rdb
	a.Logger.InfoContext(ctx, "feed cache uses redis", slog.String("addr", a.Config.RedisAddr))
	return feed.NewRedisCache(rdb, redisFeedTTL)
}

// Close releases the store and the redis connection
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if err := a.Backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}
