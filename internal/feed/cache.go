package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
)

// ErrCacheEmpty is returned when no successful fetch has been cached yet
var ErrCacheEmpty = errors.New("feed cache is empty")

//go:generate moq -out cache_mock.go . Cache

// Cache keeps the last successfully fetched feed
type Cache interface {
	Save(ctx context.Context, products []models.Product) error
	Load(ctx context.Context) ([]models.Product, error)
}

// StoreCache keeps the feed in the local key-value store
type StoreCache struct {
	json *storage.JSON
}

// NewStoreCache creates a cache under storage.KeyFeedCache
func NewStoreCache(js *storage.JSON) *StoreCache {
	return &StoreCache{json: js}
}

func (c *StoreCache) Save(ctx context.Context, products []models.Product) error {
	return c.json.Write(ctx, storage.KeyFeedCache, products)
}

func (c *StoreCache) Load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if !c.json.Read(ctx, storage.KeyFeedCache, &products) {
		return nil, ErrCacheEmpty
	}
	return products, nil
}

// RedisCache keeps the feed in redis so several hosts share one copy
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisCache creates a redis-backed cache. ttl 0 keeps the value forever.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, key: "shopfront:" + storage.KeyFeedCache, ttl: ttl}
}

func (c *RedisCache) Save(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}

	if err := c.rdb.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save feed to redis: %w", err)
	}
	return nil
}

func (c *RedisCache) Load(ctx context.Context) ([]models.Product, error) {
	val, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheEmpty
		}
		return nil, fmt.Errorf("failed to load feed from redis: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, fmt.Errorf("failed to decode cached feed: %w", err)
	}
	return products, nil
}
