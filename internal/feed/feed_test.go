package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const feedBody = `[
 {"id":1,"title":"Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
 {"id":2,"title":"T-Shirt","price":22.3,"description":"Slim fit","category":"men's clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func TestClient_FetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", discardLogger())
	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "feed-1", p.ID)
	assert.Equal(t, "Backpack", p.Name)
	assert.Equal(t, 109.95, p.Price)
	assert.Equal(t, models.Rating{Rate: 3.9, Count: 120}, p.Rating)
	assert.False(t, p.IsLocalProduct)
	assert.True(t, IsFeedID(p.ID))
}

func TestClient_FetchProducts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrUnexpectedStatus},
		{name: "not found", status: http.StatusNotFound, body: "", wantErr: ErrUnexpectedStatus},
		{name: "bad json", status: http.StatusOK, body: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, discardLogger()).FetchProducts(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_FetchProducts_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL, discardLogger()).FetchProducts(ctx)
	assert.Error(t, err)
}

func TestStoreCache(t *testing.T) {
	ctx := context.Background()
	cache := NewStoreCache(storage.NewJSON(memory.New(), discardLogger()))

	_, err := cache.Load(ctx)
	assert.ErrorIs(t, err, ErrCacheEmpty)

	products := []models.Product{{ID: "feed-1", Name: "Backpack", Price: 10}}
	require.NoError(t, cache.Save(ctx, products))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, loaded)
}

func TestRedisCache_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	cache := NewRedisCache(rdb, time.Minute)
	ctx := context.Background()

	assert.Error(t, cache.Save(ctx, []models.Product{{ID: "feed-1"}}))
	_, err := cache.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheEmpty)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("SHOP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOP_TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()

	cache := NewRedisCache(rdb, time.Minute)
	ctx := context.Background()
	require.NoError(t, rdb.Del(ctx, cache.key).Err())

	_, err := cache.Load(ctx)
	assert.ErrorIs(t, err, ErrCacheEmpty)

	products := []models.Product{{ID: "feed-7", Name: "Ring", Price: 9.99}}
	require.NoError(t, cache.Save(ctx, products))

	loaded, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, loaded)
}
