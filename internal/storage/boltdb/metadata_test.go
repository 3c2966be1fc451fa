package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/shopfront/internal/storage"
)

func TestSaveAndGetTimestamp(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Изначально, если timestamp не сохранён ожидаем 0
	ts, err := store.GetTimestamp(ctx, storage.KeyAdminProductsUpdated)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)

	var expectedTS int64 = 1700000000123
	require.NoError(t, store.SaveTimestamp(ctx, storage.KeyAdminProductsUpdated, expectedTS))

	gotTS, err := store.GetTimestamp(ctx, storage.KeyAdminProductsUpdated)
	require.NoError(t, err)
	assert.Equal(t, expectedTS, gotTS)

	// Разные ключи независимы
	other, err := store.GetTimestamp(ctx, storage.KeyProductsUpdated)
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestGetTimestamp_MalformedValue(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte("short"), []byte{1, 2})
	})
	require.NoError(t, err)

	ts, err := store.GetTimestamp(ctx, "short")
	require.NoError(t, err)
	assert.Zero(t, ts)
}
