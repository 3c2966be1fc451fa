package storage

import (
	"context"

	"github.com/iudanet/shopfront/internal/models"
)

// Ключи, под которыми хранятся списки и маркеры синхронизации
const (
	KeyBrands      = "brand"
	KeyPartners    = "partners"
	KeyCollections = "collection"
	KeyProducts    = "products"
	KeyOrders      = "orders"
	KeyUsers       = "data"
	KeyFeedCache   = "feedProducts"

	// KeyAdminProductsUpdated и KeyProductsUpdated штампуются при каждом изменении товаров
	KeyAdminProductsUpdated = "adminProductsUpdated"
	KeyProductsUpdated      = "productsLastUpdated"
)

// CartKey returns the key of a user's cart.
func CartKey(userID string) string {
	return "cart:" + userID
}

//go:generate moq -out store_mock.go . Store

// Store defines a flat key-value store holding JSON documents
type Store interface {
	// Get returns the raw value or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing sync markers
type MetadataStorage interface {
	// SaveTimestamp saves a unix-millisecond timestamp under key
	SaveTimestamp(ctx context.Context, key string, timestamp int64) error

	// GetTimestamp retrieves the timestamp stored under key
	// Returns 0 if nothing was stored yet
	GetTimestamp(ctx context.Context, key string) (int64, error)
}

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage defines interface for the active session record
type SessionStorage interface {
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSession returns ErrSessionNotFound when nobody is logged in
	GetSession(ctx context.Context) (*models.Session, error)

	DeleteSession(ctx context.Context) error
}

// Backend объединяет все интерфейсы, которые реализует каждый драйвер хранилища
type Backend interface {
	Store
	MetadataStorage
	SessionStorage
	Close() error
}
