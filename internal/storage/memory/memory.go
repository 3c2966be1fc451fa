// Package memory provides an in-process storage backend.
// Used by tests and by the CLI when no database file is wanted.
package memory

import (
	"context"
	"sync"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
)

// Storage keeps all values in maps guarded by a mutex
type Storage struct {
	values     map[string][]byte
	timestamps map[string]int64
	session    *models.Session
	closed     bool
	mu         sync.RWMutex
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		values:     make(map[string][]byte),
		timestamps: make(map[string]int64),
	}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}
	// копия, чтобы вызывающий не мог изменить хранимое значение
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	delete(s.values, key)
	return nil
}

func (s *Storage) SaveTimestamp(ctx context.Context, key string, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	s.timestamps[key] = timestamp
	return nil
}

func (s *Storage) GetTimestamp(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, storage.ErrStorageClosed
	}
	return s.timestamps[key], nil
}

func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	cp := *session
	s.session = &cp
	return nil
}

func (s *Storage) GetSession(ctx context.Context) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if s.session == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *s.session
	return &cp, nil
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	s.session = nil
	return nil
}

// Close marks the storage closed. Subsequent calls fail with ErrStorageClosed
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
