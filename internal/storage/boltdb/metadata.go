package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/shopfront/internal/storage"
)

// SaveTimestamp saves a timestamp marker under key
func (s *Storage) SaveTimestamp(ctx context.Context, key string, timestamp int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Конвертируем int64 в bytes
		timestampBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

		if err := bucket.Put([]byte(key), timestampBytes); err != nil {
			return fmt.Errorf("failed to save timestamp %s: %w", key, err)
		}

		return nil
	})
}

// GetTimestamp retrieves the timestamp stored under key
// Returns 0 if it was never saved
func (s *Storage) GetTimestamp(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		timestampBytes := bucket.Get([]byte(key))
		if len(timestampBytes) != 8 {
			// Маркер ещё не записан
			timestamp = 0
			return nil
		}

		timestamp = int64(binary.BigEndian.Uint64(timestampBytes))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get timestamp %s: %w", key, err)
	}

	return timestamp, nil
}
