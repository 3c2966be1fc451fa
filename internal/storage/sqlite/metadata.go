package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveTimestamp saves a timestamp marker under key
func (s *Storage) SaveTimestamp(ctx context.Context, key string, timestamp int64) error {
	query := `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, timestamp); err != nil {
		return fmt.Errorf("failed to save timestamp %s: %w", key, err)
	}
	return nil
}

// GetTimestamp retrieves the timestamp stored under key, 0 if absent
func (s *Storage) GetTimestamp(ctx context.Context, key string) (int64, error) {
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get timestamp %s: %w", key, err)
	}
	return ts, nil
}
