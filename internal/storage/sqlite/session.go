package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
)

// SaveSession stores the active session (single row)
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO session (id, user_id, name, email, role, is_logged_in)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			is_logged_in = excluded.is_logged_in
	`
	_, err := s.db.ExecContext(ctx, query,
		session.UserID,
		session.Name,
		session.Email,
		string(session.Role),
		session.IsLoggedIn,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves the active session
func (s *Storage) GetSession(ctx context.Context) (*models.Session, error) {
	query := `SELECT user_id, name, email, role, is_logged_in FROM session WHERE id = 1`

	session := &models.Session{}
	var role string
	err := s.db.QueryRowContext(ctx, query).Scan(
		&session.UserID,
		&session.Name,
		&session.Email,
		&role,
		&session.IsLoggedIn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Role = models.Role(role)

	return session, nil
}

// DeleteSession removes the active session
func (s *Storage) DeleteSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
