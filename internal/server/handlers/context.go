package handlers

import (
	"context"

	"github.com/iudanet/shopfront/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// SessionKey ключ для хранения сессии из access token
	SessionKey contextKey = "session"
)

// WithSession кладёт сессию в контекст запроса
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession извлекает сессию из контекста
func GetSession(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*models.Session)
	return session, ok && session != nil
}

// GetUserID извлекает user_id из контекста
func GetUserID(ctx context.Context) (string, bool) {
	session, ok := GetSession(ctx)
	if !ok {
		return "", false
	}
	return session.UserID, session.UserID != ""
}
