// Package auth manages registered users, the active session and the
// role gate in front of every view.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/shopfront/internal/crypto"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

var (
	// ErrEmailTaken is returned when registering an email twice
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid Email & Password")

	// ErrUserNotFound is returned when no user has the requested id
	ErrUserNotFound = errors.New("user not found")
)

//go:generate moq -out service_mock.go . Authenticator

// Authenticator verifies credentials without touching the session
type Authenticator interface {
	Register(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// Service предоставляет функции регистрации и входа
type Service struct {
	json     *storage.JSON
	sessions storage.SessionStorage
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
}

var _ Authenticator = (*Service)(nil)

// NewService создает новый сервис авторизации
func NewService(js *storage.JSON, sessions storage.SessionStorage, logger *slog.Logger) *Service {
	return &Service{
		json:     js,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) users(ctx context.Context) []models.User {
	users := []models.User{}
	s.json.Read(ctx, storage.KeyUsers, &users)
	return users
}

// Register регистрирует нового пользователя
func (s *Service) Register(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	// Валидация входных данных
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if isAdmin {
		role = models.RoleAdmin
	}

	user := models.User{
		CreatedAt:    s.now(),
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users(ctx)
	if slices.ContainsFunc(users, func(u models.User) bool { return u.Email == email }) {
		return nil, ErrEmailTaken
	}

	if err := s.json.Write(ctx, storage.KeyUsers, append(users, user)); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(role)))
	return &user, nil
}

// Authenticate checks credentials and returns the matching user
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	for _, u := range s.users(ctx) {
		if u.Email != email {
			continue
		}
		if err := crypto.VerifyPassword(password, u.PasswordHash); err != nil {
			s.logger.WarnContext(ctx, "login failed: wrong password", slog.String("user_id", u.ID))
			return nil, ErrInvalidCredentials
		}
		return &u, nil
	}

	s.logger.WarnContext(ctx, "login failed: unknown email")
	return nil, ErrInvalidCredentials
}

// User returns a registered user by id
func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.users(ctx) {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrUserNotFound)
}

// Login выполняет аутентификацию и сохраняет сессию
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := SessionFor(user)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return session, nil
}

// Logout удаляет сохранённую сессию
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Current returns the active session, or an anonymous one when nobody is logged in
func (s *Service) Current(ctx context.Context) *models.Session {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.WarnContext(ctx, "failed to read session, treating as anonymous", slog.Any("error", err))
		}
		return &models.Session{}
	}
	return session
}

// SessionFor builds a logged-in session for user
func SessionFor(user *models.User) *models.Session {
	return &models.Session{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		IsLoggedIn: true,
	}
}
