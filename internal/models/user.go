package models

import "time"

// Role определяет роль пользователя
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User представляет зарегистрированного пользователя
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`           // UUID пользователя
	Name         string    `json:"name"`         // имя
	Email        string    `json:"email"`        // уникальный email
	PasswordHash string    `json:"passwordHash"` // argon2id хеш пароля
	Role         Role      `json:"role"`
}

// Session представляет активную сессию ("userAuth")
type Session struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// IsAdmin reports whether the session belongs to an authenticated admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.IsLoggedIn && s.Role == RoleAdmin
}
