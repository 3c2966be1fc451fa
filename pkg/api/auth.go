package api

import "github.com/iudanet/shopfront/internal/models"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"` // флажок "администратор" формы регистрации
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	UserID  string `json:"user_id"` // UUID пользователя
	Message string `json:"message"` // сообщение об успешной регистрации
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	Session     *models.Session `json:"session"`
	AccessToken string          `json:"access_token"` // JWT access token
	ExpiresIn   int64           `json:"expires_in"`   // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error    string `json:"error"`              // описание ошибки
	Message  string `json:"message,omitempty"`  // сообщение для пользователя
	Redirect string `json:"redirect,omitempty"` // маршрут, куда отправить пользователя
}
