package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/pkg/api"
)

//go:generate moq -out auth_mock.go . TokenIssuer

// TokenIssuer выпускает access token для сессии
type TokenIssuer interface {
	Generate(session *models.Session) (string, int64, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	users  auth.Authenticator
	tokens TokenIssuer
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users auth.Authenticator, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(ctx, req.Name, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to register user", err)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))

	resp := api.RegisterResponse{
		UserID:  user.ID,
		Message: "User registered successfully",
	}

	sendJSON(w, h.logger, resp, http.StatusCreated)
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		sendServiceError(w, r, h.logger, "login failed", err)
		return
	}

	session := auth.SessionFor(user)
	token, expiresIn, err := h.tokens.Generate(session)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("user_id", user.ID))

	resp := api.TokenResponse{
		Session:     session,
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/auth/logout.
// Токены не хранятся на сервере, клиент просто забывает свой.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userID, ok := GetUserID(r.Context()); ok {
		h.logger.InfoContext(r.Context(), "user logged out", slog.String("user_id", userID))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me обрабатывает GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		session = &models.Session{}
	}
	sendJSON(w, h.logger, session, http.StatusOK)
}

// Gate обрабатывает GET /api/v1/auth/gate?route=/cart и сообщает,
// можно ли открыть маршрут и куда перенаправить иначе
func (h *AuthHandler) Gate(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	if route == "" {
		sendError(w, h.logger, "route is required", http.StatusBadRequest)
		return
	}

	session, _ := GetSession(r.Context())
	sendJSON(w, h.logger, auth.Decide(session, route), http.StatusOK)
}
