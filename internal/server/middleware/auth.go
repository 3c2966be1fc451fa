package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/server/handlers"
	"github.com/iudanet/shopfront/internal/server/jwt"
)

//go:generate moq -out auth_mock.go . TokenValidator

// TokenValidator проверяет access token
type TokenValidator interface {
	Validate(token string) (*jwt.CustomClaims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Запрос без заголовка Authorization проходит анонимно, решение о доступе
// принимает RequireRoute. Неверный токен отклоняется сразу.
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.WarnContext(r.Context(), "Invalid Authorization header format")
				writeError(w, http.StatusUnauthorized, "invalid token format", auth.RouteLogin)
				return
			}

			claims, err := tokens.Validate(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "Invalid access token", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "invalid token", auth.RouteLogin)
				return
			}

			logger.DebugContext(r.Context(), "User authenticated",
				slog.String("user_id", claims.UserID),
				slog.String("role", string(claims.Role)))

			ctx := handlers.WithSession(r.Context(), claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoute пропускает запрос, только если сессия может открыть route.
// Анонимный пользователь получает 401, чужая роль 403; в обоих случаях
// Redirect указывает домашний маршрут сессии.
func RequireRoute(logger *slog.Logger, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := handlers.GetSession(r.Context())

			decision := auth.Decide(session, route)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			status := http.StatusForbidden
			message := "access denied"
			if session == nil || !session.IsLoggedIn {
				status = http.StatusUnauthorized
				message = "authentication required"
			}

			logger.WarnContext(r.Context(), "Route access denied",
				slog.String("route", route),
				slog.String("path", r.URL.Path),
				slog.String("redirect", decision.Redirect))

			writeError(w, status, message, decision.Redirect)
		})
	}
}
