package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/server/handlers"
	"github.com/iudanet/shopfront/internal/server/jwt"
	"github.com/iudanet/shopfront/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userSession(role models.Role) *models.Session {
	return &models.Session{
		UserID:     "user123",
		Name:       "Jane",
		Email:      "jane@example.com",
		Role:       role,
		IsLoggedIn: true,
	}
}

func decodeError(t *testing.T, body io.Reader) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	token, _, err := tokens.Generate(userSession(models.RoleUser))
	require.NoError(t, err)

	var got *models.Session
	handler := AuthMiddleware(setupTestLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = handlers.GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, userSession(models.RoleUser), got)
}

func TestAuthMiddleware_NoHeaderIsAnonymous(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)

	called := false
	handler := AuthMiddleware(setupTestLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := handlers.GetSession(r.Context())
		assert.False(t, ok)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.True(t, called)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	foreign, _, err := jwt.NewService("other-secret", 15*time.Minute).Generate(userSession(models.RoleUser))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "no Bearer prefix", header: "token123", message: "invalid token format"},
		{name: "wrong scheme", header: "Basic token123", message: "invalid token format"},
		{name: "only Bearer", header: "Bearer", message: "invalid token format"},
		{name: "malformed token", header: "Bearer invalid.token.here", message: "invalid token"},
		{name: "wrong secret", header: "Bearer " + foreign, message: "invalid token"},
	}

	handler := AuthMiddleware(setupTestLogger(), tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeError(t, w.Body)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, auth.RouteLogin, resp.Redirect)
		})
	}
}

func TestRequireRoute(t *testing.T) {
	tests := []struct {
		session      *models.Session
		name         string
		route        string
		wantRedirect string
		wantStatus   int
	}{
		{
			name:       "admin opens admin route",
			session:    userSession(models.RoleAdmin),
			route:      auth.RouteProducts,
			wantStatus: http.StatusOK,
		},
		{
			name:         "anonymous on admin route",
			route:        auth.RouteProducts,
			wantStatus:   http.StatusUnauthorized,
			wantRedirect: auth.RouteLogin,
		},
		{
			name:         "user on admin route",
			session:      userSession(models.RoleUser),
			route:        auth.RouteBrand,
			wantStatus:   http.StatusForbidden,
			wantRedirect: auth.RouteDashboard,
		},
		{
			name:         "admin on user route",
			session:      userSession(models.RoleAdmin),
			route:        auth.RouteCart,
			wantStatus:   http.StatusForbidden,
			wantRedirect: auth.RouteAdminDashboard,
		},
		{
			name:       "user opens cart",
			session:    userSession(models.RoleUser),
			route:      auth.RouteCart,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRoute(setupTestLogger(), tt.route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.session != nil {
				req = req.WithContext(handlers.WithSession(req.Context(), tt.session))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantRedirect, decodeError(t, w.Body).Redirect)
			}
		})
	}
}
