package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/server/jwt"
	"github.com/iudanet/shopfront/internal/server/metrics"
	"github.com/iudanet/shopfront/internal/server/middleware"
	"github.com/iudanet/shopfront/internal/server/ws"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/memory"
	"github.com/iudanet/shopfront/pkg/api"
)

type staticStorefront struct {
	products []models.Product
}

func (s staticStorefront) Snapshot() []models.Product { return s.products }

func (s staticStorefront) Product(id string) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	js := storage.NewJSON(store, logger)
	bus := event.NewBus(logger)
	m := metrics.New()

	limiter := middleware.NewRateLimiter(100, time.Minute, logger)
	t.Cleanup(limiter.Stop)

	router := NewRouter(Deps{
		Logger:      logger,
		Users:       auth.NewService(js, store, logger),
		Tokens:      jwt.NewService("test-secret", time.Hour),
		Catalog:     catalog.NewService(js, store, bus, logger),
		Cart:        cart.NewService(js, bus, logger),
		Storefront:  staticStorefront{products: []models.Product{{ID: "1", Name: "Backpack", Price: 10}}},
		Hub:         ws.NewHub(logger, m.WSClients),
		Metrics:     m,
		AuthLimiter: limiter,
	})
	return router, m
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, h http.Handler, name, email string, isAdmin bool) string {
	t.Helper()

	w := call(t, h, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Name: name, Email: email, Password: "secret", IsAdmin: isAdmin,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(t, h, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{Email: email, Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.AccessToken
}

func redirectOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Redirect
}

func TestRouter_RoleGate(t *testing.T) {
	r, _ := newTestRouter(t)

	userToken := signup(t, r, "Jane", "jane@example.com", false)
	adminToken := signup(t, r, "Root", "root@example.com", true)

	w := call(t, r, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, auth.RouteLogin, redirectOf(t, w))

	w = call(t, r, http.MethodGet, "/api/v1/admin/brands", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.RouteDashboard, redirectOf(t, w))

	w = call(t, r, http.MethodGet, "/api/v1/products", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.RouteAdminDashboard, redirectOf(t, w))

	w = call(t, r, http.MethodGet, "/api/v1/admin/brands", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/products", userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AuthRoutesOnlyForAnonymous(t *testing.T) {
	r, _ := newTestRouter(t)

	userToken := signup(t, r, "Jane", "jane@example.com", false)
	adminToken := signup(t, r, "Root", "root@example.com", true)

	w := call(t, r, http.MethodPost, "/api/v1/auth/register", userToken, api.RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret", IsAdmin: true,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.RouteDashboard, redirectOf(t, w))

	w = call(t, r, http.MethodPost, "/api/v1/auth/login", userToken, api.LoginRequest{Email: "jane@example.com", Password: "secret"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.RouteDashboard, redirectOf(t, w))

	w = call(t, r, http.MethodPost, "/api/v1/auth/login", adminToken, api.LoginRequest{Email: "root@example.com", Password: "secret"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.RouteAdminDashboard, redirectOf(t, w))

	// регистрация не прошла
	w = call(t, r, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{Email: "eve@example.com", Password: "secret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ShoppingFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	token := signup(t, r, "Jane", "jane@example.com", false)

	w := call(t, r, http.MethodPost, "/api/v1/cart/items", token, api.AddToCartRequest{ProductID: "1", Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodPost, "/api/v1/orders", token, api.CheckoutRequest{Mode: models.CheckoutAll, PaymentMethod: "Paypal"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
	assert.Equal(t, 36.0, order.Totals.Total)

	w = call(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopfront_orders_placed_total 1")
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	r, _ := newTestRouter(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := New(ln.Addr().String(), r, logger)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
