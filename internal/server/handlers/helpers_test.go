package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/memory"
	"github.com/iudanet/shopfront/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStorefront отдаёт фиксированный список товаров
type fakeStorefront struct {
	products []models.Product
}

func (f *fakeStorefront) Snapshot() []models.Product {
	return f.products
}

func (f *fakeStorefront) Product(id string) (models.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// recorder считает вызовы MutationRecorder и OrderRecorder
type recorder struct {
	mutations []string
	orders    []float64
	mu        sync.Mutex
}

func (r *recorder) CatalogMutation(entity, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutations = append(r.mutations, entity+"."+action)
}

func (r *recorder) OrderPlaced(total float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, total)
}

type services struct {
	json    *storage.JSON
	store   *memory.Storage
	catalog *catalog.Service
	cart    *cart.Service
}

func newServices(t *testing.T) *services {
	t.Helper()

	logger := setupTestLogger()
	store := memory.New()
	js := storage.NewJSON(store, logger)
	bus := event.NewBus(logger)

	return &services{
		json:    js,
		store:   store,
		catalog: catalog.NewService(js, store, bus, logger),
		cart:    cart.NewService(js, bus, logger),
	}
}

// do выполняет запрос через handler, подставляя сессию, если она задана
func do(t *testing.T, h http.Handler, method, target string, body any, session *models.Session) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if session != nil {
		req = req.WithContext(WithSession(req.Context(), session))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[api.ErrorResponse](t, w).Message
}

func customer() *models.Session {
	return &models.Session{UserID: "user-1", Name: "Jane", Email: "jane@example.com", Role: models.RoleUser, IsLoggedIn: true}
}

func admin() *models.Session {
	return &models.Session{UserID: "admin-1", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin, IsLoggedIn: true}
}
