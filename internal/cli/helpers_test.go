package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/feed"
	"github.com/iudanet/shopfront/internal/iocli"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/productsync"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/memory"
)

// pngBytes распознаётся http.DetectContentType как PNG
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type staticFeed struct {
	products []models.Product
}

func (f staticFeed) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

type testEnv struct {
	services Services
	out      *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	js := storage.NewJSON(store, logger)
	bus := event.NewBus(logger)

	source := staticFeed{products: []models.Product{
		{ID: "1", Name: "Backpack", Category: "men's clothing", Price: 100, Rating: models.Rating{Rate: 3.9, Count: 120}},
		{ID: "2", Name: "T-Shirt", Category: "men's clothing", Price: 20, Rating: models.Rating{Rate: 4.1, Count: 259}},
	}}

	return &testEnv{
		services: Services{
			Auth:    auth.NewService(js, store, logger),
			Catalog: catalog.NewService(js, store, bus, logger),
			Cart:    cart.NewService(js, bus, logger),
			Sync:    productsync.NewService(source, feed.NewStoreCache(js), js, store, bus, logger),
		},
		out: &bytes.Buffer{},
	}
}

// cli returns a client whose prompts are answered by input, line by line
func (e *testEnv) cli(input ...string) *Cli {
	e.out.Reset()
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	return New(iocli.New(in, e.out), e.services)
}

func (e *testEnv) output() string {
	return e.out.String()
}

// as registers (once) and logs in a user with the given role
func (e *testEnv) as(t *testing.T, role models.Role) {
	t.Helper()
	ctx := context.Background()

	email := string(role) + "@example.com"
	if _, err := e.services.Auth.Authenticate(ctx, email, "secret"); err != nil {
		_, err := e.services.Auth.Register(ctx, "Test", email, "secret", role == models.RoleAdmin)
		require.NoError(t, err)
	}
	_, err := e.services.Auth.Login(ctx, email, "secret")
	require.NoError(t, err)
}

func (e *testEnv) logout(t *testing.T) {
	t.Helper()
	require.NoError(t, e.services.Auth.Logout(context.Background()))
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "air.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))
	return path
}
