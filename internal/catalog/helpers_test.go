package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/storage/memory"
)

// pngBytes - минимальные байты, которые http.DetectContentType распознаёт как PNG
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	topics   []string
	payloads []any
	mu       sync.Mutex
}

func (p *recordingPublisher) Publish(topic string, payload any) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return 1
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

type testEnv struct {
	svc   *Service
	store *memory.Storage
	pub   *recordingPublisher
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	pub := &recordingPublisher{}

	svc := NewService(storage.NewJSON(store, logger), store, pub, logger)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &testEnv{svc: svc, store: store, pub: pub, now: now}
}

// seedNike создаёт бренд Nike, партнёра ABC и коллекцию Air
func (e *testEnv) seedNike(t *testing.T) (models.Brand, models.Partner, models.Collection) {
	t.Helper()
	ctx := context.Background()

	brand, err := e.svc.CreateBrand(ctx, "Nike")
	require.NoError(t, err)
	partner, err := e.svc.CreatePartner(ctx, "ABC", brand.ID)
	require.NoError(t, err)
	collection, err := e.svc.CreateCollection(ctx, "Air", Selection{BrandID: brand.ID, PartnerID: partner.ID})
	require.NoError(t, err)

	return brand, partner, collection
}

func (e *testEnv) productInput(brandID, partnerID, collectionID string) ProductInput {
	return ProductInput{
		Selection: Selection{BrandID: brandID, PartnerID: partnerID, CollectionID: collectionID},
		Name:      "air max",
		Color:     "red",
		Size:      "42",
		Price:     "$99.50",
		Image:     "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==",
		ImageName: "air.png",
	}
}
