// Package productsync keeps the storefront view of products in step with
// admin edits and the external feed.
package productsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/shopfront/internal/crypto"
	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/feed"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс синхронизации витрины
type Service interface {
	// Load загружает каталог (или кэш при ошибке) и объединяет его с локальными товарами
	Load(ctx context.Context) (*SyncResult, error)

	// Refresh перечитывает локальные товары без повторной загрузки каталога
	Refresh(ctx context.Context) (*SyncResult, error)

	// Snapshot возвращает текущий объединённый список
	Snapshot() []models.Product

	// Product ищет товар в текущем списке
	Product(id string) (models.Product, bool)

	// Run следит за изменениями до отмены ctx
	Run(ctx context.Context, interval time.Duration) error
}

// FeedSource fetches the external catalog
type FeedSource interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// Subscriber delivers in-process change notifications
type Subscriber interface {
	Subscribe(topic string, buffer int) (<-chan event.Event, func())
}

// SyncResult contains sync operation results
type SyncResult struct {
	Local     int  // локальные товары
	Feed      int  // товары внешнего каталога
	Merged    int  // итоговый размер витрины
	FromCache bool // каталог взят из кэша
	Changed   bool // витрина изменилась с прошлого раза
}

// Option configures the service
type Option func(*service)

// WithOnChange registers fn to be called after a sync that changed the storefront
func WithOnChange(fn func(*SyncResult)) Option {
	return func(s *service) {
		s.onChange = append(s.onChange, fn)
	}
}

type service struct {
	source      FeedSource
	cache       feed.Cache
	json        *storage.JSON
	meta        storage.MetadataStorage
	bus         Subscriber
	logger      *slog.Logger
	onChange    []func(*SyncResult)
	feed        []models.Product
	merged      []models.Product
	fingerprint string
	seenMarker  int64 // маркер products-updated, прочитанный перед последней сборкой
	feedLoaded  bool
	mu          sync.RWMutex
}

// NewService creates a new sync service
func NewService(
	source FeedSource,
	cache feed.Cache,
	js *storage.JSON,
	meta storage.MetadataStorage,
	bus Subscriber,
	logger *slog.Logger,
	opts ...Option,
) Service {
	s := &service{
		source: source,
		cache:  cache,
		json:   js,
		meta:   meta,
		bus:    bus,
		logger: logger,
		merged: []models.Product{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Merge returns local products followed by feed products.
// The first record with a given id wins, so merging is idempotent.
func Merge(local, feedProducts []models.Product) []models.Product {
	merged := make([]models.Product, 0, len(local)+len(feedProducts))
	seen := make(map[string]struct{}, len(local)+len(feedProducts))

	for _, list := range [][]models.Product{local, feedProducts} {
		for _, p := range list {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

func (s *service) Load(ctx context.Context) (*SyncResult, error) {
	fromCache := false
	keep := false

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "feed fetch failed, falling back to cache", slog.Any("error", err))

		cached, cacheErr := s.cache.Load(ctx)
		if cacheErr != nil {
			if !errors.Is(cacheErr, feed.ErrCacheEmpty) {
				s.logger.WarnContext(ctx, "failed to load cached feed", slog.Any("error", cacheErr))
			}
			// уже загруженный каталог остаётся в памяти
			keep = true
		}
		products = cached
		fromCache = true
	} else if err := s.cache.Save(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "failed to cache feed", slog.Any("error", err))
	}

	s.mu.Lock()
	if !keep || !s.feedLoaded {
		s.feed = products
	}
	s.feedLoaded = true
	s.mu.Unlock()

	result, err := s.rebuild(ctx)
	if err != nil {
		return nil, err
	}
	result.FromCache = fromCache
	return result, nil
}

func (s *service) Refresh(ctx context.Context) (*SyncResult, error) {
	s.mu.RLock()
	loaded := s.feedLoaded
	s.mu.RUnlock()

	// Каталог ещё не загружался: используем кэш, но не ходим в сеть
	if !loaded {
		cached, err := s.cache.Load(ctx)
		if err != nil && !errors.Is(err, feed.ErrCacheEmpty) {
			s.logger.WarnContext(ctx, "failed to load cached feed", slog.Any("error", err))
		}
		s.mu.Lock()
		s.feed = cached
		s.feedLoaded = true
		s.mu.Unlock()
	}

	return s.rebuild(ctx)
}

// rebuild re-reads local products and merges them with the current feed.
// The marker is read first: a write stamped after it is picked up by Run.
func (s *service) rebuild(ctx context.Context) (*SyncResult, error) {
	marker := s.marker(ctx)

	local := []models.Product{}
	s.json.Read(ctx, storage.KeyProducts, &local)

	s.mu.Lock()
	merged := Merge(local, s.feed)
	data, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to marshal storefront: %w", err)
	}
	fp := crypto.Fingerprint(data)

	result := &SyncResult{
		Local:   len(local),
		Feed:    len(s.feed),
		Merged:  len(merged),
		Changed: fp != s.fingerprint,
	}
	s.merged = merged
	s.fingerprint = fp
	s.seenMarker = marker
	listeners := s.onChange
	s.mu.Unlock()

	if result.Changed {
		s.logger.InfoContext(ctx, "storefront updated",
			slog.Int("local", result.Local),
			slog.Int("feed", result.Feed),
			slog.Int("merged", result.Merged))
		for _, fn := range listeners {
			fn(result)
		}
	}

	return result, nil
}

func (s *service) Snapshot() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.merged)
}

func (s *service) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.merged, func(p models.Product) bool { return p.ID == id })
	if idx < 0 {
		return models.Product{}, false
	}
	return s.merged[idx], true
}

// Run refreshes the storefront on every products-changed event and polls
// the products-updated marker for writers outside this process.
// Returns nil once ctx is cancelled; the subscription and ticker are released.
func (s *service) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval %s", interval)
	}

	events, unsubscribe := s.bus.Subscribe(event.TopicProductsChanged, 1)
	defer unsubscribe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.DebugContext(ctx, "product sync stopped")
			return nil

		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.refreshLogged(ctx)

		case <-ticker.C:
			if s.marker(ctx) == s.seen() {
				continue
			}
			s.refreshLogged(ctx)
		}
	}
}

func (s *service) seen() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seenMarker
}

func (s *service) marker(ctx context.Context) int64 {
	ts, err := s.meta.GetTimestamp(ctx, storage.KeyProductsUpdated)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read products marker", slog.Any("error", err))
		return 0
	}
	return ts
}

func (s *service) refreshLogged(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to refresh storefront", slog.Any("error", err))
	}
}
