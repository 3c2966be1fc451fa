package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

//go:generate moq -out publisher_mock.go . Publisher

// Publisher receives change notifications
type Publisher interface {
	Publish(topic string, payload any) int
}

// Service implements admin CRUD for brands, partners, collections and products
type Service struct {
	brands      *Repository[models.Brand]
	partners    *Repository[models.Partner]
	collections *Repository[models.Collection]
	products    *Repository[models.Product]
	meta        storage.MetadataStorage
	publisher   Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a catalog service
func NewService(js *storage.JSON, meta storage.MetadataStorage, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		brands:      NewRepository[models.Brand](js, storage.KeyBrands),
		partners:    NewRepository[models.Partner](js, storage.KeyPartners),
		collections: NewRepository[models.Collection](js, storage.KeyCollections),
		products:    NewRepository[models.Product](js, storage.KeyProducts),
		meta:        meta,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Brands returns brands matching q
func (s *Service) Brands(ctx context.Context, q Query) []models.Brand {
	return apply(s.brands.List(ctx), q, func(b models.Brand) []string {
		return []string{b.Name}
	})
}

// Brand returns a brand by id
func (s *Service) Brand(ctx context.Context, id string) (models.Brand, error) {
	return s.brands.Get(ctx, id)
}

// CreateBrand adds a brand
func (s *Service) CreateBrand(ctx context.Context, name string) (models.Brand, error) {
	name = TitleCase(name)
	if err := validation.RequireFilled(name); err != nil {
		return models.Brand{}, err
	}

	brand := models.Brand{ID: uuid.New().String(), Name: name}
	if err := s.brands.Create(ctx, brand); err != nil {
		return models.Brand{}, fmt.Errorf("failed to create brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand created", slog.String("id", brand.ID), slog.String("name", brand.Name))
	return brand, nil
}

// UpdateBrand renames a brand. Children reference the id and keep their link
func (s *Service) UpdateBrand(ctx context.Context, id, name string) (models.Brand, error) {
	name = TitleCase(name)
	if err := validation.RequireFilled(name); err != nil {
		return models.Brand{}, err
	}

	brand := models.Brand{ID: id, Name: name}
	if err := s.brands.Update(ctx, id, brand); err != nil {
		return models.Brand{}, fmt.Errorf("failed to update brand: %w", err)
	}
	return brand, nil
}

// DeleteBrand removes a brand. Partners, collections and products are not touched
func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	s.logger.InfoContext(ctx, "brand deleted", slog.String("id", id))
	return nil
}

// Partners returns partners matching q by partner or brand name
func (s *Service) Partners(ctx context.Context, q Query) []models.Partner {
	names := s.names(ctx)
	return apply(s.partners.List(ctx), q, func(p models.Partner) []string {
		return []string{p.Name, names.Brand(p.BrandID)}
	})
}

// Partner returns a partner by id
func (s *Service) Partner(ctx context.Context, id string) (models.Partner, error) {
	return s.partners.Get(ctx, id)
}

// CreatePartner adds a partner to an existing brand
func (s *Service) CreatePartner(ctx context.Context, name, brandID string) (models.Partner, error) {
	partner := models.Partner{ID: uuid.New().String(), Name: TitleCase(name), BrandID: brandID}
	if err := s.validatePartner(ctx, partner); err != nil {
		return models.Partner{}, err
	}

	if err := s.partners.Create(ctx, partner); err != nil {
		return models.Partner{}, fmt.Errorf("failed to create partner: %w", err)
	}

	s.logger.InfoContext(ctx, "partner created", slog.String("id", partner.ID), slog.String("brand_id", brandID))
	return partner, nil
}

// UpdatePartner replaces name and brand of a partner
func (s *Service) UpdatePartner(ctx context.Context, id, name, brandID string) (models.Partner, error) {
	partner := models.Partner{ID: id, Name: TitleCase(name), BrandID: brandID}
	if err := s.validatePartner(ctx, partner); err != nil {
		return models.Partner{}, err
	}

	if err := s.partners.Update(ctx, id, partner); err != nil {
		return models.Partner{}, fmt.Errorf("failed to update partner: %w", err)
	}
	return partner, nil
}

// DeletePartner removes a partner without cascading
func (s *Service) DeletePartner(ctx context.Context, id string) error {
	if err := s.partners.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return nil
}

func (s *Service) validatePartner(ctx context.Context, p models.Partner) error {
	if err := validation.RequireFilled(p.Name, p.BrandID); err != nil {
		return err
	}
	sel := Selection{BrandID: p.BrandID}
	return sel.Validate(s.brands.List(ctx), nil, nil)
}

// Collections returns collections matching q by collection, brand or partner name
func (s *Service) Collections(ctx context.Context, q Query) []models.Collection {
	names := s.names(ctx)
	return apply(s.collections.List(ctx), q, func(c models.Collection) []string {
		return []string{c.Name, names.Brand(c.BrandID), names.Partner(c.PartnerID)}
	})
}

// Collection returns a collection by id
func (s *Service) Collection(ctx context.Context, id string) (models.Collection, error) {
	return s.collections.Get(ctx, id)
}

// CreateCollection adds a collection for a brand/partner pair
func (s *Service) CreateCollection(ctx context.Context, name string, sel Selection) (models.Collection, error) {
	collection := models.Collection{ID: uuid.New().String(), Name: TitleCase(name), BrandID: sel.BrandID, PartnerID: sel.PartnerID}
	if err := s.validateCollection(ctx, collection); err != nil {
		return models.Collection{}, err
	}

	if err := s.collections.Create(ctx, collection); err != nil {
		return models.Collection{}, fmt.Errorf("failed to create collection: %w", err)
	}

	s.logger.InfoContext(ctx, "collection created", slog.String("id", collection.ID))
	return collection, nil
}

// UpdateCollection replaces a collection
func (s *Service) UpdateCollection(ctx context.Context, id, name string, sel Selection) (models.Collection, error) {
	collection := models.Collection{ID: id, Name: TitleCase(name), BrandID: sel.BrandID, PartnerID: sel.PartnerID}
	if err := s.validateCollection(ctx, collection); err != nil {
		return models.Collection{}, err
	}

	if err := s.collections.Update(ctx, id, collection); err != nil {
		return models.Collection{}, fmt.Errorf("failed to update collection: %w", err)
	}
	return collection, nil
}

// DeleteCollection removes a collection without cascading
func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	if err := s.collections.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func (s *Service) validateCollection(ctx context.Context, c models.Collection) error {
	if err := validation.RequireFilled(c.Name, c.BrandID, c.PartnerID); err != nil {
		return err
	}
	sel := Selection{BrandID: c.BrandID, PartnerID: c.PartnerID}
	return sel.Validate(s.brands.List(ctx), s.partners.List(ctx), nil)
}

// PartnerOptions returns partners selectable for the brand
func (s *Service) PartnerOptions(ctx context.Context, brandID string) []models.Partner {
	return Selection{BrandID: brandID}.PartnerOptions(s.partners.List(ctx))
}

// CollectionOptions returns collections selectable for the brand and partner
func (s *Service) CollectionOptions(ctx context.Context, brandID, partnerID string) []models.Collection {
	return Selection{BrandID: brandID, PartnerID: partnerID}.CollectionOptions(s.collections.List(ctx))
}

// names builds an id → name lookup over the current lists
func (s *Service) names(ctx context.Context) Names {
	return NewNames(s.brands.List(ctx), s.partners.List(ctx), s.collections.List(ctx))
}

// Names resolves ids to display names
func (s *Service) Names(ctx context.Context) Names {
	return s.names(ctx)
}
