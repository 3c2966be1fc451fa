package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

// ProductInput содержит поля формы товара
type ProductInput struct {
	Selection
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Price     string `json:"price"` // как ввёл пользователь, очищается до [0-9.]
	Image     string `json:"image"` // data URI
	ImageName string `json:"imageName"`
}

// ProductChange is the payload of event.TopicProductsChanged
type ProductChange struct {
	Action    string `json:"action"` // created | updated | deleted | imported
	ProductID string `json:"productId,omitempty"`
	At        int64  `json:"at"`
}

// Products returns local products matching q by name, brand, partner, collection, color or price
func (s *Service) Products(ctx context.Context, q Query) []models.Product {
	names := s.names(ctx)
	return apply(s.products.List(ctx), q, func(p models.Product) []string {
		return ProductSearchFields(p, names)
	})
}

// ProductSearchFields returns the text a product is searched by
func ProductSearchFields(p models.Product, names Names) []string {
	return []string{
		p.Name,
		names.Brand(p.BrandID),
		names.Partner(p.PartnerID),
		names.Collection(p.CollectionID),
		p.Color,
		p.Category,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
	}
}

// Product returns a local product by id
func (s *Service) Product(ctx context.Context, id string) (models.Product, error) {
	return s.products.Get(ctx, id)
}

// CreateProduct validates input and appends a new local product
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	product, err := s.buildProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}

	now := s.now()
	product.ID = uuid.New().String()
	product.IsLocalProduct = true
	product.Rating = models.Rating{Rate: 4.0, Count: 0}
	product.CreatedAt = now
	product.UpdatedAt = now

	err = s.products.Mutate(ctx, func(items []models.Product) ([]models.Product, error) {
		product.SKU = nextSKU(items)
		return append(items, product), nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("id", product.ID),
		slog.Int64("sku", product.SKU),
		slog.String("name", product.Name))

	s.productsChanged(ctx, "created", product.ID)
	return product, nil
}

// UpdateProduct replaces the editable fields. ID, SKU, rating and creation time are kept
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	updated, err := s.buildProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}

	err = s.products.Mutate(ctx, func(items []models.Product) ([]models.Product, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			updated.ID = items[i].ID
			updated.SKU = items[i].SKU
			updated.Rating = items[i].Rating
			updated.IsLocalProduct = true
			updated.CreatedAt = items[i].CreatedAt
			updated.UpdatedAt = s.now()
			items[i] = updated
			return items, nil
		}
		return nil, fmt.Errorf("%s %q: %w", storage.KeyProducts, id, ErrNotFound)
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	s.productsChanged(ctx, "updated", id)
	return updated, nil
}

// DeleteProduct removes a local product
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.productsChanged(ctx, "deleted", id)
	return nil
}

// ImportProducts appends already validated products, assigning ids and SKUs
func (s *Service) ImportProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	now := s.now()
	err := s.products.Mutate(ctx, func(items []models.Product) ([]models.Product, error) {
		sku := nextSKU(items)
		for _, p := range products {
			p.ID = uuid.New().String()
			p.SKU = sku
			p.IsLocalProduct = true
			p.Rating = models.Rating{Rate: 4.0, Count: 0}
			p.CreatedAt = now
			p.UpdatedAt = now
			items = append(items, p)
			sku++
		}
		return items, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import products: %w", err)
	}

	s.productsChanged(ctx, "imported", "")
	return len(products), nil
}

func (s *Service) buildProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	name := TitleCase(in.Name)
	if err := validation.RequireFilled(name, in.BrandID, in.Price, in.Image); err != nil {
		return models.Product{}, err
	}

	price, err := validation.ParsePrice(in.Price)
	if err != nil {
		return models.Product{}, err
	}

	if err := validation.ValidateImageDataURI(in.Image); err != nil {
		return models.Product{}, err
	}

	if err := in.Selection.Validate(s.brands.List(ctx), s.partners.List(ctx), s.collections.List(ctx)); err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Name:         name,
		BrandID:      in.BrandID,
		PartnerID:    in.PartnerID,
		CollectionID: in.CollectionID,
		Color:        TitleCase(in.Color),
		Size:         TitleCase(in.Size),
		Price:        price,
		Image:        in.Image,
		ImageName:    in.ImageName,
	}, nil
}

// productsChanged штампует маркеры синхронизации и публикует событие.
// Ошибки маркеров не отменяют уже сохранённое изменение.
func (s *Service) productsChanged(ctx context.Context, action, id string) {
	ts := s.now().UnixMilli()

	for _, key := range []string{storage.KeyAdminProductsUpdated, storage.KeyProductsUpdated} {
		if err := s.meta.SaveTimestamp(ctx, key, ts); err != nil {
			s.logger.WarnContext(ctx, "failed to stamp products timestamp", slog.String("key", key), slog.Any("error", err))
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(event.TopicProductsChanged, ProductChange{Action: action, ProductID: id, At: ts})
	}
}

func nextSKU(items []models.Product) int64 {
	var maxSKU int64
	for _, p := range items {
		if p.SKU > maxSKU {
			maxSKU = p.SKU
		}
	}
	return maxSKU + 1
}
