package feed

import (
	"strconv"
	"strings"

	"github.com/iudanet/shopfront/internal/models"
)

// IDPrefix отделяет товары каталога от локальных
const IDPrefix = "feed-"

// RawProduct is a product as served by the external catalog
type RawProduct struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      models.Rating `json:"rating"`
	Price       float64       `json:"price"`
	ID          int64         `json:"id"`
}

// Normalize converts a feed record into a storefront product
func Normalize(r RawProduct) models.Product {
	return models.Product{
		ID:             IDPrefix + strconv.FormatInt(r.ID, 10),
		Name:           r.Title,
		Description:    r.Description,
		Category:       r.Category,
		Image:          r.Image,
		Price:          r.Price,
		Rating:         r.Rating,
		SKU:            r.ID,
		IsLocalProduct: false,
	}
}

// IsFeedID reports whether id belongs to a feed product
func IsFeedID(id string) bool {
	return strings.HasPrefix(id, IDPrefix)
}
