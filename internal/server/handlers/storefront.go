package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/shopfront/internal/models"
)

//go:generate moq -out storefront_mock.go . Storefront

// Storefront отдаёт объединённый список товаров витрины
type Storefront interface {
	Snapshot() []models.Product
	Product(id string) (models.Product, bool)
}

// StorefrontHandler обрабатывает запросы витрины покупателя
type StorefrontHandler struct {
	logger     *slog.Logger
	storefront Storefront
}

// NewStorefrontHandler создает handler витрины
func NewStorefrontHandler(logger *slog.Logger, storefront Storefront) *StorefrontHandler {
	return &StorefrontHandler{
		logger:     logger,
		storefront: storefront,
	}
}

// List обрабатывает GET /api/v1/products?search=
func (h *StorefrontHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.storefront.Snapshot()

	needle := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	if needle != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Category), needle) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	sendJSON(w, h.logger, products, http.StatusOK)
}

// Get обрабатывает GET /api/v1/products/{id}
func (h *StorefrontHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok := h.storefront.Product(id)
	if !ok {
		h.logger.DebugContext(r.Context(), "product not found", slog.String("id", id))
		sendError(w, h.logger, "product not found", http.StatusNotFound)
		return
	}

	sendJSON(w, h.logger, product, http.StatusOK)
}
