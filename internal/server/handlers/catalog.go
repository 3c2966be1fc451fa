package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/pkg/api"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Сущности каталога в метриках
const (
	entityBrand      = "brand"
	entityPartner    = "partner"
	entityCollection = "collection"
	entityProduct    = "product"
)

//go:generate moq -out catalog_mock.go . MutationRecorder

// MutationRecorder учитывает изменения каталога
type MutationRecorder interface {
	CatalogMutation(entity, action string)
}

// CatalogHandler обрабатывает админские CRUD запросы каталога
type CatalogHandler struct {
	logger  *slog.Logger
	catalog *catalog.Service
	metrics MutationRecorder
}

// NewCatalogHandler создает handler каталога
func NewCatalogHandler(logger *slog.Logger, svc *catalog.Service, metrics MutationRecorder) *CatalogHandler {
	return &CatalogHandler{
		logger:  logger,
		catalog: svc,
		metrics: metrics,
	}
}

// parseQuery читает ?search= и ?sort=asc|desc
func parseQuery(r *http.Request) catalog.Query {
	q := catalog.Query{Search: r.URL.Query().Get("search")}
	switch strings.ToLower(r.URL.Query().Get("sort")) {
	case "asc":
		q.Sort = catalog.SortNameAsc
	case "desc":
		q.Sort = catalog.SortNameDesc
	}
	return q
}

func (h *CatalogHandler) mutated(r *http.Request, entity, action, id string) {
	h.metrics.CatalogMutation(entity, action)
	h.logger.DebugContext(r.Context(), "catalog mutated",
		slog.String("entity", entity),
		slog.String("action", action),
		slog.String("id", id))
}

// ListBrands обрабатывает GET /api/v1/admin/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, h.catalog.Brands(r.Context(), parseQuery(r)), http.StatusOK)
}

// GetBrand обрабатывает GET /api/v1/admin/brands/{id}
func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.catalog.Brand(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to get brand", err)
		return
	}
	sendJSON(w, h.logger, brand, http.StatusOK)
}

// CreateBrand обрабатывает POST /api/v1/admin/brands
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req api.NameRequest
	if !h.decode(w, r, &req) {
		return
	}

	brand, err := h.catalog.CreateBrand(r.Context(), req.Name)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to create brand", err)
		return
	}

	h.mutated(r, entityBrand, "create", brand.ID)
	sendJSON(w, h.logger, brand, http.StatusCreated)
}

// UpdateBrand обрабатывает PUT /api/v1/admin/brands/{id}
func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	var req api.NameRequest
	if !h.decode(w, r, &req) {
		return
	}

	brand, err := h.catalog.UpdateBrand(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to update brand", err)
		return
	}

	h.mutated(r, entityBrand, "update", brand.ID)
	sendJSON(w, h.logger, brand, http.StatusOK)
}

// DeleteBrand обрабатывает DELETE /api/v1/admin/brands/{id}
func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteBrand(r.Context(), id); err != nil {
		sendServiceError(w, r, h.logger, "failed to delete brand", err)
		return
	}

	h.mutated(r, entityBrand, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListPartners обрабатывает GET /api/v1/admin/partners.
// С ?brandId= возвращает варианты каскадного выбора для бренда.
func (h *CatalogHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	if brandID := r.URL.Query().Get("brandId"); brandID != "" {
		sendJSON(w, h.logger, h.catalog.PartnerOptions(r.Context(), brandID), http.StatusOK)
		return
	}
	sendJSON(w, h.logger, h.catalog.Partners(r.Context(), parseQuery(r)), http.StatusOK)
}

// GetPartner обрабатывает GET /api/v1/admin/partners/{id}
func (h *CatalogHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	partner, err := h.catalog.Partner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to get partner", err)
		return
	}
	sendJSON(w, h.logger, partner, http.StatusOK)
}

// CreatePartner обрабатывает POST /api/v1/admin/partners
func (h *CatalogHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req api.PartnerRequest
	if !h.decode(w, r, &req) {
		return
	}

	partner, err := h.catalog.CreatePartner(r.Context(), req.Name, req.BrandID)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to create partner", err)
		return
	}

	h.mutated(r, entityPartner, "create", partner.ID)
	sendJSON(w, h.logger, partner, http.StatusCreated)
}

// UpdatePartner обрабатывает PUT /api/v1/admin/partners/{id}
func (h *CatalogHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	var req api.PartnerRequest
	if !h.decode(w, r, &req) {
		return
	}

	partner, err := h.catalog.UpdatePartner(r.Context(), chi.URLParam(r, "id"), req.Name, req.BrandID)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to update partner", err)
		return
	}

	h.mutated(r, entityPartner, "update", partner.ID)
	sendJSON(w, h.logger, partner, http.StatusOK)
}

// DeletePartner обрабатывает DELETE /api/v1/admin/partners/{id}
func (h *CatalogHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeletePartner(r.Context(), id); err != nil {
		sendServiceError(w, r, h.logger, "failed to delete partner", err)
		return
	}

	h.mutated(r, entityPartner, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListCollections обрабатывает GET /api/v1/admin/collections.
// С ?brandId=&partnerId= возвращает варианты каскадного выбора.
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("brandId") || query.Has("partnerId") {
		options := h.catalog.CollectionOptions(r.Context(), query.Get("brandId"), query.Get("partnerId"))
		sendJSON(w, h.logger, options, http.StatusOK)
		return
	}
	sendJSON(w, h.logger, h.catalog.Collections(r.Context(), parseQuery(r)), http.StatusOK)
}

// GetCollection обрабатывает GET /api/v1/admin/collections/{id}
func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.catalog.Collection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to get collection", err)
		return
	}
	sendJSON(w, h.logger, collection, http.StatusOK)
}

// CreateCollection обрабатывает POST /api/v1/admin/collections
func (h *CatalogHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req api.CollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	sel := catalog.Selection{BrandID: req.BrandID, PartnerID: req.PartnerID}
	collection, err := h.catalog.CreateCollection(r.Context(), req.Name, sel)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to create collection", err)
		return
	}

	h.mutated(r, entityCollection, "create", collection.ID)
	sendJSON(w, h.logger, collection, http.StatusCreated)
}

// UpdateCollection обрабатывает PUT /api/v1/admin/collections/{id}
func (h *CatalogHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var req api.CollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	sel := catalog.Selection{BrandID: req.BrandID, PartnerID: req.PartnerID}
	collection, err := h.catalog.UpdateCollection(r.Context(), chi.URLParam(r, "id"), req.Name, sel)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to update collection", err)
		return
	}

	h.mutated(r, entityCollection, "update", collection.ID)
	sendJSON(w, h.logger, collection, http.StatusOK)
}

// DeleteCollection обрабатывает DELETE /api/v1/admin/collections/{id}
func (h *CatalogHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteCollection(r.Context(), id); err != nil {
		sendServiceError(w, r, h.logger, "failed to delete collection", err)
		return
	}

	h.mutated(r, entityCollection, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts обрабатывает GET /api/v1/admin/products (только локальные товары)
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, h.catalog.Products(r.Context(), parseQuery(r)), http.StatusOK)
}

// GetProduct обрабатывает GET /api/v1/admin/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to get product", err)
		return
	}
	sendJSON(w, h.logger, product, http.StatusOK)
}

// CreateProduct обрабатывает POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), productInput(req))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to create product", err)
		return
	}

	h.mutated(r, entityProduct, "create", product.ID)
	sendJSON(w, h.logger, product, http.StatusCreated)
}

// UpdateProduct обрабатывает PUT /api/v1/admin/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.ProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), productInput(req))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to update product", err)
		return
	}

	h.mutated(r, entityProduct, "update", product.ID)
	sendJSON(w, h.logger, product, http.StatusOK)
}

// DeleteProduct обрабатывает DELETE /api/v1/admin/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		sendServiceError(w, r, h.logger, "failed to delete product", err)
		return
	}

	h.mutated(r, entityProduct, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// Orphans обрабатывает GET /api/v1/admin/orphans
func (h *CatalogHandler) Orphans(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, h.catalog.Orphans(r.Context()), http.StatusOK)
}

// ExportProducts обрабатывает GET /api/v1/admin/products/export
func (h *CatalogHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	count, err := h.catalog.ExportProducts(r.Context(), &buf)
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to export products", err)
		return
	}

	h.logger.InfoContext(r.Context(), "products exported", slog.Int("count", count))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", slog.Any("error", err))
	}
}

// ImportProducts обрабатывает POST /api/v1/admin/products/import, тело - xlsx файл
func (h *CatalogHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		sendError(w, h.logger, "failed to read workbook", http.StatusBadRequest)
		return
	}

	result, err := h.catalog.ImportProductsXLSX(r.Context(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to import products", slog.Any("error", err))
		sendError(w, h.logger, fmt.Sprintf("invalid workbook: %v", err), http.StatusBadRequest)
		return
	}

	if result.Imported > 0 {
		h.mutated(r, entityProduct, "import", "")
	}
	sendJSON(w, h.logger, result, http.StatusOK)
}

// maxImportSize ограничивает размер загружаемой книги
const maxImportSize = 64 << 20

func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func productInput(req api.ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Selection: catalog.Selection{
			BrandID:      req.BrandID,
			PartnerID:    req.PartnerID,
			CollectionID: req.CollectionID,
		},
		Name:      req.Name,
		Color:     req.Color,
		Size:      req.Size,
		Price:     req.Price,
		Image:     req.Image,
		ImageName: req.ImageName,
	}
}
