package handlers

import (
	"log/slog"
	"net/http"
)

// Version задаётся при сборке через -ldflags "-X .../handlers.Version=..."
var Version = "dev"

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger     *slog.Logger
	storefront Storefront
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, storefront Storefront) *HealthHandler {
	return &HealthHandler{
		logger:     logger,
		storefront: storefront,
	}
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Products int    `json:"products"` // размер объединённой витрины
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  Version,
		Products: len(h.storefront.Snapshot()),
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
