package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/pkg/api"
)

//go:generate moq -out cart_mock.go . OrderRecorder

// OrderRecorder учитывает оформленные заказы
type OrderRecorder interface {
	OrderPlaced(total float64)
}

// CartHandler обрабатывает корзину, оформление и историю заказов
type CartHandler struct {
	logger     *slog.Logger
	cart       *cart.Service
	storefront Storefront
	orders     OrderRecorder
}

// NewCartHandler создает handler корзины
func NewCartHandler(logger *slog.Logger, svc *cart.Service, storefront Storefront, orders OrderRecorder) *CartHandler {
	return &CartHandler{
		logger:     logger,
		cart:       svc,
		storefront: storefront,
		orders:     orders,
	}
}

// userID достаёт пользователя, положенного AuthMiddleware
func (h *CartHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "user_id not found in context")
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *CartHandler) sendCart(w http.ResponseWriter, r *http.Request, userID string, status int) {
	state := h.cart.State(r.Context(), userID)
	resp := api.CartResponse{
		Items:    state.Items,
		Selected: state.Selected,
		Totals:   cart.ComputeTotals(state.Items),
	}
	sendJSON(w, h.logger, resp, status)
}

// Get обрабатывает GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	h.sendCart(w, r, userID, http.StatusOK)
}

// Add обрабатывает POST /api/v1/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req api.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, found := h.storefront.Product(req.ProductID)
	if !found {
		sendError(w, h.logger, "product not found", http.StatusNotFound)
		return
	}

	if _, err := h.cart.AddOrIncrement(r.Context(), userID, product, req.Quantity); err != nil {
		sendServiceError(w, r, h.logger, "failed to add to cart", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// UpdateQuantity обрабатывает PUT /api/v1/cart/items/{id}.
// Количество вне [1, 20] игнорируется, корзина возвращается без изменений.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req api.QuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.cart.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "id"), req.Quantity); err != nil {
		sendServiceError(w, r, h.logger, "failed to update quantity", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// Remove обрабатывает DELETE /api/v1/cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		sendServiceError(w, r, h.logger, "failed to remove from cart", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// Toggle обрабатывает POST /api/v1/cart/items/{id}/toggle
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if _, err := h.cart.Toggle(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		sendServiceError(w, r, h.logger, "failed to toggle selection", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// SelectAll обрабатывает POST /api/v1/cart/selection
func (h *CartHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.cart.SelectAll(r.Context(), userID); err != nil {
		sendServiceError(w, r, h.logger, "failed to select all", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// ClearSelection обрабатывает DELETE /api/v1/cart/selection
func (h *CartHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.cart.ClearSelection(r.Context(), userID); err != nil {
		sendServiceError(w, r, h.logger, "failed to clear selection", err)
		return
	}

	h.sendCart(w, r, userID, http.StatusOK)
}

// Preview обрабатывает GET /api/v1/cart/checkout?mode=&productId=
func (h *CartHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	mode, err := cart.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		sendServiceError(w, r, h.logger, "invalid checkout mode", err)
		return
	}

	items, err := h.cart.CheckoutSet(r.Context(), userID, mode, r.URL.Query().Get("productId"))
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to build checkout", err)
		return
	}

	resp := api.CheckoutPreview{
		Items:  items,
		Totals: cart.ComputeTotals(items),
	}
	sendJSON(w, h.logger, resp, http.StatusOK)
}

// PlaceOrder обрабатывает POST /api/v1/orders
func (h *CartHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req api.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	mode, err := cart.ParseMode(string(req.Mode))
	if err != nil {
		sendServiceError(w, r, h.logger, "invalid checkout mode", err)
		return
	}

	order, err := h.cart.PlaceOrder(r.Context(), cart.OrderRequest{
		UserID:        userID,
		Mode:          mode,
		ProductID:     req.ProductID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		sendServiceError(w, r, h.logger, "failed to place order", err)
		return
	}

	h.orders.OrderPlaced(order.Totals.Total)
	sendJSON(w, h.logger, order, http.StatusCreated)
}

// Orders обрабатывает GET /api/v1/orders
func (h *CartHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	sendJSON(w, h.logger, h.cart.Orders(r.Context(), userID), http.StatusOK)
}
