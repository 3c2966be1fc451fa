package cart

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

// Фиксированные сборы для непустого набора позиций
const (
	ShippingFee = 5
	VATFee      = 11
)

// PaymentMethods lists accepted payment options
var PaymentMethods = []string{
	"Direct Bank Transfer",
	"Check Payments",
	"Cash on delivery",
	"Paypal",
}

// ErrPaymentRequired is returned when no known payment method is chosen
var ErrPaymentRequired error = &validation.Error{Message: "Please select a payment option"}

// ComputeTotals prices a set of lines. An empty set costs nothing.
func ComputeTotals(items []models.CartItem) models.Totals {
	if len(items) == 0 {
		return models.Totals{}
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	return models.Totals{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		VAT:      VATFee,
		Total:    subtotal + ShippingFee + VATFee,
	}
}

// ParseMode converts user input to a checkout mode
func ParseMode(s string) (models.CheckoutMode, error) {
	switch mode := models.CheckoutMode(s); mode {
	case models.CheckoutAll, models.CheckoutSelected, models.CheckoutSingle:
		return mode, nil
	case "":
		return models.CheckoutAll, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidMode)
	}
}

// CheckoutSet returns the lines that a checkout in mode would purchase.
// productID is only used by CheckoutSingle.
func (s *Service) CheckoutSet(ctx context.Context, userID string, mode models.CheckoutMode, productID string) ([]models.CartItem, error) {
	state := s.State(ctx, userID)
	return checkoutSet(state, mode, productID)
}

func checkoutSet(state models.CartState, mode models.CheckoutMode, productID string) ([]models.CartItem, error) {
	switch mode {
	case models.CheckoutAll:
		if len(state.Items) == 0 {
			return nil, ErrEmptyCart
		}
		return state.Items, nil

	case models.CheckoutSelected:
		items := make([]models.CartItem, 0, len(state.Selected))
		for _, item := range state.Items {
			if slices.Contains(state.Selected, item.Product.ID) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil, ErrEmptySelection
		}
		return items, nil

	case models.CheckoutSingle:
		idx := indexOf(state.Items, productID)
		if idx < 0 {
			return nil, fmt.Errorf("%s: %w", productID, ErrItemNotFound)
		}
		return []models.CartItem{state.Items[idx]}, nil

	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrInvalidMode)
	}
}

// OrderRequest describes a checkout
type OrderRequest struct {
	UserID        string
	Mode          models.CheckoutMode
	ProductID     string // для CheckoutSingle
	PaymentMethod string
}

// PlaceOrder purchases the checkout set, appends an order and removes
// exactly the purchased lines from the cart.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (models.Order, error) {
	if !slices.Contains(PaymentMethods, req.PaymentMethod) {
		return models.Order{}, ErrPaymentRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.State(ctx, req.UserID)
	items, err := checkoutSet(state, req.Mode, req.ProductID)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now()
	order := models.Order{
		CreatedAt:     now,
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
		Mode:          req.Mode,
		Date:          now.Format("02/01/2006"),
		Items:         slices.Clone(items),
		Totals:        ComputeTotals(items),
		Number:        s.number(),
	}

	// история заказов только дополняется: нечитаемую не перезаписываем
	orders := []models.Order{}
	if _, err := s.json.Decode(ctx, storage.KeyOrders, &orders); err != nil {
		return models.Order{}, fmt.Errorf("failed to load orders: %w", err)
	}
	if err := s.json.Write(ctx, storage.KeyOrders, append(orders, order)); err != nil {
		return models.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	purchased := make(map[string]struct{}, len(items))
	for _, item := range items {
		purchased[item.Product.ID] = struct{}{}
	}
	state.Items = slices.DeleteFunc(state.Items, func(item models.CartItem) bool {
		_, ok := purchased[item.Product.ID]
		return ok
	})
	state.Selected = slices.DeleteFunc(state.Selected, func(id string) bool {
		_, ok := purchased[id]
		return ok
	})

	// Заказ уже сохранён: ошибка корзины не отменяет его
	if err := s.json.Write(ctx, storage.CartKey(req.UserID), state); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove purchased items from cart",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
	}

	s.publisher.Publish(event.TopicOrderPlaced, order)
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", req.UserID),
		slog.Int("number", order.Number),
		slog.Float64("total", order.Totals.Total))

	return order, nil
}

// Orders returns the order history of a user, oldest first.
// An empty userID returns every order.
func (s *Service) Orders(ctx context.Context, userID string) []models.Order {
	orders := []models.Order{}
	s.json.Read(ctx, storage.KeyOrders, &orders)
	if userID == "" {
		return orders
	}
	return slices.DeleteFunc(orders, func(o models.Order) bool { return o.UserID != userID })
}
