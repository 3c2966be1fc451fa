// Package cart implements the per-user shopping cart, pricing and checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

// Границы количества товара в одной позиции
const (
	MinQuantity = 1
	MaxQuantity = 20
)

var (
	// ErrItemNotFound is returned when the product is not in the cart
	ErrItemNotFound = errors.New("item not in cart")

	// ErrInvalidQuantity is returned when adding less than one unit
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptySelection is returned when checking out the selection with nothing selected
	ErrEmptySelection error = &validation.Error{Message: "Please select at least one product"}

	// ErrEmptyCart is returned when the checkout set has no items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidMode is returned for an unknown checkout mode
	ErrInvalidMode = errors.New("unknown checkout mode")
)

//go:generate moq -out publisher_mock.go . Publisher

// Publisher receives order notifications
type Publisher interface {
	Publish(topic string, payload any) int
}

// Service manages carts and orders
type Service struct {
	json      *storage.JSON
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	number    func() int
	mu        sync.Mutex
}

// NewService creates a cart service
func NewService(js *storage.JSON, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		json:      js,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		number:    func() int { return rand.IntN(100000) },
	}
}

// State returns the stored cart of a user. Missing quantities read as 1.
func (s *Service) State(ctx context.Context, userID string) models.CartState {
	state := models.CartState{Items: []models.CartItem{}, Selected: []string{}}
	s.json.Read(ctx, storage.CartKey(userID), &state)
	for i := range state.Items {
		if state.Items[i].Quantity == 0 {
			state.Items[i].Quantity = MinQuantity
		}
	}
	if state.Items == nil {
		state.Items = []models.CartItem{}
	}
	if state.Selected == nil {
		state.Selected = []string{}
	}
	return state
}

// Items returns cart lines in the order they were added
func (s *Service) Items(ctx context.Context, userID string) []models.CartItem {
	return s.State(ctx, userID).Items
}

// Selected returns product ids marked for checkout
func (s *Service) Selected(ctx context.Context, userID string) []string {
	return s.State(ctx, userID).Selected
}

// mutate applies fn to the latest cart state and persists it
func (s *Service) mutate(ctx context.Context, userID string, fn func(*models.CartState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.State(ctx, userID)
	if err := fn(&state); err != nil {
		return err
	}

	if err := s.json.Write(ctx, storage.CartKey(userID), state); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// AddOrIncrement adds qty units of product, merging with an existing line.
// The resulting quantity is capped at MaxQuantity.
func (s *Service) AddOrIncrement(ctx context.Context, userID string, product models.Product, qty int) (models.CartItem, error) {
	if qty < MinQuantity {
		return models.CartItem{}, ErrInvalidQuantity
	}

	var item models.CartItem
	err := s.mutate(ctx, userID, func(state *models.CartState) error {
		idx := indexOf(state.Items, product.ID)
		if idx >= 0 {
			state.Items[idx].Quantity = min(state.Items[idx].Quantity+qty, MaxQuantity)
			item = state.Items[idx]
			return nil
		}

		item = models.CartItem{
			AddedAt:  s.now(),
			Product:  product,
			Quantity: min(qty, MaxQuantity),
		}
		state.Items = append(state.Items, item)
		return nil
	})
	if err != nil {
		return models.CartItem{}, err
	}

	s.logger.DebugContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateQuantity sets the quantity of a line.
// Values outside [MinQuantity, MaxQuantity] are ignored and false is returned.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (bool, error) {
	if qty < MinQuantity || qty > MaxQuantity {
		return false, nil
	}

	err := s.mutate(ctx, userID, func(state *models.CartState) error {
		idx := indexOf(state.Items, productID)
		if idx < 0 {
			return fmt.Errorf("%s: %w", productID, ErrItemNotFound)
		}
		state.Items[idx].Quantity = qty
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a line and drops it from the selection
func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	return s.mutate(ctx, userID, func(state *models.CartState) error {
		idx := indexOf(state.Items, productID)
		if idx < 0 {
			return fmt.Errorf("%s: %w", productID, ErrItemNotFound)
		}
		state.Items = slices.Delete(state.Items, idx, idx+1)
		state.Selected = slices.DeleteFunc(state.Selected, func(id string) bool { return id == productID })
		return nil
	})
}

// Select marks a line for checkout
func (s *Service) Select(ctx context.Context, userID, productID string) error {
	return s.mutate(ctx, userID, func(state *models.CartState) error {
		if indexOf(state.Items, productID) < 0 {
			return fmt.Errorf("%s: %w", productID, ErrItemNotFound)
		}
		if !slices.Contains(state.Selected, productID) {
			state.Selected = append(state.Selected, productID)
		}
		return nil
	})
}

// Deselect unmarks a line
func (s *Service) Deselect(ctx context.Context, userID, productID string) error {
	return s.mutate(ctx, userID, func(state *models.CartState) error {
		state.Selected = slices.DeleteFunc(state.Selected, func(id string) bool { return id == productID })
		return nil
	})
}

// Toggle flips the selection of a line and reports whether it is now selected
func (s *Service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	var selected bool
	err := s.mutate(ctx, userID, func(state *models.CartState) error {
		if slices.Contains(state.Selected, productID) {
			state.Selected = slices.DeleteFunc(state.Selected, func(id string) bool { return id == productID })
			return nil
		}
		if indexOf(state.Items, productID) < 0 {
			return fmt.Errorf("%s: %w", productID, ErrItemNotFound)
		}
		state.Selected = append(state.Selected, productID)
		selected = true
		return nil
	})
	return selected, err
}

// SelectAll marks every line
func (s *Service) SelectAll(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(state *models.CartState) error {
		state.Selected = make([]string, 0, len(state.Items))
		for _, item := range state.Items {
			state.Selected = append(state.Selected, item.Product.ID)
		}
		return nil
	})
}

// ClearSelection unmarks every line
func (s *Service) ClearSelection(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(state *models.CartState) error {
		state.Selected = []string{}
		return nil
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.json.Delete(ctx, storage.CartKey(userID)); err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	return nil
}

func indexOf(items []models.CartItem, productID string) int {
	return slices.IndexFunc(items, func(item models.CartItem) bool {
		return item.Product.ID == productID
	})
}
