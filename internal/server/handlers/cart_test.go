package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/pkg/api"
)

func shopProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Backpack", Category: "men's clothing", Price: 100},
		{ID: "2", Name: "T-Shirt", Category: "men's clothing", Price: 20},
		{ID: "local-1", Name: "Air Max", Category: "", Price: 50, IsLocalProduct: true},
	}
}

func shopRouter(t *testing.T) (http.Handler, *recorder) {
	t.Helper()

	rec := &recorder{}
	storefront := &fakeStorefront{products: shopProducts()}
	logger := setupTestLogger()

	sh := NewStorefrontHandler(logger, storefront)
	ch := NewCartHandler(logger, newServices(t).cart, storefront, rec)

	r := chi.NewRouter()
	r.Get("/products", sh.List)
	r.Get("/products/{id}", sh.Get)
	r.Get("/cart", ch.Get)
	r.Post("/cart/items", ch.Add)
	r.Put("/cart/items/{id}", ch.UpdateQuantity)
	r.Delete("/cart/items/{id}", ch.Remove)
	r.Post("/cart/items/{id}/toggle", ch.Toggle)
	r.Post("/cart/selection", ch.SelectAll)
	r.Delete("/cart/selection", ch.ClearSelection)
	r.Get("/cart/checkout", ch.Preview)
	r.Post("/orders", ch.PlaceOrder)
	r.Get("/orders", ch.Orders)
	return r, rec
}

func TestStorefrontHandler(t *testing.T) {
	r, _ := shopRouter(t)

	w := do(t, r, http.MethodGet, "/products", nil, customer())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]models.Product](t, w), 3)

	w = do(t, r, http.MethodGet, "/products?search=CLOTH", nil, customer())
	assert.Len(t, decodeBody[[]models.Product](t, w), 2)

	w = do(t, r, http.MethodGet, "/products?search=air", nil, customer())
	assert.Len(t, decodeBody[[]models.Product](t, w), 1)

	w = do(t, r, http.MethodGet, "/products/2", nil, customer())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T-Shirt", decodeBody[models.Product](t, w).Name)

	w = do(t, r, http.MethodGet, "/products/404", nil, customer())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", errorMessage(t, w))
}

func TestCartHandler_RequiresUser(t *testing.T) {
	r, _ := shopRouter(t)

	w := do(t, r, http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartHandler_AddAndEdit(t *testing.T) {
	r, _ := shopRouter(t)
	user := customer()

	w := do(t, r, http.MethodPost, "/cart/items", api.AddToCartRequest{ProductID: "1"}, user)
	require.Equal(t, http.StatusOK, w.Code)
	cartResp := decodeBody[api.CartResponse](t, w)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 1, cartResp.Items[0].Quantity)

	// повторное добавление увеличивает количество
	w = do(t, r, http.MethodPost, "/cart/items", api.AddToCartRequest{ProductID: "1", Quantity: 2}, user)
	cartResp = decodeBody[api.CartResponse](t, w)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 3, cartResp.Items[0].Quantity)

	w = do(t, r, http.MethodPost, "/cart/items", api.AddToCartRequest{ProductID: "missing"}, user)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/cart/items/1", api.QuantityRequest{Quantity: 5}, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeBody[api.CartResponse](t, w).Items[0].Quantity)

	// вне [1, 20] количество не меняется
	w = do(t, r, http.MethodPut, "/cart/items/1", api.QuantityRequest{Quantity: 21}, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeBody[api.CartResponse](t, w).Items[0].Quantity)

	w = do(t, r, http.MethodDelete, "/cart/items/1", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[api.CartResponse](t, w).Items)

	// корзины пользователей независимы
	w = do(t, r, http.MethodGet, "/cart", nil, &models.Session{UserID: "user-2", Role: models.RoleUser, IsLoggedIn: true})
	assert.Empty(t, decodeBody[api.CartResponse](t, w).Items)
}

func TestCartHandler_CheckoutSelected(t *testing.T) {
	r, rec := shopRouter(t)
	user := customer()

	for _, id := range []string{"1", "2"} {
		require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/cart/items", api.AddToCartRequest{ProductID: id}, user).Code)
	}

	w := do(t, r, http.MethodGet, "/cart/checkout?mode=selected", nil, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please select at least one product", errorMessage(t, w))

	w = do(t, r, http.MethodPost, "/cart/items/2/toggle", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2"}, decodeBody[api.CartResponse](t, w).Selected)

	w = do(t, r, http.MethodGet, "/cart/checkout?mode=selected", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	preview := decodeBody[api.CheckoutPreview](t, w)
	require.Len(t, preview.Items, 1)
	assert.Equal(t, models.Totals{Subtotal: 20, Shipping: 5, VAT: 11, Total: 36}, preview.Totals)

	w = do(t, r, http.MethodPost, "/orders", api.CheckoutRequest{Mode: models.CheckoutSelected}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please select a payment option", errorMessage(t, w))

	w = do(t, r, http.MethodPost, "/orders", api.CheckoutRequest{Mode: models.CheckoutSelected, PaymentMethod: "Paypal"}, user)
	require.Equal(t, http.StatusCreated, w.Code)
	order := decodeBody[models.Order](t, w)
	assert.Equal(t, 36.0, order.Totals.Total)
	assert.Equal(t, []float64{36}, rec.orders)

	// куплена только выбранная позиция
	w = do(t, r, http.MethodGet, "/cart", nil, user)
	cartResp := decodeBody[api.CartResponse](t, w)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, "1", cartResp.Items[0].Product.ID)
	assert.Empty(t, cartResp.Selected)

	w = do(t, r, http.MethodGet, "/orders", nil, user)
	assert.Len(t, decodeBody[[]models.Order](t, w), 1)
}

func TestCartHandler_SelectionAndModes(t *testing.T) {
	r, _ := shopRouter(t)
	user := customer()

	for _, id := range []string{"1", "2"} {
		require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/cart/items", api.AddToCartRequest{ProductID: id}, user).Code)
	}

	w := do(t, r, http.MethodPost, "/cart/selection", nil, user)
	assert.ElementsMatch(t, []string{"1", "2"}, decodeBody[api.CartResponse](t, w).Selected)

	w = do(t, r, http.MethodDelete, "/cart/selection", nil, user)
	assert.Empty(t, decodeBody[api.CartResponse](t, w).Selected)

	w = do(t, r, http.MethodGet, "/cart/checkout?mode=bogus", nil, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/cart/checkout?mode=single&productId=1", nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 105.0+11, decodeBody[api.CheckoutPreview](t, w).Totals.Total)

	w = do(t, r, http.MethodPost, "/orders", api.CheckoutRequest{Mode: models.CheckoutAll, PaymentMethod: "Cash on delivery"}, user)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/cart", nil, user)
	assert.Empty(t, decodeBody[api.CartResponse](t, w).Items)

	w = do(t, r, http.MethodGet, "/cart/checkout?mode=all", nil, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
