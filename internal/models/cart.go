package models

import "time"

// CheckoutMode определяет, какая часть корзины участвует в оформлении
type CheckoutMode string

const (
	CheckoutAll      CheckoutMode = "all"      // вся корзина
	CheckoutSelected CheckoutMode = "selected" // выбранные позиции
	CheckoutSingle   CheckoutMode = "single"   // "купить сейчас" для одной позиции
)

// CartItem представляет позицию корзины: снимок товара плюс количество
type CartItem struct {
	AddedAt  time.Time `json:"addedAt"`
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"` // всегда в пределах [1, 20]
}

// LineTotal returns price multiplied by quantity (quantity 0 counts as 1).
func (i CartItem) LineTotal() float64 {
	qty := i.Quantity
	if qty == 0 {
		qty = 1
	}
	return i.Product.Price * float64(qty)
}

// CartState хранит корзину пользователя и набор выбранных позиций
type CartState struct {
	Items    []CartItem `json:"items"`
	Selected []string   `json:"selected"` // product ids, отмеченные для оформления
}

// Totals содержит рассчитанную стоимость набора позиций
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}
