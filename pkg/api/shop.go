package api

import "github.com/iudanet/shopfront/internal/models"

// NameRequest создаёт или переименовывает бренд
type NameRequest struct {
	Name string `json:"name"`
}

// PartnerRequest создаёт или изменяет партнёра
type PartnerRequest struct {
	Name    string `json:"name"`
	BrandID string `json:"brandId"`
}

// CollectionRequest создаёт или изменяет коллекцию
type CollectionRequest struct {
	Name      string `json:"name"`
	BrandID   string `json:"brandId"`
	PartnerID string `json:"partnerId"`
}

// ProductRequest создаёт или изменяет товар. Price принимается строкой, как в форме
type ProductRequest struct {
	Name         string `json:"name"`
	BrandID      string `json:"brandId"`
	PartnerID    string `json:"partnerId"`
	CollectionID string `json:"collectionId"`
	Color        string `json:"color"`
	Size         string `json:"size"`
	Price        string `json:"price"`
	Image        string `json:"image"` // data URI
	ImageName    string `json:"imageName"`
}

// AddToCartRequest добавляет товар витрины в корзину
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// QuantityRequest меняет количество позиции
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse описывает корзину пользователя
type CartResponse struct {
	Items    []models.CartItem `json:"items"`
	Selected []string          `json:"selected"`
	Totals   models.Totals     `json:"totals"`
}

// CheckoutRequest оформляет заказ
type CheckoutRequest struct {
	Mode          models.CheckoutMode `json:"mode"`
	ProductID     string              `json:"productId,omitempty"`
	PaymentMethod string              `json:"paymentMethod"`
}

// CheckoutPreview показывает состав и стоимость будущего заказа
type CheckoutPreview struct {
	Items  []models.CartItem `json:"items"`
	Totals models.Totals     `json:"totals"`
}

// ProductEvent is pushed to websocket subscribers when the storefront changes
type ProductEvent struct {
	Type   string `json:"type"`
	Local  int    `json:"local"`
	Feed   int    `json:"feed"`
	Merged int    `json:"merged"`
}
