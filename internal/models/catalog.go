package models

import "time"

// Brand представляет бренд каталога
type Brand struct {
	ID   string `json:"id"`   // UUID бренда
	Name string `json:"name"` // отображаемое имя
}

// Partner представляет партнёра, принадлежащего бренду
type Partner struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BrandID string `json:"brandId"` // ссылка на Brand.ID
}

// Collection представляет коллекцию конкретной пары бренд/партнёр
type Collection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BrandID   string `json:"brandId"`
	PartnerID string `json:"partnerId"`
}

// Rating содержит рейтинг товара
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product представляет товар.
// Локальные товары создаются администратором, внешние приходят из фида и
// нормализуются в ту же форму.
type Product struct {
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BrandID        string    `json:"brandId,omitempty"`
	PartnerID      string    `json:"partnerId,omitempty"`
	CollectionID   string    `json:"collectionId,omitempty"`
	Color          string    `json:"color,omitempty"`
	Size           string    `json:"size,omitempty"`
	Image          string    `json:"image"`               // data URI или URL внешнего фида
	ImageName      string    `json:"imageName,omitempty"` // исходное имя загруженного файла
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category,omitempty"`
	Rating         Rating    `json:"rating"`
	Price          float64   `json:"price"`
	SKU            int64     `json:"sku"` // последовательный номер: max(sku)+1
	IsLocalProduct bool      `json:"isLocalProduct"`
}

// Методы ниже нужны обобщённому репозиторию каталога

// GetID returns the brand id.
func (b Brand) GetID() string { return b.ID }

// GetName returns the brand name.
func (b Brand) GetName() string { return b.Name }

func (p Partner) GetID() string   { return p.ID }
func (p Partner) GetName() string { return p.Name }

func (c Collection) GetID() string   { return c.ID }
func (c Collection) GetName() string { return c.Name }

func (p Product) GetID() string   { return p.ID }
func (p Product) GetName() string { return p.Name }
