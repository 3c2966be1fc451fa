package models

import "time"

// Order представляет оформленный заказ. После создания не изменяется.
type Order struct {
	CreatedAt     time.Time    `json:"createdAt"`
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	PaymentMethod string       `json:"paymentMethod"`
	Mode          CheckoutMode `json:"mode"`
	Date          string       `json:"date"` // dd/mm/yyyy
	Items         []CartItem   `json:"items"`
	Totals        Totals       `json:"totals"`
	Number        int          `json:"orderNumber"`
}
