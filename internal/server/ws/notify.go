package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/iudanet/shopfront/internal/productsync"
	"github.com/iudanet/shopfront/pkg/api"
)

// EventProductsChanged тип сообщения об изменении витрины
const EventProductsChanged = "products.changed"

// ProductNotifier returns a productsync change listener that pushes
// the new storefront counters to every client
func (h *Hub) ProductNotifier() func(*productsync.SyncResult) {
	return func(res *productsync.SyncResult) {
		msg, err := json.Marshal(api.ProductEvent{
			Type:   EventProductsChanged,
			Local:  res.Local,
			Feed:   res.Feed,
			Merged: res.Merged,
		})
		if err != nil {
			h.logger.Error("failed to encode product event", slog.Any("error", err))
			return
		}
		h.Broadcast(msg)
	}
}
