// Package event provides an in-process publish/subscribe bus.
//
// Delivery never blocks the publisher. When a subscriber's buffer is full
// the new event is dropped: an undelivered event is already pending for
// that subscriber, so it still learns that something changed.
package event

import (
	"log/slog"
	"sync"
	"time"
)

// Topics published by the catalog and the cart
const (
	TopicProductsChanged = "products.changed"
	TopicOrderPlaced     = "orders.placed"
)

// Event is a single notification
type Event struct {
	At      time.Time
	Payload any
	Topic   string
}

// Bus fans events out to topic subscribers
type Bus struct {
	subs   map[string]map[int]chan Event
	logger *slog.Logger
	nextID int
	mu     sync.RWMutex
}

// NewBus creates an empty bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a subscriber with the given buffer size.
// The returned func unsubscribes and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(topic string, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Publish delivers payload to every current subscriber of topic.
// Returns the number of subscribers that received it.
func (b *Bus) Publish(topic string, payload any) int {
	ev := Event{Topic: topic, Payload: payload, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, ch := range b.subs[topic] {
		select {
		case ch <- ev:
			delivered++
		default:
			b.logger.Debug("subscriber buffer full, event coalesced", "topic", topic, "subscriber", id)
		}
	}

	return delivered
}

// Subscribers returns the number of subscribers of topic
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
