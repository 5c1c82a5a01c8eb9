package events

import (
	"encoding/json"
	"sync"
	"time"

	"meo-pos/internal/models"
)

const (
	EventOrderCreated = "order_created"
	EventMenuChanged  = "menu_changed"
)

// OrderCreatedPayload is the snapshot event consumers get after a
// successful submission. Totals are minor units.
type OrderCreatedPayload struct {
	RemoteID  int64                `json:"remote_id"`
	SessionID string               `json:"session_id"`
	Subtotal  int64                `json:"subtotal"`
	Tax       int64                `json:"tax"`
	Total     int64                `json:"total"`
	Lines     []models.JournalLine `json:"lines"`
	CreatedAt time.Time            `json:"created_at"`
}

// MenuChangedPayload notes an admin write so listeners can refresh.
type MenuChangedPayload struct {
	Action string `json:"action"` // create, update, delete
	ItemID int64  `json:"item_id"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
