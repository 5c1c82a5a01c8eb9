package events

import (
	"encoding/json"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventOrderCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := OrderCreatedPayload{RemoteID: 42, SessionID: "abc", Total: 64800}
	if err := bus.PublishJSON(EventOrderCreated, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventOrderCreated {
		t.Errorf("expected type %s, got %s", EventOrderCreated, received.Type)
	}

	var decoded OrderCreatedPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.RemoteID != 42 || decoded.Total != 64800 {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: "event"})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Publishing without subscribers must not panic.
	bus.Publish(&Event{Type: "nobody_listens"})

	var nilBus *EventBus
	if err := nilBus.PublishJSON("event", struct{}{}); err != nil {
		t.Errorf("nil bus PublishJSON should be a no-op, got %v", err)
	}
}
