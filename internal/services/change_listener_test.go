package services

import (
	"testing"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
)

type fakeBroadcaster struct {
	signals []interface{}
}

func (b *fakeBroadcaster) Broadcast(signal interface{}) {
	b.signals = append(b.signals, signal)
}

func TestHandleChangeEventBroadcastsUpdate(t *testing.T) {
	eventTypes := []domain.ChangeEventType{
		domain.ListingCreated,
		domain.ListingBooked,
		domain.ListingCompleted,
		domain.ListingDeleted,
	}

	for _, eventType := range eventTypes {
		t.Run(string(eventType), func(t *testing.T) {
			hub := &fakeBroadcaster{}
			listener := NewChangeListener(hub, noopLogger{})

			err := listener.handleChangeEvent(&domain.ChangeEvent{
				Type:      eventType,
				ListingID: "listing-1",
				Timestamp: time.Now(),
			})
			if err != nil {
				t.Fatalf("handleChangeEvent: %v", err)
			}

			if len(hub.signals) != 1 {
				t.Fatalf("expected 1 broadcast, got %d", len(hub.signals))
			}
			signal, ok := hub.signals[0].(map[string]string)
			if !ok {
				t.Fatalf("unexpected signal type %T", hub.signals[0])
			}
			if signal["type"] != "update" {
				t.Errorf("signal type = %q, want update", signal["type"])
			}
		})
	}
}

func TestUnknownEventTypeIsRejected(t *testing.T) {
	hub := &fakeBroadcaster{}
	listener := NewChangeListener(hub, noopLogger{})

	err := listener.handleChangeEvent(&domain.ChangeEvent{
		Type:      domain.ChangeEventType("listing_vaporized"),
		ListingID: "listing-1",
		Timestamp: time.Now(),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown event type")
	}
	if len(hub.signals) != 0 {
		t.Errorf("unknown event type broadcast %d signals", len(hub.signals))
	}
}
