package services

import (
	"context"
	"fmt"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"
)

// ChangeListener bridges the Redis change channel to the WebSocket hub. The
// outbound signal is deliberately flat: clients re-fetch the listing set on
// any change instead of patching local state from a diff.
type ChangeListener struct {
	hub domain.Broadcaster
	log logger.Logger
}

func NewChangeListener(hub domain.Broadcaster, log logger.Logger) *ChangeListener {
	return &ChangeListener{
		hub: hub,
		log: log,
	}
}

func (cl *ChangeListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	cl.log.Info("Starting change listener")
	return subscriber.SubscribeToChangeEvents(ctx, cl.handleChangeEvent)
}

func (cl *ChangeListener) handleChangeEvent(event *domain.ChangeEvent) error {
	cl.log.Info("Handling change event", "type", event.Type, "listing_id", event.ListingID)

	switch event.Type {
	case domain.ListingCreated, domain.ListingBooked, domain.ListingCompleted, domain.ListingDeleted:
		cl.hub.Broadcast(map[string]string{"type": "update"})
		return nil
	}

	return fmt.Errorf("unknown event type %+v", *event)
}
