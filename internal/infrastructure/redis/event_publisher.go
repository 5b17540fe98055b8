package redis

import (
	"context"
	"fmt"

	"github.com/mlopezuch/fila-backend/internal/domain"

	"github.com/go-redis/redis/v8"
)

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishChangeEvent(ctx context.Context, event *domain.ChangeEvent) error {
	eventData := fmt.Sprintf("%s:%s:%d",
		event.ListingID, event.Type, event.Timestamp.Unix())

	return r.client.Publish(ctx, "listing_events", eventData).Err()
}
