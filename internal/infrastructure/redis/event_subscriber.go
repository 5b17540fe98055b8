package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

func (r *RedisEventSubscriber) SubscribeToChangeEvents(ctx context.Context, handler domain.EventHandler) error {
	pubsub := r.client.Subscribe(ctx, "listing_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to listing events")

	for {
		select {
		case msg := <-ch:
			event, err := r.parseEventData(msg.Payload)
			if err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(event); err != nil {
				r.log.Error("Failed to handle event", "event", event, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}

func (r *RedisEventSubscriber) parseEventData(payload string) (*domain.ChangeEvent, error) {
	// Parse "listingID:eventType:timestamp"
	parts := strings.Split(payload, ":")
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid event format: %s", payload)
	}

	timestamp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, err
	}

	return &domain.ChangeEvent{
		ListingID: parts[0],
		Type:      domain.ChangeEventType(parts[1]),
		Timestamp: time.Unix(timestamp, 0),
	}, nil
}
