package redis

import (
	"fmt"
	"testing"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
)

func TestParseEventData(t *testing.T) {
	sub := &RedisEventSubscriber{}

	event, err := sub.parseEventData("listing-123:listing_booked:1700000000")
	if err != nil {
		t.Fatalf("parseEventData: %v", err)
	}
	if event.ListingID != "listing-123" {
		t.Errorf("listing id = %q", event.ListingID)
	}
	if event.Type != domain.ListingBooked {
		t.Errorf("type = %q", event.Type)
	}
	if event.Timestamp.Unix() != 1700000000 {
		t.Errorf("timestamp = %d", event.Timestamp.Unix())
	}
}

func TestParseEventDataRoundTrip(t *testing.T) {
	sub := &RedisEventSubscriber{}
	original := &domain.ChangeEvent{
		Type:      domain.ListingCompleted,
		ListingID: "8f14e45f-ceea-467f-a8d9-d3a1f5b7c001",
		Timestamp: time.Unix(time.Now().Unix(), 0),
	}

	payload := fmt.Sprintf("%s:%s:%d", original.ListingID, original.Type, original.Timestamp.Unix())

	parsed, err := sub.parseEventData(payload)
	if err != nil {
		t.Fatalf("parseEventData: %v", err)
	}
	if parsed.ListingID != original.ListingID {
		t.Errorf("listing id = %q, want %q", parsed.ListingID, original.ListingID)
	}
	if parsed.Type != original.Type {
		t.Errorf("type = %q, want %q", parsed.Type, original.Type)
	}
	if !parsed.Timestamp.Equal(original.Timestamp) {
		t.Errorf("timestamp = %v, want %v", parsed.Timestamp, original.Timestamp)
	}
}

func TestParseEventDataRejectsMalformedPayloads(t *testing.T) {
	sub := &RedisEventSubscriber{}

	payloads := []string{
		"",
		"garbage",
		"listing-123:listing_booked",
		"listing-123:listing_booked:not-a-timestamp",
	}
	for _, payload := range payloads {
		if _, err := sub.parseEventData(payload); err == nil {
			t.Errorf("payload %q parsed without error", payload)
		}
	}
}
