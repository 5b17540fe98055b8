package domain

import (
	"time"
)

// Listing is a posted offer with a fixed price and location. Its status only
// ever moves forward along AVAILABLE -> BOOKED -> COMPLETED.
type Listing struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Price     int           `json:"price"`
	Lat       float64       `json:"lat"`
	Lng       float64       `json:"lng"`
	Status    ListingStatus `json:"status"`
	UserID    string        `json:"user_id,omitempty"`
	UserName  string        `json:"user_name,omitempty"`
	UserPhoto string        `json:"user_photo,omitempty"`
	ClientID  *string       `json:"client_id,omitempty"` // set when booked
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ListingStatus string

const (
	StatusAvailable ListingStatus = "AVAILABLE"
	StatusBooked    ListingStatus = "BOOKED"
	StatusCompleted ListingStatus = "COMPLETED"
)

// Rank orders statuses along the lifecycle. Transitions must never move to a
// lower rank.
func (s ListingStatus) Rank() int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusBooked:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

type ChangeEvent struct {
	Type      ChangeEventType `json:"type"`
	ListingID string          `json:"listing_id"`
	Timestamp time.Time       `json:"timestamp"`
}

type ChangeEventType string

const (
	ListingCreated   ChangeEventType = "listing_created"
	ListingBooked    ChangeEventType = "listing_booked"
	ListingCompleted ChangeEventType = "listing_completed"
	ListingDeleted   ChangeEventType = "listing_deleted"
)
