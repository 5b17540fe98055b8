package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ListingRepository interface {
	Insert(ctx context.Context, listing *Listing) error
	Get(ctx context.Context, listingID string) (*Listing, error)
	ListAll(ctx context.Context) ([]*Listing, error)
	// MarkBooked flips AVAILABLE -> BOOKED and stamps the booker in one
	// guarded statement. Returns false when the guard matched no row.
	MarkBooked(ctx context.Context, listingID, clientID string) (bool, error)
	// MarkCompleted flips any of the given statuses to COMPLETED. Returns
	// false when the guard matched no row.
	MarkCompleted(ctx context.Context, listingID string, from ...ListingStatus) (bool, error)
	// Delete removes the row at any status. Returns false when absent.
	Delete(ctx context.Context, listingID string) (bool, error)
	ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]*Listing, error)
}

// Event interfaces
type EventPublisher interface {
	PublishChangeEvent(ctx context.Context, event *ChangeEvent) error
}

type EventSubscriber interface {
	SubscribeToChangeEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *ChangeEvent) error

// Notification interfaces
type Broadcaster interface {
	Broadcast(signal interface{})
}

// Observer is a long-lived connected client awaiting change signals.
type Observer interface {
	Send(message []byte) error
	Close() error
	ID() string
}

type ObserverRegistry interface {
	Register(obs Observer)
	Unregister(observerID string)
	Broadcast(signal interface{})
	Count() int
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
