package services

import (
	"context"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

type CreateListingParams struct {
	Title     string
	Price     int
	Lat       float64
	Lng       float64
	UserID    string
	UserName  string
	UserPhoto string
}

type ListingService struct {
	listingRepo    domain.ListingRepository
	eventPub       domain.EventPublisher
	requireBooking bool
	listBreaker    *gobreaker.CircuitBreaker
	log            logger.Logger
}

// NewListingService wires the lifecycle state machine. requireBooking selects
// the completion policy: when false, a listing may be completed straight from
// AVAILABLE, matching the historical behavior.
func NewListingService(
	listingRepo domain.ListingRepository,
	eventPub domain.EventPublisher,
	requireBooking bool,
	log logger.Logger,
) *ListingService {
	return &ListingService{
		listingRepo:    listingRepo,
		eventPub:       eventPub,
		requireBooking: requireBooking,
		listBreaker:    newListBreaker(log),
		log:            log,
	}
}

func (s *ListingService) CreateListing(ctx context.Context, params CreateListingParams) (*domain.Listing, error) {
	now := time.Now()
	listing := &domain.Listing{
		ID:        uuid.New().String(),
		Title:     params.Title,
		Price:     params.Price,
		Lat:       params.Lat,
		Lng:       params.Lng,
		Status:    domain.StatusAvailable,
		UserID:    params.UserID,
		UserName:  params.UserName,
		UserPhoto: params.UserPhoto,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.listingRepo.Insert(ctx, listing); err != nil {
		return nil, err
	}

	s.publishChange(ctx, domain.ListingCreated, listing.ID)

	s.log.Info("Listing created", "listing_id", listing.ID)
	return listing, nil
}

// ListListings degrades to an empty set when the store is unreachable, so
// clients keep rendering while the database recovers. The breaker keeps a
// dead database from stalling every request on a connection timeout.
func (s *ListingService) ListListings(ctx context.Context) []*domain.Listing {
	result, err := s.listBreaker.Execute(func() (interface{}, error) {
		return s.listingRepo.ListAll(ctx)
	})
	if err != nil {
		s.log.Warn("Serving empty listing set", "error", err)
		return []*domain.Listing{}
	}

	listings := result.([]*domain.Listing)
	if listings == nil {
		listings = []*domain.Listing{}
	}

	return listings
}

func (s *ListingService) BookListing(ctx context.Context, listingID, clientID string) error {
	listing, err := s.listingRepo.Get(ctx, listingID)
	if err != nil {
		return err
	}

	if listing.Status != domain.StatusAvailable {
		return domain.ErrAlreadyBooked
	}

	if clientID != "" && listing.UserID != "" && clientID == listing.UserID {
		return domain.ErrSelfBooking
	}

	booked, err := s.listingRepo.MarkBooked(ctx, listingID, clientID)
	if err != nil {
		return err
	}
	if !booked {
		return s.bookConflict(ctx, listingID)
	}

	s.publishChange(ctx, domain.ListingBooked, listingID)

	s.log.Info("Listing booked", "listing_id", listingID, "client_id", clientID)
	return nil
}

func (s *ListingService) CompleteListing(ctx context.Context, listingID string) error {
	listing, err := s.listingRepo.Get(ctx, listingID)
	if err != nil {
		return err
	}

	if listing.Status == domain.StatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	if s.requireBooking && listing.Status != domain.StatusBooked {
		return domain.ErrNotBooked
	}

	completed, err := s.listingRepo.MarkCompleted(ctx, listingID, s.completableStatuses()...)
	if err != nil {
		return err
	}
	if !completed {
		return s.completeConflict(ctx, listingID)
	}

	s.publishChange(ctx, domain.ListingCompleted, listingID)

	s.log.Info("Listing completed", "listing_id", listingID)
	return nil
}

func (s *ListingService) DeleteListing(ctx context.Context, listingID string) error {
	deleted, err := s.listingRepo.Delete(ctx, listingID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrListingNotFound
	}

	s.publishChange(ctx, domain.ListingDeleted, listingID)

	s.log.Info("Listing deleted", "listing_id", listingID)
	return nil
}

func (s *ListingService) completableStatuses() []domain.ListingStatus {
	if s.requireBooking {
		return []domain.ListingStatus{domain.StatusBooked}
	}
	return []domain.ListingStatus{domain.StatusAvailable, domain.StatusBooked}
}

// bookConflict names the reason a guarded booking update matched no rows:
// the listing either disappeared or left AVAILABLE between the validation
// read and the update.
func (s *ListingService) bookConflict(ctx context.Context, listingID string) error {
	if _, err := s.listingRepo.Get(ctx, listingID); err != nil {
		return err
	}
	return domain.ErrAlreadyBooked
}

func (s *ListingService) completeConflict(ctx context.Context, listingID string) error {
	listing, err := s.listingRepo.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if s.requireBooking && listing.Status == domain.StatusAvailable {
		return domain.ErrNotBooked
	}
	return domain.ErrAlreadyCompleted
}

// publishChange is best-effort. The mutation is already durable at this
// point; a lost event only delays observers until their next refresh.
func (s *ListingService) publishChange(ctx context.Context, eventType domain.ChangeEventType, listingID string) {
	event := &domain.ChangeEvent{
		Type:      eventType,
		ListingID: listingID,
		Timestamp: time.Now(),
	}

	if err := s.eventPub.PublishChangeEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish change event", "type", string(eventType),
			"listing_id", listingID, "error", err)
	}
}

func newListBreaker(log logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        "listing-reads",
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Info("Circuit breaker state changed", "name", name,
					"from", from.String(), "to", to.String())
			},
		})
}
