package services

import (
	"context"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
	"github.com/mlopezuch/fila-backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RetentionSweeper removes COMPLETED listings once they have outlived the
// configured retention. Removal goes through the regular delete path, so each
// swept listing announces itself to observers like any other delete. Only the
// leader instance sweeps.
type RetentionSweeper struct {
	cron        *cron.Cron
	listingRepo domain.ListingRepository
	listings    *ListingService
	leader      domain.LeaderElection
	retention   time.Duration
	instanceID  string
	log         logger.Logger
}

func NewRetentionSweeper(
	listingRepo domain.ListingRepository,
	listings *ListingService,
	leader domain.LeaderElection,
	retention time.Duration,
	instanceID string,
	log logger.Logger,
) *RetentionSweeper {
	return &RetentionSweeper{
		cron:        cron.New(cron.WithSeconds()),
		listingRepo: listingRepo,
		listings:    listings,
		leader:      leader,
		retention:   retention,
		instanceID:  instanceID,
		log:         log,
	}
}

// Start schedules the sweep. A retention of zero disables it entirely:
// completed listings then stay until deleted by hand.
func (s *RetentionSweeper) Start(ctx context.Context) error {
	if s.retention <= 0 {
		s.log.Info("Retention sweep disabled")
		return nil
	}

	s.log.Info("Starting retention sweeper", "retention", s.retention.String())

	_, err := s.cron.AddFunc("@every 1m", func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *RetentionSweeper) Stop() error {
	s.log.Info("Stopping retention sweeper")
	s.cron.Stop()
	return nil
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	isLeader, err := s.leader.IsLeader(ctx, s.instanceID)
	if err != nil || !isLeader {
		return
	}

	cutoff := time.Now().Add(-s.retention)

	expired, err := s.listingRepo.ListCompletedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error("Failed to list expired listings", "error", err)
		return
	}

	for _, listing := range expired {
		if err := s.listings.DeleteListing(ctx, listing.ID); err != nil {
			s.log.Error("Failed to sweep listing", "listing_id", listing.ID, "error", err)
			continue
		}
		s.log.Info("Swept completed listing", "listing_id", listing.ID)
	}
}
