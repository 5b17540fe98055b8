package services

import (
	"context"
	"testing"
	"time"

	"github.com/mlopezuch/fila-backend/internal/domain"
)

type fakeLeader struct {
	isLeader bool
}

func (l *fakeLeader) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	return l.isLeader, nil
}

func (l *fakeLeader) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	return l.isLeader, nil
}

func (l *fakeLeader) ReleaseLeadership(ctx context.Context, instanceID string) error {
	l.isLeader = false
	return nil
}

func newSweeperFixture(t *testing.T, retention time.Duration, isLeader bool) (*RetentionSweeper, *fakeListingRepo, *fakePublisher) {
	t.Helper()
	repo := newFakeListingRepo()
	pub := &fakePublisher{}
	svc := NewListingService(repo, pub, false, noopLogger{})
	sweeper := NewRetentionSweeper(repo, svc, &fakeLeader{isLeader: isLeader}, retention, "test-instance", noopLogger{})
	return sweeper, repo, pub
}

func seedCompleted(t *testing.T, repo *fakeListingRepo, id string, completedAt time.Time) {
	t.Helper()
	err := repo.Insert(context.Background(), &domain.Listing{
		ID:        id,
		Title:     "Mow lawn",
		Status:    domain.StatusCompleted,
		CreatedAt: completedAt,
		UpdatedAt: completedAt,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestSweepDeletesExpiredCompleted(t *testing.T) {
	sweeper, repo, pub := newSweeperFixture(t, time.Hour, true)

	seedCompleted(t, repo, "old", time.Now().Add(-2*time.Hour))
	seedCompleted(t, repo, "fresh", time.Now().Add(-time.Minute))
	if err := repo.Insert(context.Background(), &domain.Listing{
		ID:        "open",
		Title:     "Walk dog",
		Status:    domain.StatusAvailable,
		CreatedAt: time.Now().Add(-3 * time.Hour),
		UpdatedAt: time.Now().Add(-3 * time.Hour),
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	sweeper.sweep(context.Background())

	if _, err := repo.Get(context.Background(), "old"); err == nil {
		t.Error("expired listing survived the sweep")
	}
	if _, err := repo.Get(context.Background(), "fresh"); err != nil {
		t.Error("fresh completed listing was swept")
	}
	if _, err := repo.Get(context.Background(), "open"); err != nil {
		t.Error("non-completed listing was swept")
	}
	if n := pub.countByType(domain.ListingDeleted); n != 1 {
		t.Errorf("expected 1 deleted event from the sweep, got %d", n)
	}
}

func TestSweepRequiresLeadership(t *testing.T) {
	sweeper, repo, pub := newSweeperFixture(t, time.Hour, false)
	seedCompleted(t, repo, "old", time.Now().Add(-2*time.Hour))

	sweeper.sweep(context.Background())

	if _, err := repo.Get(context.Background(), "old"); err != nil {
		t.Error("non-leader instance swept a listing")
	}
	if pub.total() != 0 {
		t.Errorf("non-leader sweep published %d events", pub.total())
	}
}

func TestSweepDisabledAtZeroRetention(t *testing.T) {
	sweeper, _, _ := newSweeperFixture(t, 0, true)

	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sweeper.Stop()

	if n := len(sweeper.cron.Entries()); n != 0 {
		t.Errorf("expected no scheduled jobs with zero retention, got %d", n)
	}
}

func TestSweepScheduled(t *testing.T) {
	sweeper, _, _ := newSweeperFixture(t, time.Hour, true)

	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sweeper.Stop()

	if n := len(sweeper.cron.Entries()); n != 1 {
		t.Errorf("expected 1 scheduled job, got %d", n)
	}
}
