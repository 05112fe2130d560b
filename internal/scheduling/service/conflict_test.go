package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sqlservernerd/festguide/internal/authorization"
	festivalrepo "github.com/sqlservernerd/festguide/internal/festival/repository"
	"github.com/sqlservernerd/festguide/internal/observability/metrics"
	"github.com/sqlservernerd/festguide/internal/resolver"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"github.com/sqlservernerd/festguide/internal/scheduling/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

// raceBlindRepo reports the pre-checks clear so writes reach the store
// constraints, standing in for a writer that lost a check-then-insert race.
type raceBlindRepo struct {
	domain.Repository
}

func (r *raceBlindRepo) ActiveEngagementExists(ctx context.Context, timeSlotID snowflake.ID) (bool, error) {
	return false, nil
}

func (r *raceBlindRepo) HasOverlap(ctx context.Context, stageID, editionID snowflake.ID, start, end time.Time, excludeID snowflake.ID) (bool, error) {
	return false, nil
}

// exclusionRepo replays the violation the postgres range-exclusion
// constraint returns; sqlite cannot express that constraint itself.
type exclusionRepo struct {
	raceBlindRepo
}

func (r *exclusionRepo) CreateSlot(ctx context.Context, slot domain.TimeSlot) error {
	return errors.New(`ERROR: conflicting key value violates exclusion constraint "ex_time_slots_no_overlap" (SQLSTATE 23P01)`)
}

func (f *fixture) raceBlindService(t *testing.T, repo domain.Repository) domain.Service {
	t.Helper()
	log := zaptest.NewLogger(t)
	return NewService(
		f.db,
		repo,
		festivalrepo.NewRepository(f.db),
		authorization.NewService(f.perms, log),
		resolver.NewResolver(f.db),
		nil,
		f.node,
		f.clock,
		metrics.NewDomain(prometheus.NewRegistry()),
		log,
	)
}

func TestEngagementConstraintViolationSurfacesAsConflict(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 10, 0, 11, 0)

	svc := f.raceBlindService(t, &raceBlindRepo{Repository: repository.NewRepository(f.db)})

	_, err := svc.CreateEngagement(context.Background(), f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	assert.NoError(t, err)

	// The pre-check sees the slot as free, so the second insert lands on
	// the partial unique index and must come back as the domain conflict.
	_, err = svc.CreateEngagement(context.Background(), f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	assert.ErrorIs(t, err, domain.ErrSlotEngaged)
}

func TestSlotExclusionViolationSurfacesAsConflict(t *testing.T) {
	f := newFixture(t)

	svc := f.raceBlindService(t, &exclusionRepo{raceBlindRepo{Repository: repository.NewRepository(f.db)}})

	_, err := svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		Title:     "set",
		StartUTC:  f.at(10, 0),
		EndUTC:    f.at(11, 0),
	})
	assert.ErrorIs(t, err, domain.ErrSlotOverlap)
}
