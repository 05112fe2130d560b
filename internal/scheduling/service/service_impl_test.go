package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sqlservernerd/festguide/internal/authorization"
	"github.com/sqlservernerd/festguide/internal/clock"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	festivalrepo "github.com/sqlservernerd/festguide/internal/festival/repository"
	"github.com/sqlservernerd/festguide/internal/observability/metrics"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	permissionrepo "github.com/sqlservernerd/festguide/internal/permission/repository"
	"github.com/sqlservernerd/festguide/internal/resolver"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"github.com/sqlservernerd/festguide/internal/scheduling/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   domain.Service
	perms permissiondomain.Repository
	node  *snowflake.Node
	clock *clock.FakeClock

	festivalID snowflake.ID
	editionID  snowflake.ID
	stageID    snowflake.ID
	artistID   snowflake.ID
	managerID  snowflake.ID
	viewerID   snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&festivaldomain.Festival{},
		&festivaldomain.Edition{},
		&festivaldomain.Venue{},
		&festivaldomain.Stage{},
		&festivaldomain.Artist{},
		&permissiondomain.Permission{},
		&domain.TimeSlot{},
		&domain.Engagement{},
	))
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_engagements_active_slot
		ON engagements (time_slot_id) WHERE deleted_at IS NULL`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	perms := permissionrepo.NewRepository(db)
	fests := festivalrepo.NewRepository(db)
	f := &fixture{
		db:    db,
		perms: perms,
		node:  node,
		clock: clk,
	}
	f.svc = NewService(
		db,
		repository.NewRepository(db),
		fests,
		authorization.NewService(perms, log),
		resolver.NewResolver(db),
		nil,
		node,
		clk,
		metrics.NewDomain(prometheus.NewRegistry()),
		log,
	)

	f.seedWorld(t)
	return f
}

func (f *fixture) seedWorld(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := f.clock.Now()

	f.festivalID = f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Festival{
		ID: f.festivalID, Name: "Summer Sound", Slug: "summer-sound",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	f.editionID = f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Edition{
		ID: f.editionID, FestivalID: f.festivalID, Name: "2025",
		Status:   festivaldomain.EditionDraft,
		StartsOn: now, EndsOn: now.AddDate(0, 0, 3),
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	venueID := f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Venue{
		ID: venueID, FestivalID: f.festivalID, Name: "Riverside Park",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	f.stageID = f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Stage{
		ID: f.stageID, VenueID: venueID, Name: "Main Stage",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	f.artistID = f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Artist{
		ID: f.artistID, FestivalID: f.festivalID, Name: "The Hailstones",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	f.managerID = f.node.Generate()
	f.viewerID = f.node.Generate()
	for _, g := range []struct {
		subject snowflake.ID
		role    permissiondomain.Role
	}{
		{f.managerID, permissiondomain.RoleManager},
		{f.viewerID, permissiondomain.RoleViewer},
	} {
		require.NoError(t, f.perms.Create(ctx, permissiondomain.Permission{
			ID:         f.node.Generate(),
			FestivalID: f.festivalID,
			SubjectID:  g.subject,
			Role:       g.role,
			Scope:      permissiondomain.ScopeSchedule,
			AcceptedAt: &now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}))
	}
}

func (f *fixture) at(hour, min int) time.Time {
	return time.Date(2025, 7, 4, hour, min, 0, 0, time.UTC)
}

func (f *fixture) createSlot(t *testing.T, startHour, startMin, endHour, endMin int) *domain.TimeSlot {
	t.Helper()
	slot, err := f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		Title:     "set",
		StartUTC:  f.at(startHour, startMin),
		EndUTC:    f.at(endHour, endMin),
	})
	require.NoError(t, err)
	return slot
}

func TestCreateTimeSlotRejectsInvertedInterval(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		StartUTC:  f.at(12, 0),
		EndUTC:    f.at(12, 0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestTouchingSlotsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, 10, 0, 11, 0)
	// [10:00,11:00) and [11:00,12:00) share only the boundary instant.
	f.createSlot(t, 11, 0, 12, 0)
}

func TestOverlappingSlotRejected(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, 10, 0, 11, 0)

	_, err := f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		StartUTC:  f.at(10, 30),
		EndUTC:    f.at(11, 30),
	})
	assert.ErrorIs(t, err, domain.ErrSlotOverlap)

	// Containment conflicts too.
	_, err = f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		StartUTC:  f.at(10, 15),
		EndUTC:    f.at(10, 45),
	})
	assert.ErrorIs(t, err, domain.ErrSlotOverlap)
}

func TestUpdateTimeSlotExcludesItself(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 10, 0, 11, 0)

	// Shifting a slot within its own window must not self-conflict.
	updated, err := f.svc.UpdateTimeSlot(context.Background(), f.managerID, slot.ID, domain.UpdateTimeSlotRequest{
		Title:    "extended set",
		StartUTC: f.at(10, 0),
		EndUTC:   f.at(11, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, "extended set", updated.Title)
}

func TestUpdateTimeSlotConflictsWithNeighbour(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 10, 0, 11, 0)
	f.createSlot(t, 11, 0, 12, 0)

	_, err := f.svc.UpdateTimeSlot(context.Background(), f.managerID, slot.ID, domain.UpdateTimeSlotRequest{
		StartUTC: f.at(10, 0),
		EndUTC:   f.at(11, 30),
	})
	assert.ErrorIs(t, err, domain.ErrSlotOverlap)
}

func TestDeletedSlotFreesItsWindow(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 10, 0, 11, 0)
	require.NoError(t, f.svc.DeleteTimeSlot(context.Background(), f.managerID, slot.ID))

	f.createSlot(t, 10, 0, 11, 0)
}

func TestViewerCannotMutateSchedule(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateTimeSlot(context.Background(), f.viewerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: f.editionID,
		StartUTC:  f.at(10, 0),
		EndUTC:    f.at(11, 0),
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestSlotsOnDifferentStagesMayOverlap(t *testing.T) {
	f := newFixture(t)
	f.createSlot(t, 10, 0, 11, 0)

	now := f.clock.Now()
	otherStage := f.node.Generate()
	var venue festivaldomain.Venue
	require.NoError(t, f.db.First(&venue).Error)
	require.NoError(t, f.db.Create(&festivaldomain.Stage{
		ID: otherStage, VenueID: venue.ID, Name: "Second Stage",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	_, err := f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   otherStage,
		EditionID: f.editionID,
		StartUTC:  f.at(10, 0),
		EndUTC:    f.at(11, 0),
	})
	require.NoError(t, err)
}

func TestCreateTimeSlotEditionFromOtherFestival(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	otherFestival := f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Festival{
		ID: otherFestival, Name: "Winter Waves", Slug: "winter-waves",
		CreatedAt: now, UpdatedAt: now,
	}).Error)
	otherEdition := f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Edition{
		ID: otherEdition, FestivalID: otherFestival, Name: "2025",
		Status:   festivaldomain.EditionDraft,
		StartsOn: now, EndsOn: now.AddDate(0, 0, 2),
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	_, err := f.svc.CreateTimeSlot(context.Background(), f.managerID, domain.CreateTimeSlotRequest{
		StageID:   f.stageID,
		EditionID: otherEdition,
		StartUTC:  f.at(10, 0),
		EndUTC:    f.at(11, 0),
	})
	assert.ErrorIs(t, err, domain.ErrEditionMismatch)
}

func TestEditionScheduleListsEngagedAndOpenSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engaged := f.createSlot(t, 10, 0, 11, 0)
	f.createSlot(t, 11, 0, 12, 0)

	_, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: engaged.ID,
		ArtistID:   f.artistID,
	})
	require.NoError(t, err)

	lines, err := f.svc.EditionSchedule(ctx, f.editionID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, f.artistID, lines[0].ArtistID)
	assert.Equal(t, "The Hailstones", lines[0].ArtistName)
	assert.Zero(t, lines[1].ArtistID)
}
