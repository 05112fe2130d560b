package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlservernerd/festguide/internal/authorization"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
)

func TestCreateEngagementBindsArtist(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 14, 0, 15, 0)

	e, err := f.svc.CreateEngagement(context.Background(), f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
		Notes:      "headline set",
	})
	require.NoError(t, err)
	assert.Equal(t, slot.ID, e.TimeSlotID)
	assert.Equal(t, f.artistID, e.ArtistID)
}

func TestSecondEngagementOnSlotRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.createSlot(t, 14, 0, 15, 0)

	now := f.clock.Now()
	other := festivaldomain.Artist{
		ID: f.node.Generate(), FestivalID: f.festivalID, Name: "Night Ferry",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&other).Error)

	_, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   other.ID,
	})
	assert.ErrorIs(t, err, domain.ErrSlotEngaged)
}

func TestDeletedEngagementFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.createSlot(t, 14, 0, 15, 0)

	e, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteEngagement(ctx, f.managerID, e.ID))

	_, err = f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	require.NoError(t, err)
}

func TestEngageArtistFromOtherFestivalRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.createSlot(t, 14, 0, 15, 0)

	now := f.clock.Now()
	otherFestival := f.node.Generate()
	require.NoError(t, f.db.Create(&festivaldomain.Festival{
		ID: otherFestival, Name: "Winter Waves", Slug: "winter-waves",
		CreatedAt: now, UpdatedAt: now,
	}).Error)
	stranger := festivaldomain.Artist{
		ID: f.node.Generate(), FestivalID: otherFestival, Name: "Polar Drift",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&stranger).Error)

	_, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   stranger.ID,
	})
	assert.ErrorIs(t, err, domain.ErrArtistWrongFestival)
}

func TestUpdateEngagementReplacesArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.createSlot(t, 14, 0, 15, 0)

	now := f.clock.Now()
	replacement := festivaldomain.Artist{
		ID: f.node.Generate(), FestivalID: f.festivalID, Name: "Night Ferry",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&replacement).Error)

	e, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateEngagement(ctx, f.managerID, e.ID, domain.UpdateEngagementRequest{
		ArtistID: replacement.ID,
		Notes:    "lineup change",
	})
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, updated.ArtistID)
	assert.Equal(t, "lineup change", updated.Notes)
}

func TestUpdateEngagementNotesOnlyKeepsArtist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.createSlot(t, 14, 0, 15, 0)

	e, err := f.svc.CreateEngagement(ctx, f.managerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
		Notes:      "soundcheck 13:00",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateEngagement(ctx, f.managerID, e.ID, domain.UpdateEngagementRequest{
		Notes: "soundcheck moved to 12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, f.artistID, updated.ArtistID)
	assert.Equal(t, "soundcheck moved to 12:30", updated.Notes)
}

func TestViewerCannotEngage(t *testing.T) {
	f := newFixture(t)
	slot := f.createSlot(t, 14, 0, 15, 0)

	_, err := f.svc.CreateEngagement(context.Background(), f.viewerID, domain.CreateEngagementRequest{
		TimeSlotID: slot.ID,
		ArtistID:   f.artistID,
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}
