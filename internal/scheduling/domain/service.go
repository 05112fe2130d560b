package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateTimeSlot(ctx context.Context, actorID snowflake.ID, req CreateTimeSlotRequest) (*TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, actorID, slotID snowflake.ID, req UpdateTimeSlotRequest) (*TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, actorID, slotID snowflake.ID) error

	CreateEngagement(ctx context.Context, actorID snowflake.ID, req CreateEngagementRequest) (*Engagement, error)
	UpdateEngagement(ctx context.Context, actorID, engagementID snowflake.ID, req UpdateEngagementRequest) (*Engagement, error)
	DeleteEngagement(ctx context.Context, actorID, engagementID snowflake.ID) error

	// EditionSchedule is the detail view consumed by attendees and the CSV export.
	EditionSchedule(ctx context.Context, editionID snowflake.ID) ([]ScheduleLine, error)
}

type CreateTimeSlotRequest struct {
	StageID   snowflake.ID
	EditionID snowflake.ID
	Title     string
	StartUTC  time.Time
	EndUTC    time.Time
}

type UpdateTimeSlotRequest struct {
	Title    string
	StartUTC time.Time
	EndUTC   time.Time
}

type CreateEngagementRequest struct {
	TimeSlotID snowflake.ID
	ArtistID   snowflake.ID
	Notes      string
}

// UpdateEngagementRequest edits an engagement. A zero ArtistID keeps the
// current artist and only the notes change.
type UpdateEngagementRequest struct {
	ArtistID snowflake.ID
	Notes    string
}

var (
	ErrInvalidStage        = errors.New("invalid_stage")
	ErrInvalidSlot         = errors.New("invalid_time_slot")
	ErrInvalidEdition      = errors.New("invalid_edition")
	ErrInvalidInterval     = errors.New("invalid_interval")
	ErrInvalidArtist       = errors.New("invalid_artist")
	ErrSlotOverlap         = errors.New("slot_overlap")
	ErrSlotEngaged         = errors.New("slot_already_engaged")
	ErrArtistWrongFestival = errors.New("artist_wrong_festival")
	ErrEditionMismatch     = errors.New("edition_festival_mismatch")
	ErrLockContended       = errors.New("scheduling_lock_contended")
)
