package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ScheduleLine is one row of an edition's schedule detail view.
type ScheduleLine struct {
	SlotID     snowflake.ID `gorm:"column:slot_id"`
	StageID    snowflake.ID `gorm:"column:stage_id"`
	StageName  string       `gorm:"column:stage_name"`
	Title      string       `gorm:"column:title"`
	StartUTC   time.Time    `gorm:"column:start_utc"`
	EndUTC     time.Time    `gorm:"column:end_utc"`
	ArtistID   snowflake.ID `gorm:"column:artist_id"`
	ArtistName string       `gorm:"column:artist_name"`
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSlot(ctx context.Context, slot TimeSlot) error
	GetSlot(ctx context.Context, id snowflake.ID) (*TimeSlot, error)
	UpdateSlot(ctx context.Context, slot TimeSlot) error
	SoftDeleteSlot(ctx context.Context, id snowflake.ID, at time.Time) error
	// HasOverlap reports whether any live slot on (stage, edition) intersects
	// [start, end), excluding excludeID (pass 0 on create).
	HasOverlap(ctx context.Context, stageID, editionID snowflake.ID, start, end time.Time, excludeID snowflake.ID) (bool, error)
	ListSlotsByEdition(ctx context.Context, editionID snowflake.ID) ([]TimeSlot, error)
	ListScheduleLines(ctx context.Context, editionID snowflake.ID) ([]ScheduleLine, error)

	CreateEngagement(ctx context.Context, e Engagement) error
	GetEngagement(ctx context.Context, id snowflake.ID) (*Engagement, error)
	UpdateEngagement(ctx context.Context, e Engagement) error
	SoftDeleteEngagement(ctx context.Context, id snowflake.ID, at time.Time) error
	// ActiveEngagementExists reports whether the slot already has a live engagement.
	ActiveEngagementExists(ctx context.Context, timeSlotID snowflake.ID) (bool, error)
}
