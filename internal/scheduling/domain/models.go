// Package domain contains the time-slot and engagement models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TimeSlot is a half-open interval [StartUTC, EndUTC) on one stage within
// one edition. Among live slots of a (stage, edition) pair no two intervals
// overlap; slots touching at an endpoint do not conflict.
type TimeSlot struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	StageID   snowflake.ID `gorm:"column:stage_id;not null;index:ix_time_slots_stage_edition" json:"stage_id"`
	EditionID snowflake.ID `gorm:"column:edition_id;not null;index:ix_time_slots_stage_edition" json:"edition_id"`
	Title     string       `gorm:"type:text" json:"title"`
	StartUTC  time.Time    `gorm:"column:start_utc;not null" json:"start_utc"`
	EndUTC    time.Time    `gorm:"column:end_utc;not null" json:"end_utc"`
	DeletedAt *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TimeSlot) TableName() string { return "time_slots" }

// Overlaps reports whether two half-open intervals intersect.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	return t.StartUTC.Before(other.EndUTC) && t.EndUTC.After(other.StartUTC)
}

// Engagement binds one artist to one time slot. At most one engagement per
// slot is live at any time.
type Engagement struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TimeSlotID snowflake.ID `gorm:"column:time_slot_id;not null" json:"time_slot_id"`
	ArtistID   snowflake.ID `gorm:"column:artist_id;not null" json:"artist_id"`
	Notes      string       `gorm:"type:text" json:"notes"`
	DeletedAt  *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Engagement) TableName() string { return "engagements" }
