// Package domain defines the schedule-change fan-out contract.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ChangeDescriptor tells attendees what moved.
type ChangeDescriptor struct {
	EditionID   string    `json:"edition_id"`
	Version     int64     `json:"version"`
	PublishedAt time.Time `json:"published_at"`
}

// Notifier fans a schedule change out to affected attendees. Callers treat
// it as fire-and-forget: a failed notification never rolls back a publish.
type Notifier interface {
	NotifyScheduleChanged(ctx context.Context, editionID snowflake.ID, change ChangeDescriptor) error
}

// DeviceToken is a push target registered by an attendee.
type DeviceToken struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SubjectID snowflake.ID `gorm:"column:subject_id;not null;index" json:"subject_id"`
	Token     string       `gorm:"type:text;not null;uniqueIndex:ux_device_tokens_token" json:"token"`
	Platform  string       `gorm:"type:text;not null" json:"platform"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DeviceToken) TableName() string { return "device_tokens" }
