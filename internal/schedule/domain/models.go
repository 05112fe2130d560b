// Package domain contains the versioned schedule aggregate.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Schedule tracks publish state for one edition. Version starts at 1 on the
// first publish and moves only forward; there is no unpublish.
type Schedule struct {
	EditionID   snowflake.ID  `gorm:"column:edition_id;primaryKey" json:"edition_id"`
	Version     int64         `gorm:"not null;default:1" json:"version"`
	PublishedAt *time.Time    `gorm:"column:published_at" json:"published_at,omitempty"`
	PublishedBy *snowflake.ID `gorm:"column:published_by" json:"published_by,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Schedule) TableName() string { return "schedules" }

func (s Schedule) IsPublished() bool {
	return s.PublishedAt != nil
}
