// Package domain contains persistence models for festivals and their
// subordinate resources.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Festival is the permission root for everything beneath it.
type Festival struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Slug        string            `gorm:"type:text;not null;uniqueIndex:ux_festivals_slug" json:"slug"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Festival) TableName() string { return "festivals" }

type EditionStatus string

const (
	EditionDraft     EditionStatus = "draft"
	EditionAnnounced EditionStatus = "announced"
	EditionPublished EditionStatus = "published"
	EditionArchived  EditionStatus = "archived"
)

// Edition is one year's (or run's) instance of a festival.
type Edition struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	FestivalID snowflake.ID  `gorm:"column:festival_id;not null;index" json:"festival_id"`
	Name       string        `gorm:"type:text;not null" json:"name"`
	Status     EditionStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	StartsOn   time.Time     `gorm:"column:starts_on;not null" json:"starts_on"`
	EndsOn     time.Time     `gorm:"column:ends_on;not null" json:"ends_on"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Edition) TableName() string { return "editions" }

type Venue struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	FestivalID snowflake.ID `gorm:"column:festival_id;not null;index" json:"festival_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Address    string       `gorm:"type:text" json:"address"`
	City       string       `gorm:"type:text" json:"city"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Venue) TableName() string { return "venues" }

type Stage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	VenueID   snowflake.ID `gorm:"column:venue_id;not null;index" json:"venue_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Capacity  int          `gorm:"not null;default:0" json:"capacity"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Stage) TableName() string { return "stages" }

type Artist struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	FestivalID snowflake.ID `gorm:"column:festival_id;not null;index" json:"festival_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Genre      string       `gorm:"type:text" json:"genre"`
	Bio        string       `gorm:"type:text" json:"bio"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Artist) TableName() string { return "artists" }
