package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type FestivalListItem struct {
	ID        snowflake.ID
	Name      string
	Slug      string
	Role      int16
	CreatedAt time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateFestival(ctx context.Context, f Festival) error
	GetFestival(ctx context.Context, id snowflake.ID) (*Festival, error)
	UpdateFestival(ctx context.Context, f Festival) error
	ListFestivalsBySubject(ctx context.Context, subjectID snowflake.ID) ([]FestivalListItem, error)

	CreateEdition(ctx context.Context, e Edition) error
	GetEdition(ctx context.Context, id snowflake.ID) (*Edition, error)
	ListEditions(ctx context.Context, festivalID snowflake.ID) ([]Edition, error)
	UpdateEditionStatus(ctx context.Context, id snowflake.ID, status EditionStatus, at time.Time) error

	CreateVenue(ctx context.Context, v Venue) error
	GetVenue(ctx context.Context, id snowflake.ID) (*Venue, error)
	CreateStage(ctx context.Context, s Stage) error
	GetStage(ctx context.Context, id snowflake.ID) (*Stage, error)
	UpdateStage(ctx context.Context, s Stage) error
	DeleteStage(ctx context.Context, id snowflake.ID) error
	StageInUse(ctx context.Context, id snowflake.ID) (bool, error)

	CreateArtist(ctx context.Context, a Artist) error
	GetArtist(ctx context.Context, id snowflake.ID) (*Artist, error)
	ListArtists(ctx context.Context, festivalID snowflake.ID) ([]Artist, error)
}
