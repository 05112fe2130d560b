package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateFestival(ctx context.Context, ownerID snowflake.ID, req CreateFestivalRequest) (*FestivalResponse, error)
	GetFestival(ctx context.Context, id snowflake.ID) (*FestivalResponse, error)
	UpdateFestival(ctx context.Context, actorID, festivalID snowflake.ID, req UpdateFestivalRequest) (*FestivalResponse, error)
	ListFestivals(ctx context.Context, subjectID snowflake.ID) ([]FestivalListResponseItem, error)

	CreateEdition(ctx context.Context, actorID snowflake.ID, req CreateEditionRequest) (*Edition, error)
	ListEditions(ctx context.Context, festivalID snowflake.ID) ([]Edition, error)

	CreateVenue(ctx context.Context, actorID snowflake.ID, req CreateVenueRequest) (*Venue, error)
	CreateStage(ctx context.Context, actorID snowflake.ID, req CreateStageRequest) (*Stage, error)
	UpdateStage(ctx context.Context, actorID, stageID snowflake.ID, req UpdateStageRequest) (*Stage, error)
	DeleteStage(ctx context.Context, actorID, stageID snowflake.ID) error

	CreateArtist(ctx context.Context, actorID snowflake.ID, req CreateArtistRequest) (*Artist, error)
	ListArtists(ctx context.Context, festivalID snowflake.ID) ([]Artist, error)
}

type CreateFestivalRequest struct {
	Name        string
	Description string
}

// UpdateFestivalRequest changes display fields only; the slug is derived at
// creation and stays stable so published links keep working.
type UpdateFestivalRequest struct {
	Name        string
	Description string
}

type UpdateStageRequest struct {
	Name     string
	Capacity int
}

type CreateEditionRequest struct {
	FestivalID snowflake.ID
	Name       string
	StartsOn   time.Time
	EndsOn     time.Time
}

type CreateVenueRequest struct {
	FestivalID snowflake.ID
	Name       string
	Address    string
	City       string
}

type CreateStageRequest struct {
	VenueID  snowflake.ID
	Name     string
	Capacity int
}

type CreateArtistRequest struct {
	FestivalID snowflake.ID
	Name       string
	Genre      string
	Bio        string
}

type FestivalResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type FestivalListResponseItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidOwner    = errors.New("invalid_owner")
	ErrInvalidFestival = errors.New("invalid_festival")
	ErrInvalidVenue    = errors.New("invalid_venue")
	ErrInvalidDates    = errors.New("invalid_dates")
	ErrSlugTaken       = errors.New("slug_taken")
	ErrStageInUse      = errors.New("stage_has_slots")
)
