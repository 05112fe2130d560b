package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, editionID snowflake.ID) (*Schedule, error)
	Create(ctx context.Context, s Schedule) error
	Update(ctx context.Context, s Schedule) error
}

type Service interface {
	// Publish bumps the edition's schedule version, stamps the publisher,
	// flips the edition to published and fans out the change notification.
	Publish(ctx context.Context, actorID, editionID snowflake.ID) (*PublishResponse, error)
	Get(ctx context.Context, editionID snowflake.ID) (*Schedule, error)
}

type PublishResponse struct {
	EditionID   string    `json:"edition_id"`
	Version     int64     `json:"version"`
	PublishedAt time.Time `json:"published_at"`
	PublishedBy string    `json:"published_by"`
}

var ErrInvalidEdition = errors.New("invalid_edition")
