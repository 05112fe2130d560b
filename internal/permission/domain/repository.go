package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, p Permission) error
	GetByID(ctx context.Context, id snowflake.ID) (*Permission, error)
	// Active returns the one non-pending, non-revoked permission for the
	// (festival, subject) pair, or gorm.ErrRecordNotFound.
	Active(ctx context.Context, festivalID, subjectID snowflake.ID) (*Permission, error)
	Pending(ctx context.Context, festivalID, subjectID snowflake.ID) (*Permission, error)
	Owner(ctx context.Context, festivalID snowflake.ID) (*Permission, error)
	ListByFestival(ctx context.Context, festivalID snowflake.ID) ([]Permission, error)
	Update(ctx context.Context, p Permission) error
}
