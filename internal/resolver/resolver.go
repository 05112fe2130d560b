// Package resolver walks a resource to its permission root. Every mutation
// authorizes against the owning festival, so each resource kind gets one
// join query instead of duplicated chain lookups in the services.
package resolver

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Resolver interface {
	FestivalForStage(ctx context.Context, stageID snowflake.ID) (snowflake.ID, error)
	FestivalForEdition(ctx context.Context, editionID snowflake.ID) (snowflake.ID, error)
	FestivalForArtist(ctx context.Context, artistID snowflake.ID) (snowflake.ID, error)
	FestivalForTimeSlot(ctx context.Context, timeSlotID snowflake.ID) (snowflake.ID, error)
	FestivalForEngagement(ctx context.Context, engagementID snowflake.ID) (snowflake.ID, error)
}

type resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) Resolver {
	return &resolver{db: db}
}

func (r *resolver) one(ctx context.Context, query string, id snowflake.ID) (snowflake.ID, error) {
	var row struct {
		FestivalID snowflake.ID `gorm:"column:festival_id"`
	}
	res := r.db.WithContext(ctx).Raw(query, id).Scan(&row)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 || row.FestivalID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return row.FestivalID, nil
}

func (r *resolver) FestivalForStage(ctx context.Context, stageID snowflake.ID) (snowflake.ID, error) {
	return r.one(ctx,
		`SELECT v.festival_id
		 FROM stages s
		 JOIN venues v ON v.id = s.venue_id
		 WHERE s.id = ?`, stageID)
}

func (r *resolver) FestivalForEdition(ctx context.Context, editionID snowflake.ID) (snowflake.ID, error) {
	return r.one(ctx,
		`SELECT e.festival_id
		 FROM editions e
		 WHERE e.id = ?`, editionID)
}

func (r *resolver) FestivalForArtist(ctx context.Context, artistID snowflake.ID) (snowflake.ID, error) {
	return r.one(ctx,
		`SELECT a.festival_id
		 FROM artists a
		 WHERE a.id = ?`, artistID)
}

func (r *resolver) FestivalForTimeSlot(ctx context.Context, timeSlotID snowflake.ID) (snowflake.ID, error) {
	return r.one(ctx,
		`SELECT e.festival_id
		 FROM time_slots t
		 JOIN editions e ON e.id = t.edition_id
		 WHERE t.id = ? AND t.deleted_at IS NULL`, timeSlotID)
}

func (r *resolver) FestivalForEngagement(ctx context.Context, engagementID snowflake.ID) (snowflake.ID, error) {
	return r.one(ctx,
		`SELECT e.festival_id
		 FROM engagements g
		 JOIN time_slots t ON t.id = g.time_slot_id
		 JOIN editions e ON e.id = t.edition_id
		 WHERE g.id = ? AND g.deleted_at IS NULL`, engagementID)
}

var Module = fx.Module("resolver",
	fx.Provide(NewResolver),
)
