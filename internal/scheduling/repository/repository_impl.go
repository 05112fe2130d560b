package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateSlot(ctx context.Context, slot domain.TimeSlot) error {
	return r.db.WithContext(ctx).Create(&slot).Error
}

func (r *repository) GetSlot(ctx context.Context, id snowflake.ID) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *repository) UpdateSlot(ctx context.Context, slot domain.TimeSlot) error {
	return r.db.WithContext(ctx).Save(&slot).Error
}

func (r *repository) SoftDeleteSlot(ctx context.Context, id snowflake.ID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.TimeSlot{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "updated_at": at}).Error
}

// Half-open interval intersection: start1 < end2 AND end1 > start2.
func (r *repository) HasOverlap(ctx context.Context, stageID, editionID snowflake.ID, start, end time.Time, excludeID snowflake.ID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.TimeSlot{}).
		Where("stage_id = ? AND edition_id = ? AND deleted_at IS NULL", stageID, editionID).
		Where("start_utc < ? AND end_utc > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListSlotsByEdition(ctx context.Context, editionID snowflake.ID) ([]domain.TimeSlot, error) {
	var out []domain.TimeSlot
	err := r.db.WithContext(ctx).
		Where("edition_id = ? AND deleted_at IS NULL", editionID).
		Order("start_utc ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListScheduleLines(ctx context.Context, editionID snowflake.ID) ([]domain.ScheduleLine, error) {
	var lines []domain.ScheduleLine
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.id AS slot_id,
		        t.stage_id,
		        s.name AS stage_name,
		        t.title,
		        t.start_utc,
		        t.end_utc,
		        COALESCE(g.artist_id, 0) AS artist_id,
		        COALESCE(a.name, '') AS artist_name
		 FROM time_slots t
		 JOIN stages s ON s.id = t.stage_id
		 LEFT JOIN engagements g ON g.time_slot_id = t.id AND g.deleted_at IS NULL
		 LEFT JOIN artists a ON a.id = g.artist_id
		 WHERE t.edition_id = ? AND t.deleted_at IS NULL
		 ORDER BY t.start_utc ASC, s.name ASC`,
		editionID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) CreateEngagement(ctx context.Context, e domain.Engagement) error {
	return r.db.WithContext(ctx).Create(&e).Error
}

func (r *repository) GetEngagement(ctx context.Context, id snowflake.ID) (*domain.Engagement, error) {
	var e domain.Engagement
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) UpdateEngagement(ctx context.Context, e domain.Engagement) error {
	return r.db.WithContext(ctx).Save(&e).Error
}

func (r *repository) SoftDeleteEngagement(ctx context.Context, id snowflake.ID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Engagement{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": at, "updated_at": at}).Error
}

func (r *repository) ActiveEngagementExists(ctx context.Context, timeSlotID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Engagement{}).
		Where("time_slot_id = ? AND deleted_at IS NULL", timeSlotID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
