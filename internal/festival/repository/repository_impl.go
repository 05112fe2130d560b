package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/festival/domain"
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

func (r *repository) CreateFestival(ctx context.Context, f domain.Festival) error {
	return r.db.WithContext(ctx).Create(&f).Error
}

func (r *repository) GetFestival(ctx context.Context, id snowflake.ID) (*domain.Festival, error) {
	var f domain.Festival
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) UpdateFestival(ctx context.Context, f domain.Festival) error {
	return r.db.WithContext(ctx).Save(&f).Error
}

func (r *repository) ListFestivalsBySubject(ctx context.Context, subjectID snowflake.ID) ([]domain.FestivalListItem, error) {
	var items []domain.FestivalListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT f.id, f.name, f.slug, p.role, f.created_at
		 FROM festivals f
		 JOIN permissions p ON p.festival_id = f.id
		 WHERE p.subject_id = ? AND p.is_pending = ? AND p.is_revoked = ?
		 ORDER BY f.created_at ASC`,
		subjectID, false, false,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateEdition(ctx context.Context, e domain.Edition) error {
	return r.db.WithContext(ctx).Create(&e).Error
}

func (r *repository) GetEdition(ctx context.Context, id snowflake.ID) (*domain.Edition, error) {
	var e domain.Edition
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListEditions(ctx context.Context, festivalID snowflake.ID) ([]domain.Edition, error) {
	var out []domain.Edition
	err := r.db.WithContext(ctx).
		Where("festival_id = ?", festivalID).
		Order("starts_on ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateEditionStatus(ctx context.Context, id snowflake.ID, status domain.EditionStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Edition{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at}).Error
}

func (r *repository) CreateVenue(ctx context.Context, v domain.Venue) error {
	return r.db.WithContext(ctx).Create(&v).Error
}

func (r *repository) GetVenue(ctx context.Context, id snowflake.ID) (*domain.Venue, error) {
	var v domain.Venue
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) CreateStage(ctx context.Context, s domain.Stage) error {
	return r.db.WithContext(ctx).Create(&s).Error
}

func (r *repository) GetStage(ctx context.Context, id snowflake.ID) (*domain.Stage, error) {
	var s domain.Stage
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) UpdateStage(ctx context.Context, s domain.Stage) error {
	return r.db.WithContext(ctx).Save(&s).Error
}

func (r *repository) DeleteStage(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Stage{}, "id = ?", id).Error
}

func (r *repository) StageInUse(ctx context.Context, id snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("time_slots").
		Where("stage_id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateArtist(ctx context.Context, a domain.Artist) error {
	return r.db.WithContext(ctx).Create(&a).Error
}

func (r *repository) GetArtist(ctx context.Context, id snowflake.ID) (*domain.Artist, error) {
	var a domain.Artist
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListArtists(ctx context.Context, festivalID snowflake.ID) ([]domain.Artist, error) {
	var out []domain.Artist
	err := r.db.WithContext(ctx).
		Where("festival_id = ?", festivalID).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
