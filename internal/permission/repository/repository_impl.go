package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/permission/domain"
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

func (r *repository) Create(ctx context.Context, p domain.Permission) error {
	return r.db.WithContext(ctx).Create(&p).Error
}

func (r *repository) GetByID(ctx context.Context, id snowflake.ID) (*domain.Permission, error) {
	var p domain.Permission
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Active(ctx context.Context, festivalID, subjectID snowflake.ID) (*domain.Permission, error) {
	var p domain.Permission
	err := r.db.WithContext(ctx).
		Where("festival_id = ? AND subject_id = ? AND is_pending = ? AND is_revoked = ?",
			festivalID, subjectID, false, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Pending(ctx context.Context, festivalID, subjectID snowflake.ID) (*domain.Permission, error) {
	var p domain.Permission
	err := r.db.WithContext(ctx).
		Where("festival_id = ? AND subject_id = ? AND is_pending = ? AND is_revoked = ?",
			festivalID, subjectID, true, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Owner(ctx context.Context, festivalID snowflake.ID) (*domain.Permission, error) {
	var p domain.Permission
	err := r.db.WithContext(ctx).
		Where("festival_id = ? AND role = ? AND is_pending = ? AND is_revoked = ?",
			festivalID, domain.RoleOwner, false, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByFestival(ctx context.Context, festivalID snowflake.ID) ([]domain.Permission, error) {
	var out []domain.Permission
	err := r.db.WithContext(ctx).
		Where("festival_id = ?", festivalID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, p domain.Permission) error {
	return r.db.WithContext(ctx).Save(&p).Error
}
