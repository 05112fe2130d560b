package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/schedule/domain"
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

func (r *repository) Get(ctx context.Context, editionID snowflake.ID) (*domain.Schedule, error) {
	var s domain.Schedule
	if err := r.db.WithContext(ctx).First(&s, "edition_id = ?", editionID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s domain.Schedule) error {
	return r.db.WithContext(ctx).Create(&s).Error
}

func (r *repository) Update(ctx context.Context, s domain.Schedule) error {
	return r.db.WithContext(ctx).Save(&s).Error
}
