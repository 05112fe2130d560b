package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sqlservernerd/festguide/internal/notification/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateToken(ctx context.Context, t domain.DeviceToken) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *repository) GetToken(ctx context.Context, token string) (*domain.DeviceToken, error) {
	var t domain.DeviceToken
	if err := r.db.WithContext(ctx).First(&t, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) DeleteToken(ctx context.Context, subjectID snowflake.ID, token string) error {
	return r.db.WithContext(ctx).
		Where("subject_id = ? AND token = ?", subjectID, token).
		Delete(&domain.DeviceToken{}).Error
}

func (r *repository) ListTokensBySubject(ctx context.Context, subjectID snowflake.ID) ([]domain.DeviceToken, error) {
	var tokens []domain.DeviceToken
	if err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at ASC").
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
