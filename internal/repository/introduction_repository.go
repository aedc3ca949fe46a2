package repository

import (
	"context"

	"maskoff-server/internal/models"

	"gorm.io/gorm"
)

type IntroductionRepository interface {
	Create(ctx context.Context, intro *models.Introduction) error
	ListRecent(ctx context.Context, limit int) ([]models.Introduction, error)
}

type introductionRepository struct {
	db *gorm.DB
}

func NewIntroductionRepository(db *gorm.DB) IntroductionRepository {
	return &introductionRepository{db: db}
}

func (r *introductionRepository) Create(ctx context.Context, intro *models.Introduction) error {
	return r.db.WithContext(ctx).Create(intro).Error
}

func (r *introductionRepository) ListRecent(ctx context.Context, limit int) ([]models.Introduction, error) {
	var intros []models.Introduction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&intros).Error
	return intros, err
}
