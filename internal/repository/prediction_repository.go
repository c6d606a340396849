package repository

import (
	"context"

	"gorm.io/gorm"

	"thyroscan/internal/model"
)

// PredictionRepository defines persistence operations for prediction records.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *model.Prediction) error
	RecentByEmail(ctx context.Context, email string, limit int) ([]model.Prediction, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository builds a GORM-backed repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *model.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) RecentByEmail(ctx context.Context, email string, limit int) ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("user_email = ?", email).Delete(&model.Prediction{}).Error
}
