package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthportal/internal/model"
)

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository builds a GORM-backed repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, f *model.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *feedbackRepository) List(ctx context.Context) ([]model.Feedback, error) {
	out := make([]model.Feedback, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedbackRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error) {
	out := make([]model.Feedback, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
