package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthportal/internal/model"
)

type contactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository builds a GORM-backed repository.
func NewContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &contactMessageRepository{db: db}
}

func (r *contactMessageRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *contactMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error) {
	var msg model.ContactMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, notFound(err, "contact message")
	}
	return &msg, nil
}

func (r *contactMessageRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	msgs := make([]model.ContactMessage, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *contactMessageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactMessageStatus) (*model.ContactMessage, error) {
	var msg model.ContactMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&msg).Error; err != nil {
			return notFound(err, "contact message")
		}
		msg.Status = status
		return tx.Model(&msg).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
