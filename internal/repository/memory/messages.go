package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

type ContactMessageRepository struct {
	t *table[model.ContactMessage]
}

var _ repository.ContactMessageRepository = (*ContactMessageRepository)(nil)

func NewContactMessageRepository() *ContactMessageRepository {
	return &ContactMessageRepository{t: newTable[model.ContactMessage]()}
}

func (r *ContactMessageRepository) Create(_ context.Context, msg *model.ContactMessage) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	ensureID(&msg.ID)
	if msg.Status == "" {
		msg.Status = model.ContactStatusNew
	}
	msg.CreatedAt = now()
	r.t.insert(msg.ID, *msg)
	return nil
}

func (r *ContactMessageRepository) FindByID(_ context.Context, id uuid.UUID) (*model.ContactMessage, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	msg, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("contact message %w", apperrors.ErrNotFound)
	}
	return &msg, nil
}

func (r *ContactMessageRepository) List(_ context.Context) ([]model.ContactMessage, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(model.ContactMessage) bool { return true }), nil
}

func (r *ContactMessageRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.ContactMessageStatus) (*model.ContactMessage, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	msg, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("contact message %w", apperrors.ErrNotFound)
	}
	msg.Status = status
	r.t.rows[id] = msg
	return &msg, nil
}

type FeedbackRepository struct {
	t *table[model.Feedback]
}

var _ repository.FeedbackRepository = (*FeedbackRepository)(nil)

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{t: newTable[model.Feedback]()}
}

func (r *FeedbackRepository) Create(_ context.Context, f *model.Feedback) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	ensureID(&f.ID)
	f.CreatedAt = now()
	r.t.insert(f.ID, *f)
	return nil
}

func (r *FeedbackRepository) List(_ context.Context) ([]model.Feedback, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(model.Feedback) bool { return true }), nil
}

func (r *FeedbackRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Feedback, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(f model.Feedback) bool { return f.UserID == userID }), nil
}
