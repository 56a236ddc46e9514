package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

var contactStatusRank = map[model.ContactMessageStatus]int{
	model.ContactStatusNew:       0,
	model.ContactStatusRead:      1,
	model.ContactStatusResponded: 2,
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
}

// ContactService handles contact form messages.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*model.ContactMessage, error)
	List(ctx context.Context, p auth.Principal) ([]model.ContactMessage, error)
	UpdateStatus(ctx context.Context, p auth.Principal, id uuid.UUID, status model.ContactMessageStatus) (*model.ContactMessage, error)
}

type contactService struct {
	repo repository.ContactMessageRepository
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactMessageRepository) ContactService {
	return &contactService{repo: repo}
}

// Submit stores a message from an unauthenticated visitor.
func (s *contactService) Submit(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	msg := &model.ContactMessage{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.ContactStatusNew,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return msg, nil
}

func (s *contactService) List(ctx context.Context, p auth.Principal) ([]model.ContactMessage, error) {
	if _, err := policy.Resolve(p, policy.ContactMessages, policy.Read, nil); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// UpdateStatus moves a message forward through new, read and responded.
func (s *contactService) UpdateStatus(ctx context.Context, p auth.Principal, id uuid.UUID, status model.ContactMessageStatus) (*model.ContactMessage, error) {
	if _, err := policy.Resolve(p, policy.ContactMessages, policy.Update, nil); err != nil {
		return nil, err
	}
	next, ok := contactStatusRank[status]
	if !ok {
		return nil, apperrors.NewValidationError("status must be one of new, read, responded")
	}

	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contactStatusRank[msg.Status] > next {
		return nil, apperrors.NewValidationError("contact message is already %s", msg.Status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
