package service

import (
	"context"
	"fmt"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

// FeedbackInput is a rating submitted by the requester.
type FeedbackInput struct {
	Rating   int
	Comment  string
	Category string
}

// FeedbackService handles user feedback.
type FeedbackService interface {
	Submit(ctx context.Context, p auth.Principal, in FeedbackInput) (*model.Feedback, error)
	List(ctx context.Context, p auth.Principal) ([]model.Feedback, error)
}

type feedbackService struct {
	repo repository.FeedbackRepository
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo}
}

// Submit stores feedback under the requester's id.
func (s *feedbackService) Submit(ctx context.Context, p auth.Principal, in FeedbackInput) (*model.Feedback, error) {
	scope, err := policy.Resolve(p, policy.Feedback, policy.Create, nil)
	if err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	switch in.Category {
	case "", "service", "system", "doctor", "general":
	default:
		return nil, apperrors.NewValidationError("category must be one of service, system, doctor, general")
	}

	f := &model.Feedback{
		UserID:   *scope.UserFilter(),
		Rating:   in.Rating,
		Comment:  in.Comment,
		Category: in.Category,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// List returns all feedback. Admin only.
func (s *feedbackService) List(ctx context.Context, p auth.Principal) ([]model.Feedback, error) {
	if _, err := policy.Resolve(p, policy.Feedback, policy.Read, nil); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
