package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func TestFeedbackService(t *testing.T) {
	store := newStore()
	svc := NewFeedbackService(store.Feedback)
	ctx := context.Background()

	admin := newUser(t, store, "admin@x.com", model.RoleAdmin)
	patient := newUser(t, store, "p@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	tests := []struct {
		name          string
		in            FeedbackInput
		expectedError error
	}{
		{name: "valid", in: FeedbackInput{Rating: 5, Comment: "Great", Category: "service"}},
		{name: "no category", in: FeedbackInput{Rating: 1}},
		{name: "rating too low", in: FeedbackInput{Rating: 0}, expectedError: apperrors.ErrValidation},
		{name: "rating too high", in: FeedbackInput{Rating: 6}, expectedError: apperrors.ErrValidation},
		{name: "unknown category", in: FeedbackInput{Rating: 3, Category: "billing"}, expectedError: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := svc.Submit(ctx, patient, tt.in)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, patient.UserID, f.UserID)
		})
	}

	_, err := svc.Submit(ctx, doctor, FeedbackInput{Rating: 4, Category: "system"})
	require.NoError(t, err)

	for _, p := range []auth.Principal{patient, doctor, nurse} {
		_, err := svc.List(ctx, p)
		assert.ErrorIs(t, err, apperrors.ErrForbidden, string(p.Role))
	}

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
