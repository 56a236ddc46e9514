package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func TestContactService(t *testing.T) {
	store := newStore()
	svc := NewContactService(store.ContactMessages)
	ctx := context.Background()

	admin := newUser(t, store, "admin@x.com", model.RoleAdmin)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	msg, err := svc.Submit(ctx, ContactInput{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Subject: "Hours", Message: "When are you open?"})
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusNew, msg.Status)

	_, err = svc.List(ctx, nurse)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 1)

	tests := []struct {
		name          string
		status        model.ContactMessageStatus
		expectedError error
	}{
		{name: "unknown status", status: "archived", expectedError: apperrors.ErrValidation},
		{name: "new to read", status: model.ContactStatusRead},
		{name: "read to responded", status: model.ContactStatusResponded},
		{name: "responded again", status: model.ContactStatusResponded},
		{name: "backwards to new", status: model.ContactStatusNew, expectedError: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateStatus(ctx, admin, msg.ID, tt.status)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, updated.Status)
		})
	}

	_, err = svc.UpdateStatus(ctx, nurse, msg.ID, model.ContactStatusRead)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, admin, uuid.New(), model.ContactStatusRead)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
