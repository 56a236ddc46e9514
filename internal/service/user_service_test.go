package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	"healthportal/internal/cache"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func TestUserService_ProfileIsCached(t *testing.T) {
	repo := new(MockUserRepository)
	c := cache.NewMemory()
	defer c.Close()
	svc := NewUserService(repo, c)

	p := auth.Principal{UserID: uuid.New(), Email: "a@x.com", Role: model.RolePatient}
	repo.On("FindByID", mock.Anything, p.UserID).
		Return(&model.User{ID: p.UserID, Email: "a@x.com", Role: model.RolePatient, PasswordHash: "secret-hash"}, nil).
		Once()

	first, err := svc.Profile(context.Background(), p)
	require.NoError(t, err)
	second, err := svc.Profile(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", first.Email)
	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.PasswordHash, "cached copy never holds the hash")
	repo.AssertExpectations(t)
}

func TestUserService_UpdateProfileInvalidatesCache(t *testing.T) {
	store := newStore()
	c := cache.NewMemory()
	defer c.Close()
	svc := NewUserService(store.Users, c)
	ctx := context.Background()

	p := newUser(t, store, "a@x.com", model.RolePatient)

	before, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "F", before.FirstName)

	name := "Alice"
	updated, err := svc.UpdateProfile(ctx, p, model.UserUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, model.RolePatient, updated.Role)

	after, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Alice", after.FirstName)

	bad := "01/02/1990"
	_, err = svc.UpdateProfile(ctx, p, model.UserUpdate{DateOfBirth: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_List(t *testing.T) {
	store := newStore()
	svc := NewUserService(store.Users, nil)
	ctx := context.Background()

	admin := newUser(t, store, "admin@x.com", model.RoleAdmin)
	patient := newUser(t, store, "p@x.com", model.RolePatient)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)
	newUser(t, store, "d@x.com", model.RoleDoctor)

	tests := []struct {
		name          string
		principal     auth.Principal
		role          *model.Role
		want          int
		expectedError error
	}{
		{name: "admin lists everyone", principal: admin, want: 4},
		{name: "admin filters doctors", principal: admin, role: rolePtr(model.RoleDoctor), want: 1},
		{name: "admin with unknown role", principal: admin, role: rolePtr("janitor"), expectedError: apperrors.ErrValidation},
		{name: "patient is forbidden", principal: patient, expectedError: apperrors.ErrForbidden},
		{name: "nurse is forbidden", principal: nurse, expectedError: apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.List(ctx, tt.principal, tt.role)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, users, tt.want)
		})
	}
}

func TestUserService_Directory(t *testing.T) {
	store := newStore()
	svc := NewUserService(store.Users, nil)
	ctx := context.Background()

	patient := newUser(t, store, "p@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	require.NoError(t, store.Users.Create(ctx, &model.User{Email: "gone@x.com", Role: model.RoleDoctor}))
	_, err := store.Users.Update(ctx, doctor.UserID, model.UserUpdate{Specialization: strPtr("Cardiology")})
	require.NoError(t, err)

	doctors, err := svc.Directory(ctx, patient, model.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Cardiology", doctors[0].Specialization)

	_, err = svc.Directory(ctx, patient, model.RolePatient)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	patients, err := svc.Directory(ctx, doctor, model.RolePatient)
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	_, err = svc.Directory(ctx, doctor, model.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func rolePtr(r model.Role) *model.Role { return &r }
