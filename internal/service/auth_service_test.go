package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func newTestHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost, 4)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
		expectedRole  model.Role
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Email: "Test@Example.com", Password: "password123", FirstName: "Test", LastName: "User"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, fmt.Errorf("user %w", apperrors.ErrNotFound))
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RolePatient,
		},
		{
			name:  "doctor registration",
			input: RegisterInput{Email: "doc@example.com", Password: "password123", Role: model.RoleDoctor, Specialization: "Cardiology"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "doc@example.com").Return(nil, apperrors.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleDoctor,
		},
		{
			name:  "user already exists",
			input: RegisterInput{Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:  "duplicate detected by store",
			input: RegisterInput{Email: "race@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, apperrors.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrDuplicateEmail)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:          "unknown role",
			input:         RegisterInput{Email: "x@example.com", Password: "password123", Role: "superuser"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestHasher(), auth.NewJWTService("test-secret", time.Hour))
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.expectedRole, user.Role)
				assert.True(t, user.IsActive)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := newTestHasher()
	hashed, err := hasher.Hash(context.Background(), "secret1")
	require.NoError(t, err)
	userID := uuid.New()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
					ID: userID, Email: "a@x.com", PasswordHash: hashed, Role: model.RolePatient, IsActive: true,
				}, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "secret2",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
					ID: userID, Email: "a@x.com", PasswordHash: hashed, Role: model.RolePatient, IsActive: true,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, apperrors.ErrNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
					ID: userID, Email: "a@x.com", PasswordHash: hashed, Role: model.RolePatient,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, hasher, tokens)

			token, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				principal, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, userID, principal.UserID)
				assert.Equal(t, model.RolePatient, principal.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterTwiceWithMemoryStore(t *testing.T) {
	store := newStore()
	service := NewAuthService(store.Users, newTestHasher(), auth.NewJWTService("test-secret", time.Hour))
	ctx := context.Background()

	first, err := service.Register(ctx, RegisterInput{Email: "a@x.com", Password: "secret1", FirstName: "A"})
	require.NoError(t, err)

	_, err = service.Register(ctx, RegisterInput{Email: "a@x.com", Password: "other12", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	stored, err := store.Users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, model.RolePatient, stored.Role)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}
