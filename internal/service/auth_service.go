package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/metrics"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z8jdAw1qn0QXYNp9yo8hHG6a"

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email          string
	Password       string
	Role           model.Role
	FirstName      string
	LastName       string
	Phone          string
	DateOfBirth    string
	Gender         string
	Specialization string
	LicenseNumber  string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenService) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a user with a hashed password. The role defaults to patient.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RolePatient
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("role must be one of patient, doctor, nurse, admin")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		PasswordHash:   hashed,
		Role:           in.Role,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login checks the credentials and returns a session token.
// Unknown email, wrong password and deactivated accounts all fail with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.Verify(ctx, password, dummyHash)
		return "", nil, s.loginFailed("unknown email")
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return "", nil, s.loginFailed("wrong password")
	}
	if !user.IsActive {
		return "", nil, s.loginFailed("inactive account")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return token, user, nil
}

func (s *authService) loginFailed(reason string) error {
	metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
	log.Warn().Str("reason", reason).Msg("login failed")
	return apperrors.ErrInvalidCredentials
}
