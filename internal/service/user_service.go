package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthportal/internal/auth"
	"healthportal/internal/cache"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// DirectoryEntry is the public view of a user shown in doctor and patient pickers.
type DirectoryEntry struct {
	ID             uuid.UUID  `json:"id"`
	Role           model.Role `json:"role"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Specialization string     `json:"specialization,omitempty"`
	DateOfBirth    string     `json:"dateOfBirth,omitempty"`
}

// UserService exposes profile and user listing operations.
type UserService interface {
	Profile(ctx context.Context, p auth.Principal) (*model.User, error)
	UpdateProfile(ctx context.Context, p auth.Principal, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context, p auth.Principal, role *model.Role) ([]model.User, error)
	Directory(ctx context.Context, p auth.Principal, role model.Role) ([]DirectoryEntry, error)
}

type userService struct {
	repo  repository.UserRepository
	cache cache.Cache
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, c cache.Cache) UserService {
	if c == nil {
		c = cache.Disabled()
	}
	return &userService{repo: repo, cache: c}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:profile:%s", id)
}

// Profile returns the requester's own user record.
func (s *userService) Profile(ctx context.Context, p auth.Principal) (*model.User, error) {
	scope, err := policy.Resolve(p, policy.Profile, policy.Read, nil)
	if err != nil {
		return nil, err
	}
	id := *scope.UserFilter()

	var cached model.User
	if cache.GetJSON(ctx, s.cache, "profile", s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// UpdateProfile changes the requester's own profile fields.
func (s *userService) UpdateProfile(ctx context.Context, p auth.Principal, upd model.UserUpdate) (*model.User, error) {
	scope, err := policy.Resolve(p, policy.Profile, policy.Update, nil)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil && *upd.Email == "" {
		return nil, apperrors.NewValidationError("email must not be empty")
	}
	if upd.DateOfBirth != nil && *upd.DateOfBirth != "" && !validDate(*upd.DateOfBirth) {
		return nil, apperrors.NewValidationError("dateOfBirth must be formatted YYYY-MM-DD")
	}
	id := *scope.UserFilter()

	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// List returns users, optionally of one role. Admin only.
func (s *userService) List(ctx context.Context, p auth.Principal, role *model.Role) ([]model.User, error) {
	if _, err := policy.Resolve(p, policy.Users, policy.Read, nil); err != nil {
		return nil, err
	}
	if role != nil && !role.Valid() {
		return nil, apperrors.NewValidationError("role must be one of patient, doctor, nurse, admin")
	}
	return s.repo.List(ctx, repository.UserFilter{Role: role})
}

// Directory lists active doctors or patients for pickers.
func (s *userService) Directory(ctx context.Context, p auth.Principal, role model.Role) ([]DirectoryEntry, error) {
	var resource policy.Resource
	switch role {
	case model.RoleDoctor:
		resource = policy.DoctorDirectory
	case model.RolePatient:
		resource = policy.PatientDirectory
	default:
		return nil, apperrors.NewValidationError("role must be doctor or patient")
	}
	if _, err := policy.Resolve(p, resource, policy.Read, nil); err != nil {
		return nil, err
	}

	active := true
	users, err := s.repo.List(ctx, repository.UserFilter{Role: &role, Active: &active})
	if err != nil {
		return nil, err
	}

	entries := make([]DirectoryEntry, 0, len(users))
	for _, u := range users {
		e := DirectoryEntry{
			ID:             u.ID,
			Role:           u.Role,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Email:          u.Email,
			Specialization: u.Specialization,
		}
		if role == model.RolePatient {
			e.DateOfBirth = u.DateOfBirth
		}
		entries = append(entries, e)
	}
	return entries, nil
}
