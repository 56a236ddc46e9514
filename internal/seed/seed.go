package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

// Fixture is a development account with a known password.
type Fixture struct {
	Email          string
	Password       string
	Role           model.Role
	FirstName      string
	LastName       string
	DateOfBirth    string
	Phone          string
	Address        string
	Specialization string
}

var (
	// TestPatient logs in as test@example.com / password123.
	TestPatient = Fixture{
		Email:       "test@example.com",
		Password:    "password123",
		Role:        model.RolePatient,
		FirstName:   "Test",
		LastName:    "User",
		DateOfBirth: "1990-01-01",
		Phone:       "555-0123",
		Address:     `{"street":"123 Test St","city":"Test City","state":"TC","zip":"12345"}`,
	}

	// TestDoctors all log in with doctor123.
	TestDoctors = []Fixture{
		{
			Email:          "dr.sarah@example.com",
			Password:       "doctor123",
			Role:           model.RoleDoctor,
			FirstName:      "Sarah",
			LastName:       "Wilson",
			DateOfBirth:    "1985-03-15",
			Phone:          "555-0101",
			Address:        `{"street":"456 Medical Ave","city":"Health City","state":"HC","zip":"67890"}`,
			Specialization: "Cardiologist",
		},
		{
			Email:          "dr.james@example.com",
			Password:       "doctor123",
			Role:           model.RoleDoctor,
			FirstName:      "James",
			LastName:       "Rodriguez",
			DateOfBirth:    "1980-07-22",
			Phone:          "555-0102",
			Address:        `{"street":"789 Healthcare Blvd","city":"Wellness Town","state":"WT","zip":"54321"}`,
			Specialization: "General Practice",
		},
		{
			Email:          "dr.emily@example.com",
			Password:       "doctor123",
			Role:           model.RoleDoctor,
			FirstName:      "Emily",
			LastName:       "Chen",
			DateOfBirth:    "1988-11-08",
			Phone:          "555-0103",
			Address:        `{"street":"321 Clinic St","city":"Medical Plaza","state":"MP","zip":"98765"}`,
			Specialization: "Pediatrician",
		},
	}
)

// Seeder loads fixtures into a credential store. Loading is idempotent.
type Seeder struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
}

func New(users repository.UserRepository, hasher auth.PasswordHasher) *Seeder {
	return &Seeder{users: users, hasher: hasher}
}

// TestUser ensures the test patient exists. created is false when it already did.
func (s *Seeder) TestUser(ctx context.Context) (user *model.User, created bool, err error) {
	return s.ensure(ctx, TestPatient)
}

// Doctors ensures the test doctors exist and returns the ones created by this call.
func (s *Seeder) Doctors(ctx context.Context) ([]model.User, error) {
	created := make([]model.User, 0, len(TestDoctors))
	for _, f := range TestDoctors {
		u, isNew, err := s.ensure(ctx, f)
		if err != nil {
			return nil, err
		}
		if isNew {
			created = append(created, *u)
		}
	}
	return created, nil
}

// All loads every fixture.
func (s *Seeder) All(ctx context.Context) error {
	if _, _, err := s.TestUser(ctx); err != nil {
		return err
	}
	doctors, err := s.Doctors(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("doctors_created", len(doctors)).Msg("fixtures loaded")
	return nil
}

func (s *Seeder) ensure(ctx context.Context, f Fixture) (*model.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, f.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup fixture %s: %w", f.Email, err)
	}

	hash, err := s.hasher.Hash(ctx, f.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash fixture password: %w", err)
	}
	u := &model.User{
		Email:          f.Email,
		PasswordHash:   hash,
		Role:           f.Role,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Phone:          f.Phone,
		DateOfBirth:    f.DateOfBirth,
		Address:        datatypes.JSON(f.Address),
		Specialization: f.Specialization,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			existing, ferr := s.users.FindByEmail(ctx, f.Email)
			return existing, false, ferr
		}
		return nil, false, fmt.Errorf("create fixture %s: %w", f.Email, err)
	}
	log.Debug().Str("role", string(f.Role)).Msg("fixture user created")
	return u, true, nil
}
