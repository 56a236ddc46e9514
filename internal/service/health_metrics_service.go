package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

// HealthMetricsInput is a new metrics snapshot. PatientID is only read for staff.
type HealthMetricsInput struct {
	PatientID        *uuid.UUID
	BloodPressure    string
	HeartRate        *int
	Weight           decimal.NullDecimal
	Temperature      decimal.NullDecimal
	Height           decimal.NullDecimal
	BloodType        string
	Allergies        []string
	EmergencyContact *model.EmergencyContact
	RecordedDate     string
}

// HealthMetricsService is the role-scoped facade over health metrics.
type HealthMetricsService interface {
	ListForRequester(ctx context.Context, p auth.Principal, patientID *uuid.UUID) ([]model.HealthMetrics, error)
	Create(ctx context.Context, p auth.Principal, in HealthMetricsInput) (*model.HealthMetrics, error)
}

type healthMetricsService struct {
	metrics repository.HealthMetricsRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewHealthMetricsService creates a new health metrics service.
func NewHealthMetricsService(metrics repository.HealthMetricsRepository, users repository.UserRepository) HealthMetricsService {
	return &healthMetricsService{metrics: metrics, users: users, now: time.Now}
}

// ListForRequester returns one patient's snapshots: the requester's own for
// patients, the named patient's for staff.
func (s *healthMetricsService) ListForRequester(ctx context.Context, p auth.Principal, patientID *uuid.UUID) ([]model.HealthMetrics, error) {
	scope, err := policy.Resolve(p, policy.HealthMetrics, policy.Read, patientID)
	if err != nil {
		return nil, err
	}
	return s.metrics.ListByPatient(ctx, *scope.PatientFilter())
}

// Create records a snapshot. Patients always record for themselves.
func (s *healthMetricsService) Create(ctx context.Context, p auth.Principal, in HealthMetricsInput) (*model.HealthMetrics, error) {
	scope, err := policy.Resolve(p, policy.HealthMetrics, policy.Create, in.PatientID)
	if err != nil {
		return nil, err
	}
	patientID := *scope.PatientFilter()

	if in.RecordedDate == "" {
		in.RecordedDate = today(s.now())
	}
	if !validDate(in.RecordedDate) {
		return nil, apperrors.NewValidationError("recordedDate must be formatted YYYY-MM-DD")
	}
	for name, v := range map[string]decimal.NullDecimal{"weight": in.Weight, "temperature": in.Temperature, "height": in.Height} {
		if v.Valid && !v.Decimal.IsPositive() {
			return nil, apperrors.NewValidationError("%s must be positive", name)
		}
	}
	if in.HeartRate != nil && *in.HeartRate <= 0 {
		return nil, apperrors.NewValidationError("heartRate must be positive")
	}
	if p.Role != model.RolePatient {
		if err := expectRole(ctx, s.users, patientID, model.RolePatient, "patientId"); err != nil {
			return nil, err
		}
	}

	m := &model.HealthMetrics{
		PatientID:     patientID,
		BloodPressure: in.BloodPressure,
		HeartRate:     in.HeartRate,
		Weight:        in.Weight,
		Temperature:   in.Temperature,
		Height:        in.Height,
		BloodType:     in.BloodType,
		RecordedDate:  in.RecordedDate,
	}
	if len(in.Allergies) > 0 {
		m.Allergies = datatypes.JSONSlice[string](in.Allergies)
	}
	if in.EmergencyContact != nil {
		ec := datatypes.NewJSONType(*in.EmergencyContact)
		m.EmergencyContact = &ec
	}

	if err := s.metrics.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create health metrics: %w", err)
	}
	return m, nil
}
