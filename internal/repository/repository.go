package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

// UserFilter narrows user queries. Nil fields do not constrain.
type UserFilter struct {
	Role   *model.Role
	Active *bool
}

// AppointmentFilter narrows appointment queries. Nil fields do not constrain.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Date      *string
	FromDate  *string
	Status    *model.AppointmentStatus
	// Statuses matches any of the listed statuses when non-empty.
	Statuses []model.AppointmentStatus
}

// MedicalRecordFilter narrows medical record queries. Nil fields do not constrain.
type MedicalRecordFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error)
	Count(ctx context.Context, filter AppointmentFilter) (int64, error)
}

// MedicalRecordRepository persists medical records.
type MedicalRecordRepository interface {
	Create(ctx context.Context, rec *model.MedicalRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
	Update(ctx context.Context, rec *model.MedicalRecord) error
	List(ctx context.Context, filter MedicalRecordFilter) ([]model.MedicalRecord, error)
}

// HealthMetricsRepository persists health metric snapshots.
type HealthMetricsRepository interface {
	Create(ctx context.Context, m *model.HealthMetrics) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HealthMetrics, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.HealthMetrics, error)
}

// ContactMessageRepository persists contact form submissions.
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactMessageStatus) (*model.ContactMessage, error)
}

// FeedbackRepository persists user feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, f *model.Feedback) error
	List(ctx context.Context) ([]model.Feedback, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error)
}

// Store bundles every repository the services need. It is built once at
// startup and passed down.
type Store struct {
	Users           UserRepository
	Appointments    AppointmentRepository
	MedicalRecords  MedicalRecordRepository
	HealthMetrics   HealthMetricsRepository
	ContactMessages ContactMessageRepository
	Feedback        FeedbackRepository
}

// NewGormStore builds a Store backed by db.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:           NewUserRepository(db),
		Appointments:    NewAppointmentRepository(db),
		MedicalRecords:  NewMedicalRecordRepository(db),
		HealthMetrics:   NewHealthMetricsRepository(db),
		ContactMessages: NewContactMessageRepository(db),
		Feedback:        NewFeedbackRepository(db),
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, apperrors.ErrNotFound)
	}
	return err
}
