package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

type AppointmentRepository struct {
	t *table[model.Appointment]
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{t: newTable[model.Appointment]()}
}

func (r *AppointmentRepository) Create(_ context.Context, appt *model.Appointment) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	ensureID(&appt.ID)
	if appt.Status == "" {
		appt.Status = model.AppointmentStatusScheduled
	}
	appt.CreatedAt = now()
	appt.UpdatedAt = appt.CreatedAt
	r.t.insert(appt.ID, *appt)
	return nil
}

func (r *AppointmentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	a, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("appointment %w", apperrors.ErrNotFound)
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(_ context.Context, appt *model.Appointment) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	prev, ok := r.t.rows[appt.ID]
	if !ok {
		return fmt.Errorf("appointment %w", apperrors.ErrNotFound)
	}
	appt.CreatedAt = prev.CreatedAt
	appt.UpdatedAt = now()
	r.t.rows[appt.ID] = *appt
	return nil
}

func (r *AppointmentRepository) List(_ context.Context, filter repository.AppointmentFilter) ([]model.Appointment, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(appointmentMatcher(filter)), nil
}

func (r *AppointmentRepository) Count(_ context.Context, filter repository.AppointmentFilter) (int64, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return int64(len(r.t.filter(appointmentMatcher(filter)))), nil
}

func appointmentMatcher(f repository.AppointmentFilter) func(model.Appointment) bool {
	return func(a model.Appointment) bool {
		switch {
		case f.PatientID != nil && a.PatientID != *f.PatientID:
			return false
		case f.DoctorID != nil && a.DoctorID != *f.DoctorID:
			return false
		case f.Date != nil && a.AppointmentDate != *f.Date:
			return false
		case f.FromDate != nil && a.AppointmentDate < *f.FromDate:
			return false
		case f.Status != nil && a.Status != *f.Status:
			return false
		case len(f.Statuses) > 0 && !hasStatus(f.Statuses, a.Status):
			return false
		}
		return true
	}
}

func hasStatus(set []model.AppointmentStatus, s model.AppointmentStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
