package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/repository"
)

type MedicalRecordRepository struct {
	t *table[model.MedicalRecord]
}

var _ repository.MedicalRecordRepository = (*MedicalRecordRepository)(nil)

func NewMedicalRecordRepository() *MedicalRecordRepository {
	return &MedicalRecordRepository{t: newTable[model.MedicalRecord]()}
}

func (r *MedicalRecordRepository) Create(_ context.Context, rec *model.MedicalRecord) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	ensureID(&rec.ID)
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt
	r.t.insert(rec.ID, *rec)
	return nil
}

func (r *MedicalRecordRepository) FindByID(_ context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	rec, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("medical record %w", apperrors.ErrNotFound)
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) Update(_ context.Context, rec *model.MedicalRecord) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	prev, ok := r.t.rows[rec.ID]
	if !ok {
		return fmt.Errorf("medical record %w", apperrors.ErrNotFound)
	}
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = now()
	r.t.rows[rec.ID] = *rec
	return nil
}

func (r *MedicalRecordRepository) List(_ context.Context, filter repository.MedicalRecordFilter) ([]model.MedicalRecord, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	return r.t.filter(func(rec model.MedicalRecord) bool {
		if filter.PatientID != nil && rec.PatientID != *filter.PatientID {
			return false
		}
		if filter.DoctorID != nil && rec.DoctorID != *filter.DoctorID {
			return false
		}
		return true
	}), nil
}

type HealthMetricsRepository struct {
	t *table[model.HealthMetrics]
}

var _ repository.HealthMetricsRepository = (*HealthMetricsRepository)(nil)

func NewHealthMetricsRepository() *HealthMetricsRepository {
	return &HealthMetricsRepository{t: newTable[model.HealthMetrics]()}
}

func (r *HealthMetricsRepository) Create(_ context.Context, m *model.HealthMetrics) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	ensureID(&m.ID)
	m.CreatedAt = now()
	r.t.insert(m.ID, *m)
	return nil
}

func (r *HealthMetricsRepository) FindByID(_ context.Context, id uuid.UUID) (*model.HealthMetrics, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	m, ok := r.t.rows[id]
	if !ok {
		return nil, fmt.Errorf("health metrics %w", apperrors.ErrNotFound)
	}
	return &m, nil
}

func (r *HealthMetricsRepository) ListByPatient(_ context.Context, patientID uuid.UUID) ([]model.HealthMetrics, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	return r.t.filter(func(m model.HealthMetrics) bool {
		return m.PatientID == patientID
	}), nil
}
