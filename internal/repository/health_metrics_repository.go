package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthportal/internal/model"
)

type healthMetricsRepository struct {
	db *gorm.DB
}

// NewHealthMetricsRepository builds a GORM-backed repository.
func NewHealthMetricsRepository(db *gorm.DB) HealthMetricsRepository {
	return &healthMetricsRepository{db: db}
}

func (r *healthMetricsRepository) Create(ctx context.Context, m *model.HealthMetrics) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *healthMetricsRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.HealthMetrics, error) {
	var m model.HealthMetrics
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "health metrics")
	}
	return &m, nil
}

func (r *healthMetricsRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]model.HealthMetrics, error) {
	metrics := make([]model.HealthMetrics, 0)
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at asc").
		Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
