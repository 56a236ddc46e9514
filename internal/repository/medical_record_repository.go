package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthportal/internal/model"
)

type medicalRecordRepository struct {
	db *gorm.DB
}

// NewMedicalRecordRepository builds a GORM-backed repository.
func NewMedicalRecordRepository(db *gorm.DB) MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, rec *model.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *medicalRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	var rec model.MedicalRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err, "medical record")
	}
	return &rec, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, rec *model.MedicalRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *medicalRecordRepository) List(ctx context.Context, filter MedicalRecordFilter) ([]model.MedicalRecord, error) {
	q := r.db.WithContext(ctx)
	if filter.PatientID != nil {
		q = q.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		q = q.Where("doctor_id = ?", *filter.DoctorID)
	}

	recs := make([]model.MedicalRecord, 0)
	if err := q.Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
