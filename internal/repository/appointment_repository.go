package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthportal/internal/model"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository builds a GORM-backed repository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error; err != nil {
		return nil, notFound(err, "appointment")
	}
	return &appt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error) {
	appts := make([]model.Appointment, 0)
	if err := r.scoped(ctx, filter).Order("created_at asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) Count(ctx context.Context, filter AppointmentFilter) (int64, error) {
	var n int64
	if err := r.scoped(ctx, filter).Model(&model.Appointment{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *appointmentRepository) scoped(ctx context.Context, filter AppointmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if filter.PatientID != nil {
		q = q.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil {
		q = q.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Date != nil {
		q = q.Where("appointment_date = ?", *filter.Date)
	}
	if filter.FromDate != nil {
		q = q.Where("appointment_date >= ?", *filter.FromDate)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	return q
}
