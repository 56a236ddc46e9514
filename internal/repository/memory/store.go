package memory

import "healthportal/internal/repository"

// NewStore returns an empty in-memory Store.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:           NewUserRepository(),
		Appointments:    NewAppointmentRepository(),
		MedicalRecords:  NewMedicalRecordRepository(),
		HealthMetrics:   NewHealthMetricsRepository(),
		ContactMessages: NewContactMessageRepository(),
		Feedback:        NewFeedbackRepository(),
	}
}
