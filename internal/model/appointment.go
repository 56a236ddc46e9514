package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// Active reports whether the appointment is still expected to take place.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusRescheduled
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusRescheduled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an appointment in status s may move to next.
// Scheduled and rescheduled are both active: a rescheduled appointment still
// holds its slot and may later be completed, cancelled or rescheduled again.
// Nothing moves back to scheduled once it has left it. Completed and cancelled
// are terminal. Setting the current status again is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	if !s.Active() {
		return false
	}
	switch next {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusRescheduled:
		return true
	}
	return false
}

// Appointment is a booking between a patient and a doctor for one time slot.
type Appointment struct {
	ID                uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	PatientID         uuid.UUID         `json:"patientId" gorm:"type:char(36);not null;index"`
	DoctorID          uuid.UUID         `json:"doctorId" gorm:"type:char(36);not null;index:idx_appointments_doctor_date"`
	AppointmentDate   string            `json:"appointmentDate" gorm:"size:10;not null;index:idx_appointments_doctor_date"`
	TimeSlot          string            `json:"timeSlot" gorm:"size:5;not null"`
	Status            AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	Reason            string            `json:"reason,omitempty" gorm:"type:text"`
	Notes             string            `json:"notes,omitempty" gorm:"type:text"`
	InsuranceProvider string            `json:"insuranceProvider,omitempty" gorm:"size:100"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HoldsSlot reports whether the appointment occupies its doctor's time slot.
func (a *Appointment) HoldsSlot() bool {
	return a.Status != AppointmentStatusCancelled
}
