package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prescription is a single medication line of a medical record.
type Prescription struct {
	Medication string `json:"medication" validate:"required"`
	Dosage     string `json:"dosage,omitempty"`
	Frequency  string `json:"frequency,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Vitals is the set of measurements taken during a visit.
type Vitals struct {
	BloodPressure string              `json:"bloodPressure,omitempty"`
	HeartRate     *int                `json:"heartRate,omitempty"`
	Temperature   decimal.NullDecimal `json:"temperature"`
	Weight        decimal.NullDecimal `json:"weight"`
}

// MedicalRecord documents one patient visit.
type MedicalRecord struct {
	ID            uuid.UUID                         `json:"id" gorm:"type:char(36);primaryKey"`
	PatientID     uuid.UUID                         `json:"patientId" gorm:"type:char(36);not null;index"`
	DoctorID      uuid.UUID                         `json:"doctorId" gorm:"type:char(36);not null;index"`
	AppointmentID *uuid.UUID                        `json:"appointmentId,omitempty" gorm:"type:char(36);index"`
	VisitDate     string                            `json:"visitDate" gorm:"size:10;not null"`
	Diagnosis     string                            `json:"diagnosis,omitempty" gorm:"type:text"`
	Treatment     string                            `json:"treatment,omitempty" gorm:"type:text"`
	Prescription  datatypes.JSONSlice[Prescription] `json:"prescription,omitempty"`
	LabResults    datatypes.JSON                    `json:"labResults,omitempty"`
	Vitals        *datatypes.JSONType[Vitals]       `json:"vitals,omitempty"`
	Notes         string                            `json:"notes,omitempty" gorm:"type:text"`
	Attachments   datatypes.JSONSlice[string]       `json:"attachments,omitempty"`
	CreatedAt     time.Time                         `json:"createdAt"`
	UpdatedAt     time.Time                         `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
