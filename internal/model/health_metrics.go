package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmergencyContact is the person to call for a patient.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
}

// HealthMetrics is a snapshot of a patient's vitals and health profile.
type HealthMetrics struct {
	ID               uuid.UUID                             `json:"id" gorm:"type:char(36);primaryKey"`
	PatientID        uuid.UUID                             `json:"patientId" gorm:"type:char(36);not null;index"`
	BloodPressure    string                                `json:"bloodPressure,omitempty" gorm:"size:20"`
	HeartRate        *int                                  `json:"heartRate,omitempty"`
	Weight           decimal.NullDecimal                   `json:"weight" gorm:"type:decimal(6,2)"`
	Temperature      decimal.NullDecimal                   `json:"temperature" gorm:"type:decimal(5,2)"`
	Height           decimal.NullDecimal                   `json:"height" gorm:"type:decimal(5,2)"`
	BloodType        string                                `json:"bloodType,omitempty" gorm:"size:5"`
	Allergies        datatypes.JSONSlice[string]           `json:"allergies,omitempty"`
	EmergencyContact *datatypes.JSONType[EmergencyContact] `json:"emergencyContact,omitempty"`
	RecordedDate     string                                `json:"recordedDate" gorm:"size:10;not null"`
	CreatedAt        time.Time                             `json:"createdAt"`
}

// TableName overrides the table name
func (HealthMetrics) TableName() string {
	return "health_metrics"
}

// BeforeCreate sets UUID before creating the record.
func (h *HealthMetrics) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
