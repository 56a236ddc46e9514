package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a rating left by an authenticated user.
type Feedback struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text"`
	Category  string    `json:"category,omitempty" gorm:"size:20;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name
func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate sets UUID before creating the record.
func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
