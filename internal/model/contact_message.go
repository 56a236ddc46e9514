package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessageStatus tracks how far staff got with a contact message.
type ContactMessageStatus string

const (
	ContactStatusNew       ContactMessageStatus = "new"
	ContactStatusRead      ContactMessageStatus = "read"
	ContactStatusResponded ContactMessageStatus = "responded"
)

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        uuid.UUID            `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName string               `json:"firstName" gorm:"size:100;not null"`
	LastName  string               `json:"lastName" gorm:"size:100;not null"`
	Email     string               `json:"email" gorm:"size:255;not null"`
	Subject   string               `json:"subject" gorm:"size:100;not null"`
	Message   string               `json:"message" gorm:"type:text;not null"`
	Status    ContactMessageStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`
	CreatedAt time.Time            `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
