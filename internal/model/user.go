package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a registered identity of the portal.
type User struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email          string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string         `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Role           Role           `json:"role" gorm:"type:varchar(20);not null;index"`
	FirstName      string         `json:"firstName" gorm:"size:100;not null"`
	LastName       string         `json:"lastName" gorm:"size:100;not null"`
	Phone          string         `json:"phone,omitempty" gorm:"size:30"`
	DateOfBirth    string         `json:"dateOfBirth,omitempty" gorm:"size:10"`
	Gender         string         `json:"gender,omitempty" gorm:"size:20"`
	Address        datatypes.JSON `json:"address,omitempty"`
	ProfileImage   string         `json:"profileImage,omitempty" gorm:"size:512"`
	Specialization string         `json:"specialization,omitempty" gorm:"size:100"`
	LicenseNumber  string         `json:"licenseNumber,omitempty" gorm:"size:100"`
	IsActive       bool           `json:"isActive" gorm:"default:true;index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserUpdate carries a partial profile change. Nil fields are left untouched.
// It has no password or role field.
type UserUpdate struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Phone          *string
	DateOfBirth    *string
	Gender         *string
	Address        datatypes.JSON
	ProfileImage   *string
	Specialization *string
	LicenseNumber  *string
	IsActive       *bool
}

// Apply copies the set fields of upd onto u.
func (upd UserUpdate) Apply(u *User) {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.DateOfBirth != nil {
		u.DateOfBirth = *upd.DateOfBirth
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
	}
	if upd.Specialization != nil {
		u.Specialization = *upd.Specialization
	}
	if upd.LicenseNumber != nil {
		u.LicenseNumber = *upd.LicenseNumber
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
}
