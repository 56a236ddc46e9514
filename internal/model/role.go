package model

// Role identifies what a user may see and change.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleNurse, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r is a clinical or administrative role.
func (r Role) IsStaff() bool {
	return r == RoleDoctor || r == RoleNurse || r == RoleAdmin
}
