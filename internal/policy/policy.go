// Package policy decides what each role may do with each resource.
//
// The rules live in one static table. Evaluate is a pure lookup and anything
// absent from the table is denied. Resolve turns a decision into the
// ownership scope a service applies before it touches storage.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/metrics"
	"healthportal/internal/model"
)

// Resource names a protected collection.
type Resource string

const (
	Appointments     Resource = "appointments"
	MedicalRecords   Resource = "medical-records"
	HealthMetrics    Resource = "health-metrics"
	Profile          Resource = "profile"
	Users            Resource = "users"
	DoctorDirectory  Resource = "directory:doctors"
	PatientDirectory Resource = "directory:patients"
	ContactMessages  Resource = "contact"
	Feedback         Resource = "feedback"
	Analytics        Resource = "analytics"
)

// Operation is what the requester wants to do with a resource.
type Operation string

const (
	Read   Operation = "read"
	Create Operation = "create"
	Update Operation = "update"
)

// Effect is the outcome of a policy lookup.
type Effect int

const (
	Deny Effect = iota
	AllowAll
	AllowOwn
)

func (e Effect) String() string {
	switch e {
	case AllowAll:
		return "allow_all"
	case AllowOwn:
		return "allow_own"
	default:
		return "deny"
	}
}

// Field is the ownership attribute an AllowOwn decision constrains.
type Field string

const (
	FieldPatientID Field = "patientId"
	FieldDoctorID  Field = "doctorId"
	FieldUserID    Field = "userId"
)

// ParamRule says how a client-supplied patientId affects a decision.
type ParamRule int

const (
	// ParamOptional passes a supplied patientId through as a filter.
	ParamOptional ParamRule = iota
	// ParamRequired rejects requests without patientId as a bad request.
	ParamRequired
	// ParamRequiredOrDeny forbids requests without patientId.
	ParamRequiredOrDeny
	// ParamWidens lifts an AllowOwn restriction when patientId is supplied.
	ParamWidens
	// ParamIgnored drops any supplied patientId.
	ParamIgnored
)

// Decision is a single table entry.
type Decision struct {
	Effect       Effect
	Field        Field
	PatientParam ParamRule
}

// Allowed reports whether the decision permits the operation in some scope.
func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

type key struct {
	role     model.Role
	resource Resource
	op       Operation
}

var (
	all            = Decision{Effect: AllowAll}
	ownAsPatient   = Decision{Effect: AllowOwn, Field: FieldPatientID, PatientParam: ParamIgnored}
	ownAsDoctor    = Decision{Effect: AllowOwn, Field: FieldDoctorID}
	ownAsUser      = Decision{Effect: AllowOwn, Field: FieldUserID}
	patientNeeded  = Decision{Effect: AllowAll, PatientParam: ParamRequired}
	patientOrDeny  = Decision{Effect: AllowAll, PatientParam: ParamRequiredOrDeny}
	doctorOrWidens = Decision{Effect: AllowOwn, Field: FieldDoctorID, PatientParam: ParamWidens}
)

var table = map[key]Decision{
	{model.RolePatient, Appointments, Read}:   ownAsPatient,
	{model.RoleDoctor, Appointments, Read}:    ownAsDoctor,
	{model.RoleNurse, Appointments, Read}:     all,
	{model.RoleAdmin, Appointments, Read}:     all,
	{model.RolePatient, Appointments, Create}: ownAsPatient,
	{model.RoleDoctor, Appointments, Create}:  all,
	{model.RoleNurse, Appointments, Create}:   all,
	{model.RoleAdmin, Appointments, Create}:   all,
	{model.RolePatient, Appointments, Update}: ownAsPatient,
	{model.RoleDoctor, Appointments, Update}:  ownAsDoctor,
	{model.RoleNurse, Appointments, Update}:   all,
	{model.RoleAdmin, Appointments, Update}:   all,

	{model.RolePatient, MedicalRecords, Read}:  ownAsPatient,
	{model.RoleDoctor, MedicalRecords, Read}:   doctorOrWidens,
	{model.RoleNurse, MedicalRecords, Read}:    patientOrDeny,
	{model.RoleAdmin, MedicalRecords, Read}:    patientOrDeny,
	{model.RoleDoctor, MedicalRecords, Create}: ownAsDoctor,
	{model.RoleNurse, MedicalRecords, Create}:  all,
	{model.RoleDoctor, MedicalRecords, Update}: ownAsDoctor,
	{model.RoleNurse, MedicalRecords, Update}:  all,

	{model.RolePatient, HealthMetrics, Read}:   ownAsPatient,
	{model.RoleDoctor, HealthMetrics, Read}:    patientNeeded,
	{model.RoleNurse, HealthMetrics, Read}:     patientNeeded,
	{model.RoleAdmin, HealthMetrics, Read}:     patientNeeded,
	{model.RolePatient, HealthMetrics, Create}: ownAsPatient,
	{model.RoleDoctor, HealthMetrics, Create}:  patientNeeded,
	{model.RoleNurse, HealthMetrics, Create}:   patientNeeded,
	{model.RoleAdmin, HealthMetrics, Create}:   patientNeeded,

	{model.RolePatient, Profile, Read}:   ownAsUser,
	{model.RoleDoctor, Profile, Read}:    ownAsUser,
	{model.RoleNurse, Profile, Read}:     ownAsUser,
	{model.RoleAdmin, Profile, Read}:     ownAsUser,
	{model.RolePatient, Profile, Update}: ownAsUser,
	{model.RoleDoctor, Profile, Update}:  ownAsUser,
	{model.RoleNurse, Profile, Update}:   ownAsUser,
	{model.RoleAdmin, Profile, Update}:   ownAsUser,

	{model.RoleAdmin, Users, Read}: all,

	{model.RolePatient, DoctorDirectory, Read}: all,
	{model.RoleDoctor, DoctorDirectory, Read}:  all,
	{model.RoleNurse, DoctorDirectory, Read}:   all,
	{model.RoleAdmin, DoctorDirectory, Read}:   all,
	{model.RoleDoctor, PatientDirectory, Read}: all,
	{model.RoleNurse, PatientDirectory, Read}:  all,
	{model.RoleAdmin, PatientDirectory, Read}:  all,

	{model.RoleAdmin, ContactMessages, Read}:   all,
	{model.RoleAdmin, ContactMessages, Update}: all,

	{model.RolePatient, Feedback, Create}: ownAsUser,
	{model.RoleDoctor, Feedback, Create}:  ownAsUser,
	{model.RoleNurse, Feedback, Create}:   ownAsUser,
	{model.RoleAdmin, Feedback, Create}:   ownAsUser,
	{model.RoleAdmin, Feedback, Read}:     all,

	{model.RolePatient, Analytics, Read}: ownAsPatient,
	{model.RoleDoctor, Analytics, Read}:  ownAsDoctor,
	{model.RoleNurse, Analytics, Read}:   all,
	{model.RoleAdmin, Analytics, Read}:   all,
}

// Evaluate looks up the decision for role, resource and operation.
func Evaluate(role model.Role, resource Resource, op Operation) Decision {
	return table[key{role: role, resource: resource, op: op}]
}

// Scope is a resolved decision: either everything, optionally narrowed to one
// patient, or only the rows whose Field equals OwnerID.
type Scope struct {
	All       bool
	Field     Field
	OwnerID   uuid.UUID
	PatientID *uuid.UUID
}

// PatientFilter returns the patient id rows must match, or nil.
func (s Scope) PatientFilter() *uuid.UUID {
	if !s.All && s.Field == FieldPatientID {
		id := s.OwnerID
		return &id
	}
	return s.PatientID
}

// DoctorFilter returns the doctor id rows must match, or nil.
func (s Scope) DoctorFilter() *uuid.UUID {
	if !s.All && s.Field == FieldDoctorID {
		id := s.OwnerID
		return &id
	}
	return nil
}

// UserFilter returns the user id rows must match, or nil.
func (s Scope) UserFilter() *uuid.UUID {
	if !s.All && s.Field == FieldUserID {
		id := s.OwnerID
		return &id
	}
	return nil
}

// Owns reports whether the scope covers a row owned by the given ids.
func (s Scope) Owns(patientID, doctorID, userID uuid.UUID) bool {
	if s.All {
		return s.PatientID == nil || *s.PatientID == patientID
	}
	switch s.Field {
	case FieldPatientID:
		return patientID == s.OwnerID
	case FieldDoctorID:
		return doctorID == s.OwnerID
	case FieldUserID:
		return userID == s.OwnerID
	}
	return false
}

// Resolve evaluates the policy for p and returns the scope to apply.
// requestedPatientID is the client-supplied patientId, if any.
func Resolve(p auth.Principal, resource Resource, op Operation, requestedPatientID *uuid.UUID) (Scope, error) {
	d := Evaluate(p.Role, resource, op)
	metrics.PolicyDecisions.WithLabelValues(string(resource), string(op), d.Effect.String()).Inc()

	switch d.Effect {
	case AllowOwn:
		if d.PatientParam == ParamWidens && requestedPatientID != nil {
			return Scope{All: true, PatientID: requestedPatientID}, nil
		}
		return Scope{Field: d.Field, OwnerID: p.UserID}, nil
	case AllowAll:
		if requestedPatientID == nil {
			switch d.PatientParam {
			case ParamRequired:
				return Scope{}, apperrors.ErrPatientIDRequired
			case ParamRequiredOrDeny:
				return Scope{}, fmt.Errorf("%w: patientId parameter required", apperrors.ErrForbidden)
			}
		}
		if d.PatientParam == ParamIgnored {
			requestedPatientID = nil
		}
		return Scope{All: true, PatientID: requestedPatientID}, nil
	default:
		return Scope{}, apperrors.ErrForbidden
	}
}
