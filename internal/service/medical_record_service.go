package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

// MedicalRecordInput is a new visit record.
type MedicalRecordInput struct {
	PatientID     uuid.UUID
	DoctorID      uuid.UUID
	AppointmentID *uuid.UUID
	VisitDate     string
	Diagnosis     string
	Treatment     string
	Prescription  []model.Prescription
	LabResults    json.RawMessage
	Vitals        *model.Vitals
	Notes         string
	Attachments   []string
}

// MedicalRecordUpdate is a partial record change. Nil fields are left untouched.
// Patient and doctor cannot be reassigned.
type MedicalRecordUpdate struct {
	VisitDate    *string
	Diagnosis    *string
	Treatment    *string
	Prescription []model.Prescription
	LabResults   json.RawMessage
	Vitals       *model.Vitals
	Notes        *string
	Attachments  []string
}

// MedicalRecordService is the role-scoped facade over medical records.
type MedicalRecordService interface {
	ListForRequester(ctx context.Context, p auth.Principal, patientID *uuid.UUID) ([]model.MedicalRecord, error)
	Create(ctx context.Context, p auth.Principal, in MedicalRecordInput) (*model.MedicalRecord, error)
	Update(ctx context.Context, p auth.Principal, id uuid.UUID, upd MedicalRecordUpdate) (*model.MedicalRecord, error)
}

type medicalRecordService struct {
	records repository.MedicalRecordRepository
	users   repository.UserRepository
}

// NewMedicalRecordService creates a new medical record service.
func NewMedicalRecordService(records repository.MedicalRecordRepository, users repository.UserRepository) MedicalRecordService {
	return &medicalRecordService{records: records, users: users}
}

// ListForRequester returns the records the requester may see. Patients get
// their own, doctors the ones they wrote or any patient's when patientId is
// given, nurses and admins must name a patient.
func (s *medicalRecordService) ListForRequester(ctx context.Context, p auth.Principal, patientID *uuid.UUID) ([]model.MedicalRecord, error) {
	scope, err := policy.Resolve(p, policy.MedicalRecords, policy.Read, patientID)
	if err != nil {
		return nil, err
	}
	return s.records.List(ctx, repository.MedicalRecordFilter{
		PatientID: scope.PatientFilter(),
		DoctorID:  scope.DoctorFilter(),
	})
}

// Create stores a record. Doctors always sign as themselves.
func (s *medicalRecordService) Create(ctx context.Context, p auth.Principal, in MedicalRecordInput) (*model.MedicalRecord, error) {
	scope, err := policy.Resolve(p, policy.MedicalRecords, policy.Create, nil)
	if err != nil {
		return nil, err
	}
	if did := scope.DoctorFilter(); did != nil {
		in.DoctorID = *did
	}

	if in.PatientID == uuid.Nil {
		return nil, apperrors.NewValidationError("patientId is required")
	}
	if in.DoctorID == uuid.Nil {
		return nil, apperrors.NewValidationError("doctorId is required")
	}
	if !validDate(in.VisitDate) {
		return nil, apperrors.NewValidationError("visitDate must be formatted YYYY-MM-DD")
	}
	if err := validLabResults(in.LabResults); err != nil {
		return nil, err
	}
	if err := expectRole(ctx, s.users, in.PatientID, model.RolePatient, "patientId"); err != nil {
		return nil, err
	}
	if err := expectRole(ctx, s.users, in.DoctorID, model.RoleDoctor, "doctorId"); err != nil {
		return nil, err
	}

	rec := &model.MedicalRecord{
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		AppointmentID: in.AppointmentID,
		VisitDate:     in.VisitDate,
		Diagnosis:     in.Diagnosis,
		Treatment:     in.Treatment,
		Notes:         in.Notes,
	}
	if len(in.Prescription) > 0 {
		rec.Prescription = datatypes.JSONSlice[model.Prescription](in.Prescription)
	}
	if len(in.LabResults) > 0 {
		rec.LabResults = datatypes.JSON(in.LabResults)
	}
	if in.Vitals != nil {
		v := datatypes.NewJSONType(*in.Vitals)
		rec.Vitals = &v
	}
	if len(in.Attachments) > 0 {
		rec.Attachments = datatypes.JSONSlice[string](in.Attachments)
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create medical record: %w", err)
	}
	return rec, nil
}

// Update changes a record the requester may edit. Doctors edit only their own.
func (s *medicalRecordService) Update(ctx context.Context, p auth.Principal, id uuid.UUID, upd MedicalRecordUpdate) (*model.MedicalRecord, error) {
	scope, err := policy.Resolve(p, policy.MedicalRecords, policy.Update, nil)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(rec.PatientID, rec.DoctorID, uuid.Nil) {
		return nil, apperrors.ErrForbidden
	}

	if upd.VisitDate != nil {
		if !validDate(*upd.VisitDate) {
			return nil, apperrors.NewValidationError("visitDate must be formatted YYYY-MM-DD")
		}
		rec.VisitDate = *upd.VisitDate
	}
	if err := validLabResults(upd.LabResults); err != nil {
		return nil, err
	}
	if upd.Diagnosis != nil {
		rec.Diagnosis = *upd.Diagnosis
	}
	if upd.Treatment != nil {
		rec.Treatment = *upd.Treatment
	}
	if upd.Notes != nil {
		rec.Notes = *upd.Notes
	}
	if upd.Prescription != nil {
		rec.Prescription = datatypes.JSONSlice[model.Prescription](upd.Prescription)
	}
	if upd.LabResults != nil {
		rec.LabResults = datatypes.JSON(upd.LabResults)
	}
	if upd.Vitals != nil {
		v := datatypes.NewJSONType(*upd.Vitals)
		rec.Vitals = &v
	}
	if upd.Attachments != nil {
		rec.Attachments = datatypes.JSONSlice[string](upd.Attachments)
	}

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update medical record: %w", err)
	}
	return rec, nil
}

func validLabResults(raw json.RawMessage) error {
	if len(raw) > 0 && !json.Valid(raw) {
		return apperrors.NewValidationError("labResults must be valid JSON")
	}
	return nil
}
