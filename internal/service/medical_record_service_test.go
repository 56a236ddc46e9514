package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func TestMedicalRecordService_DeniedBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
	}{
		{name: "patient", role: model.RolePatient},
		{name: "admin", role: model.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := new(MockMedicalRecordRepository)
			users := new(MockUserRepository)
			svc := NewMedicalRecordService(records, users)
			p := auth.Principal{UserID: uuid.New(), Role: tt.role}

			_, err := svc.Create(context.Background(), p, MedicalRecordInput{
				PatientID: p.UserID,
				DoctorID:  uuid.New(),
				VisitDate: "2030-01-10",
				Diagnosis: "Self-diagnosed",
			})
			assert.ErrorIs(t, err, apperrors.ErrForbidden)

			_, err = svc.Update(context.Background(), p, uuid.New(), MedicalRecordUpdate{Diagnosis: strPtr("x")})
			assert.ErrorIs(t, err, apperrors.ErrForbidden)

			records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			records.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			records.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestMedicalRecordService_DoctorRecordsFlu(t *testing.T) {
	store := newStore()
	svc := NewMedicalRecordService(store.MedicalRecords, store.Users)
	ctx := context.Background()

	patient := newUser(t, store, "p@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	unrelated := newUser(t, store, "d2@x.com", model.RoleDoctor)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	rec, err := svc.Create(ctx, doctor, MedicalRecordInput{
		PatientID:    patient.UserID,
		DoctorID:     unrelated.UserID,
		VisitDate:    "2030-01-10",
		Diagnosis:    "Flu",
		Prescription: []model.Prescription{{Medication: "Oseltamivir", Dosage: "75mg"}},
		LabResults:   json.RawMessage(`{"influenzaA":"positive"}`),
		Vitals:       &model.Vitals{BloodPressure: "120/80", Temperature: decimal.NewNullDecimal(decimal.RequireFromString("38.5"))},
	})
	require.NoError(t, err)
	assert.Equal(t, doctor.UserID, rec.DoctorID, "doctorId is forced to the author")

	mine, err := svc.ListForRequester(ctx, patient, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Flu", mine[0].Diagnosis)
	require.NotNil(t, mine[0].Vitals)
	assert.Equal(t, "120/80", mine[0].Vitals.Data().BloodPressure)

	other, err := svc.ListForRequester(ctx, unrelated, nil)
	require.NoError(t, err)
	assert.Empty(t, other)

	widened, err := svc.ListForRequester(ctx, unrelated, &patient.UserID)
	require.NoError(t, err)
	assert.Len(t, widened, 1)

	_, err = svc.ListForRequester(ctx, nurse, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	byNurse, err := svc.ListForRequester(ctx, nurse, &patient.UserID)
	require.NoError(t, err)
	assert.Len(t, byNurse, 1)

	spoof, err := svc.ListForRequester(ctx, newUser(t, store, "p2@x.com", model.RolePatient), &patient.UserID)
	require.NoError(t, err)
	assert.Empty(t, spoof)
}

func TestMedicalRecordService_Update(t *testing.T) {
	store := newStore()
	svc := NewMedicalRecordService(store.MedicalRecords, store.Users)
	ctx := context.Background()

	patient := newUser(t, store, "p@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	unrelated := newUser(t, store, "d2@x.com", model.RoleDoctor)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	rec, err := svc.Create(ctx, doctor, MedicalRecordInput{PatientID: patient.UserID, VisitDate: "2030-01-10", Diagnosis: "Flu"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, unrelated, rec.ID, MedicalRecordUpdate{Diagnosis: strPtr("Cold")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.Update(ctx, doctor, rec.ID, MedicalRecordUpdate{Treatment: strPtr("Rest"), Attachments: []string{"xray.png"}})
	require.NoError(t, err)
	assert.Equal(t, "Rest", updated.Treatment)
	assert.Equal(t, "Flu", updated.Diagnosis)
	assert.Equal(t, []string{"xray.png"}, []string(updated.Attachments))

	_, err = svc.Update(ctx, nurse, rec.ID, MedicalRecordUpdate{VisitDate: strPtr("soon")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Update(ctx, nurse, uuid.New(), MedicalRecordUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMedicalRecordService_NurseMustNameDoctor(t *testing.T) {
	store := newStore()
	svc := NewMedicalRecordService(store.MedicalRecords, store.Users)
	ctx := context.Background()

	patient := newUser(t, store, "p@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	_, err := svc.Create(ctx, nurse, MedicalRecordInput{PatientID: patient.UserID, VisitDate: "2030-01-10"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	rec, err := svc.Create(ctx, nurse, MedicalRecordInput{PatientID: patient.UserID, DoctorID: doctor.UserID, VisitDate: "2030-01-10"})
	require.NoError(t, err)
	assert.Equal(t, doctor.UserID, rec.DoctorID)

	_, err = svc.Create(ctx, nurse, MedicalRecordInput{PatientID: patient.UserID, DoctorID: doctor.UserID, VisitDate: "2030-01-10", LabResults: json.RawMessage(`{bad`)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
