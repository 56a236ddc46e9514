package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"healthportal/internal/model"
	"healthportal/internal/service"
)

// MedicalRecordHandler serves medical record endpoints.
type MedicalRecordHandler struct {
	svc service.MedicalRecordService
}

// NewMedicalRecordHandler creates a new medical record handler.
func NewMedicalRecordHandler(svc service.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{svc: svc}
}

// CreateMedicalRecordRequest documents a visit. DoctorID is ignored for doctors.
type CreateMedicalRecordRequest struct {
	PatientID     string               `json:"patientId" validate:"required"`
	DoctorID      string               `json:"doctorId"`
	AppointmentID string               `json:"appointmentId"`
	VisitDate     string               `json:"visitDate" validate:"required,datetime=2006-01-02"`
	Diagnosis     string               `json:"diagnosis"`
	Treatment     string               `json:"treatment"`
	Prescription  []model.Prescription `json:"prescription" validate:"dive"`
	LabResults    json.RawMessage      `json:"labResults" swaggertype:"object"`
	Vitals        *model.Vitals        `json:"vitals"`
	Notes         string               `json:"notes"`
	Attachments   []string             `json:"attachments" validate:"dive,max=512"`
}

// UpdateMedicalRecordRequest is a partial record change.
type UpdateMedicalRecordRequest struct {
	VisitDate    *string              `json:"visitDate" validate:"omitempty,datetime=2006-01-02"`
	Diagnosis    *string              `json:"diagnosis"`
	Treatment    *string              `json:"treatment"`
	Prescription []model.Prescription `json:"prescription" validate:"dive"`
	LabResults   json.RawMessage      `json:"labResults" swaggertype:"object"`
	Vitals       *model.Vitals        `json:"vitals"`
	Notes        *string              `json:"notes"`
	Attachments  []string             `json:"attachments" validate:"dive,max=512"`
}

// ListMedicalRecords godoc
// @Summary List medical records visible to the requester
// @Tags medical-records
// @Produce json
// @Security BearerAuth
// @Param patientId query string false "Patient ID (required for nurses and admins)"
// @Success 200 {array} model.MedicalRecord
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /medical-records [get]
func (h *MedicalRecordHandler) ListMedicalRecords(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	patientID, err := queryUUID(c, "patientId")
	if err != nil {
		return err
	}
	records, err := h.svc.ListForRequester(c.Request().Context(), p, patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// CreateMedicalRecord godoc
// @Summary Record a visit (doctors and nurses)
// @Tags medical-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMedicalRecordRequest true "Record"
// @Success 201 {object} model.MedicalRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /medical-records [post]
func (h *MedicalRecordHandler) CreateMedicalRecord(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req CreateMedicalRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patientID, err := bodyUUID("patientId", req.PatientID)
	if err != nil {
		return err
	}
	doctorID, err := bodyUUID("doctorId", req.DoctorID)
	if err != nil {
		return err
	}
	appointmentID, err := bodyUUID("appointmentId", req.AppointmentID)
	if err != nil {
		return err
	}

	in := service.MedicalRecordInput{
		PatientID:    patientID,
		DoctorID:     doctorID,
		VisitDate:    req.VisitDate,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
		LabResults:   req.LabResults,
		Vitals:       req.Vitals,
		Notes:        req.Notes,
		Attachments:  req.Attachments,
	}
	if appointmentID != uuid.Nil {
		in.AppointmentID = &appointmentID
	}

	rec, err := h.svc.Create(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

// UpdateMedicalRecord godoc
// @Summary Update a medical record (authoring doctor or nurse)
// @Tags medical-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body UpdateMedicalRecordRequest true "Changes"
// @Success 200 {object} model.MedicalRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /medical-records/{id} [put]
func (h *MedicalRecordHandler) UpdateMedicalRecord(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateMedicalRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rec, err := h.svc.Update(c.Request().Context(), p, id, service.MedicalRecordUpdate{
		VisitDate:    req.VisitDate,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
		LabResults:   req.LabResults,
		Vitals:       req.Vitals,
		Notes:        req.Notes,
		Attachments:  req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}
