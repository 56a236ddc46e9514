package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/service"
)

// AppointmentHandler serves booking endpoints.
type AppointmentHandler struct {
	svc service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler.
func NewAppointmentHandler(svc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// CreateAppointmentRequest is a booking request. PatientID is ignored for patients.
type CreateAppointmentRequest struct {
	PatientID         string `json:"patientId"`
	DoctorID          string `json:"doctorId" validate:"required"`
	AppointmentDate   string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	TimeSlot          string `json:"timeSlot" validate:"required,datetime=15:04"`
	Reason            string `json:"reason"`
	Notes             string `json:"notes"`
	InsuranceProvider string `json:"insuranceProvider" validate:"max=100"`
}

// UpdateAppointmentRequest changes status, slot or details of an appointment.
type UpdateAppointmentRequest struct {
	Status            *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled rescheduled"`
	AppointmentDate   *string `json:"appointmentDate" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot          *string `json:"timeSlot" validate:"omitempty,datetime=15:04"`
	Reason            *string `json:"reason"`
	Notes             *string `json:"notes"`
	InsuranceProvider *string `json:"insuranceProvider" validate:"omitempty,max=100"`
}

// AvailableSlotsResponse lists the free slots of one doctor on one day.
type AvailableSlotsResponse struct {
	DoctorID       uuid.UUID `json:"doctorId"`
	Date           string    `json:"date"`
	AvailableSlots []string  `json:"availableSlots"`
}

// ListAppointments godoc
// @Summary List appointments visible to the requester
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param patientId query string false "Patient filter (staff)"
// @Param doctorId query string false "Doctor filter (staff)"
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Success 200 {array} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /appointments [get]
func (h *AppointmentHandler) ListAppointments(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	patientID, err := queryUUID(c, "patientId")
	if err != nil {
		return err
	}
	doctorID, err := queryUUID(c, "doctorId")
	if err != nil {
		return err
	}
	appts, err := h.svc.ListForRequester(c.Request().Context(), p, service.AppointmentQuery{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      queryString(c, "date"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appts)
}

// CreateAppointment godoc
// @Summary Book an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAppointmentRequest true "Booking"
// @Success 201 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req CreateAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doctorID, err := bodyUUID("doctorId", req.DoctorID)
	if err != nil {
		return err
	}
	patientID, err := bodyUUID("patientId", req.PatientID)
	if err != nil {
		return err
	}

	in := service.CreateAppointmentInput{
		PatientID:         patientID,
		DoctorID:          doctorID,
		AppointmentDate:   req.AppointmentDate,
		TimeSlot:          req.TimeSlot,
		Reason:            req.Reason,
		Notes:             req.Notes,
		InsuranceProvider: req.InsuranceProvider,
	}

	appt, err := h.svc.Create(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appt)
}

// UpdateAppointment godoc
// @Summary Update, cancel, complete or reschedule an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body UpdateAppointmentRequest true "Changes"
// @Success 200 {object} model.Appointment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) UpdateAppointment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateAppointmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateAppointmentInput{
		AppointmentDate:   req.AppointmentDate,
		TimeSlot:          req.TimeSlot,
		Reason:            req.Reason,
		Notes:             req.Notes,
		InsuranceProvider: req.InsuranceProvider,
	}
	if req.Status != nil {
		status := model.AppointmentStatus(*req.Status)
		in.Status = &status
	}

	appt, err := h.svc.Update(c.Request().Context(), p, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

// AvailableSlots godoc
// @Summary Free time slots of a doctor on a date
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param doctorId query string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} AvailableSlotsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /appointments/available-slots [get]
func (h *AppointmentHandler) AvailableSlots(c echo.Context) error {
	doctorID, err := queryUUID(c, "doctorId")
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if doctorID == nil || date == "" {
		return apperrors.NewValidationError("doctorId and date are required")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), *doctorID, date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AvailableSlotsResponse{DoctorID: *doctorID, Date: date, AvailableSlots: slots})
}
