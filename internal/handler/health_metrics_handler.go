package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"healthportal/internal/model"
	"healthportal/internal/service"
)

// HealthMetricsHandler serves health metrics endpoints.
type HealthMetricsHandler struct {
	svc service.HealthMetricsService
}

// NewHealthMetricsHandler creates a new health metrics handler.
func NewHealthMetricsHandler(svc service.HealthMetricsService) *HealthMetricsHandler {
	return &HealthMetricsHandler{svc: svc}
}

// HealthMetricsRequest is a new snapshot. Numbers may be sent as JSON numbers or strings.
type HealthMetricsRequest struct {
	BloodPressure    string                  `json:"bloodPressure" validate:"max=20"`
	HeartRate        *int                    `json:"heartRate" validate:"omitempty,gt=0"`
	Weight           decimal.NullDecimal     `json:"weight" swaggertype:"number"`
	Temperature      decimal.NullDecimal     `json:"temperature" swaggertype:"number"`
	Height           decimal.NullDecimal     `json:"height" swaggertype:"number"`
	BloodType        string                  `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        []string                `json:"allergies"`
	EmergencyContact *model.EmergencyContact `json:"emergencyContact"`
	RecordedDate     string                  `json:"recordedDate" validate:"omitempty,datetime=2006-01-02"`
}

// ListHealthMetrics godoc
// @Summary List health metrics of one patient
// @Tags health-metrics
// @Produce json
// @Security BearerAuth
// @Param patientId query string false "Patient ID (required for staff)"
// @Success 200 {array} model.HealthMetrics
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /health-metrics [get]
func (h *HealthMetricsHandler) ListHealthMetrics(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	patientID, err := queryUUID(c, "patientId")
	if err != nil {
		return err
	}
	metrics, err := h.svc.ListForRequester(c.Request().Context(), p, patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metrics)
}

// CreateHealthMetrics godoc
// @Summary Record a health metrics snapshot
// @Tags health-metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param patientId query string false "Patient ID (required for staff)"
// @Param request body HealthMetricsRequest true "Snapshot"
// @Success 201 {object} model.HealthMetrics
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /health-metrics [post]
func (h *HealthMetricsHandler) CreateHealthMetrics(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	patientID, err := queryUUID(c, "patientId")
	if err != nil {
		return err
	}
	var req HealthMetricsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	m, err := h.svc.Create(c.Request().Context(), p, service.HealthMetricsInput{
		PatientID:        patientID,
		BloodPressure:    req.BloodPressure,
		HeartRate:        req.HeartRate,
		Weight:           req.Weight,
		Temperature:      req.Temperature,
		Height:           req.Height,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
		EmergencyContact: req.EmergencyContact,
		RecordedDate:     req.RecordedDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
