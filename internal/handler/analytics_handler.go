package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthportal/internal/service"
)

// AnalyticsHandler serves dashboard counts.
type AnalyticsHandler struct {
	svc service.AnalyticsService
}

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// DashboardStats godoc
// @Summary Dashboard counts, global for staff and own otherwise
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /analytics/dashboard-stats [get]
func (h *AnalyticsHandler) DashboardStats(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.DashboardStats(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
