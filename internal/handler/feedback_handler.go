package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthportal/internal/service"
)

// FeedbackHandler serves feedback endpoints.
type FeedbackHandler struct {
	svc service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(svc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// FeedbackRequest is a rating with an optional comment.
type FeedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment" validate:"max=5000"`
	Category string `json:"category" validate:"omitempty,oneof=service system doctor general"`
}

// SubmitFeedback godoc
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FeedbackRequest true "Feedback"
// @Success 201 {object} model.Feedback
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req FeedbackRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	f, err := h.svc.Submit(c.Request().Context(), p, service.FeedbackInput{
		Rating:   req.Rating,
		Comment:  req.Comment,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFeedback godoc
// @Summary List feedback (admin)
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Feedback
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /feedback [get]
func (h *FeedbackHandler) ListFeedback(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
