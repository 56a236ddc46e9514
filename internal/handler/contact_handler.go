package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthportal/internal/model"
	"healthportal/internal/service"
)

// ContactHandler serves the public contact form and its admin inbox.
type ContactHandler struct {
	svc service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Message   string `json:"message" validate:"required,max=5000"`
}

// ContactStatusRequest moves a message forward.
type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read responded"`
}

// SubmitContact godoc
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Message"
// @Success 201 {object} model.ContactMessage
// @Failure 400 {object} errors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) SubmitContact(c echo.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.svc.Submit(c.Request().Context(), service.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// ListContact godoc
// @Summary List contact messages (admin)
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ContactMessage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /contact [get]
func (h *ContactHandler) ListContact(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	msgs, err := h.svc.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// UpdateContactStatus godoc
// @Summary Mark a contact message read or responded (admin)
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body ContactStatusRequest true "Status"
// @Success 200 {object} model.ContactMessage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /contact/{id}/status [patch]
func (h *ContactHandler) UpdateContactStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req ContactStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.svc.UpdateStatus(c.Request().Context(), p, id, model.ContactMessageStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}
