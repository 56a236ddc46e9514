package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/service"
)

// UserHandler serves profile, user listing and directory endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest is a partial profile change. Password and role are not accepted.
type UpdateProfileRequest struct {
	Email          *string         `json:"email" validate:"omitempty,email"`
	FirstName      *string         `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string         `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone          *string         `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth    *string         `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string         `json:"gender" validate:"omitempty,max=20"`
	Address        json.RawMessage `json:"address" swaggertype:"object"`
	ProfileImage   *string         `json:"profileImage" validate:"omitempty,max=512"`
	Specialization *string         `json:"specialization" validate:"omitempty,max=100"`
	LicenseNumber  *string         `json:"licenseNumber" validate:"omitempty,max=100"`
}

func (r UpdateProfileRequest) toUpdate() (model.UserUpdate, error) {
	upd := model.UserUpdate{
		Email:          r.Email,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DateOfBirth:    r.DateOfBirth,
		Gender:         r.Gender,
		ProfileImage:   r.ProfileImage,
		Specialization: r.Specialization,
		LicenseNumber:  r.LicenseNumber,
	}
	if len(r.Address) > 0 && string(r.Address) != "null" {
		var obj map[string]interface{}
		if err := json.Unmarshal(r.Address, &obj); err != nil {
			return upd, apperrors.NewValidationError("address must be a JSON object")
		}
		upd.Address = datatypes.JSON(r.Address)
	}
	return upd, nil
}

// GetProfile godoc
// @Summary Get the requester's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.svc.Profile(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserResponse{User: user})
}

// UpdateProfile godoc
// @Summary Update the requester's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	upd, err := req.toUpdate()
	if err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), p, upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserResponse{Message: "profile updated", User: user})
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter" Enums(patient, doctor, nurse, admin)
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var role *model.Role
	if raw := c.QueryParam("role"); raw != "" {
		r := model.Role(raw)
		role = &r
	}
	users, err := h.svc.List(c.Request().Context(), p, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Directory godoc
// @Summary List active doctors or patients
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string true "Directory" Enums(doctor, patient)
// @Success 200 {array} service.DirectoryEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /directory [get]
func (h *UserHandler) Directory(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	entries, err := h.svc.Directory(c.Request().Context(), p, model.Role(c.QueryParam("role")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
