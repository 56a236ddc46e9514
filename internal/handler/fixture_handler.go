package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"healthportal/internal/model"
	"healthportal/internal/seed"
)

// FixtureHandler exposes development fixture loading. Routes exist only when
// fixtures are enabled in configuration.
type FixtureHandler struct {
	seeder *seed.Seeder
}

// NewFixtureHandler creates a new fixture handler.
func NewFixtureHandler(seeder *seed.Seeder) *FixtureHandler {
	return &FixtureHandler{seeder: seeder}
}

// LoginCredentials are the known credentials of a fixture account.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TestUserResponse is the result of loading the test patient.
type TestUserResponse struct {
	Message          string            `json:"message"`
	User             *model.User       `json:"user,omitempty"`
	LoginCredentials *LoginCredentials `json:"loginCredentials,omitempty"`
}

// TestDoctorsResponse is the result of loading the test doctors.
type TestDoctorsResponse struct {
	Message   string       `json:"message"`
	Doctors   []model.User `json:"doctors"`
	LoginInfo string       `json:"loginInfo"`
}

// CreateTestUser godoc
// @Summary Create the development test patient
// @Tags fixtures
// @Produce json
// @Success 200 {object} TestUserResponse
// @Success 201 {object} TestUserResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-test-user [post]
func (h *FixtureHandler) CreateTestUser(c echo.Context) error {
	user, created, err := h.seeder.TestUser(c.Request().Context())
	if err != nil {
		return err
	}
	if !created {
		return c.JSON(http.StatusOK, TestUserResponse{Message: "test user already exists"})
	}
	return c.JSON(http.StatusCreated, TestUserResponse{
		Message: "test user created successfully",
		User:    user,
		LoginCredentials: &LoginCredentials{
			Email:    seed.TestPatient.Email,
			Password: seed.TestPatient.Password,
		},
	})
}

// CreateTestDoctors godoc
// @Summary Create the development test doctors
// @Tags fixtures
// @Produce json
// @Success 201 {object} TestDoctorsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-test-doctors [post]
func (h *FixtureHandler) CreateTestDoctors(c echo.Context) error {
	doctors, err := h.seeder.Doctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, TestDoctorsResponse{
		Message:   fmt.Sprintf("%d test doctors created successfully", len(doctors)),
		Doctors:   doctors,
		LoginInfo: "all test doctors log in with password " + seed.TestDoctors[0].Password,
	})
}
