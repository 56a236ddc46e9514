package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/middleware"
)

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.FromValidator(err)
	}
	return nil
}

func principal(c echo.Context) (auth.Principal, error) {
	return middleware.PrincipalFrom(c)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("id must be a valid UUID")
	}
	return id, nil
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("%s must be a valid UUID", name)
	}
	return &id, nil
}

// bodyUUID parses a UUID taken from a request body field. Empty input yields uuid.Nil.
func bodyUUID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("%s must be a valid UUID", field)
	}
	return id, nil
}

func queryString(c echo.Context, name string) *string {
	if v := c.QueryParam(name); v != "" {
		return &v
	}
	return nil
}
