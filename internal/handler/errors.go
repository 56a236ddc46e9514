package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	apperrors "healthportal/internal/errors"
)

var codeByStatus = map[int]string{
	http.StatusBadRequest:            "BAD_REQUEST",
	http.StatusUnauthorized:          "UNAUTHENTICATED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusTooManyRequests:       "RATE_LIMITED",
}

// ErrorHandler renders every error as {"message","code","details"}.
// Causes of 5xx responses are logged and never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		httpErr *apperrors.HTTPError
		echoErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &httpErr):
	case errors.As(err, &echoErr):
		httpErr = fromEcho(echoErr)
	default:
		httpErr = apperrors.MapErrorToHTTP(err)
	}

	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}

func fromEcho(he *echo.HTTPError) *apperrors.HTTPError {
	if he.Code >= http.StatusInternalServerError {
		return apperrors.NewHTTPError(he.Code, "internal server error", "INTERNAL_ERROR")
	}
	msg, ok := he.Message.(string)
	if !ok {
		msg = fmt.Sprint(he.Message)
	}
	code, ok := codeByStatus[he.Code]
	if !ok {
		code = "HTTP_ERROR"
	}
	return apperrors.NewHTTPError(he.Code, msg, code)
}
