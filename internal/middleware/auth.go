package middleware

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
)

// PrincipalKey is the echo context key holding the authenticated auth.Principal.
const PrincipalKey = "principal"

// JWT authenticates bearer tokens with tokens and stores the resulting
// principal under PrincipalKey. Every failure is a 401.
func JWT(tokens auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  PrincipalKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return tokens.Verify(strings.TrimSpace(token))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extractErr *echojwt.TokenExtractionError
			switch {
			case errors.As(err, &extractErr):
				return apperrors.ErrUnauthenticated
			case errors.Is(err, auth.ErrTokenExpired):
				return apperrors.NewHTTPError(http.StatusUnauthorized, "token expired", "TOKEN_EXPIRED")
			default:
				return apperrors.NewHTTPError(http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
			}
		},
	})
}

// PrincipalFrom returns the principal stored by JWT.
func PrincipalFrom(c echo.Context) (auth.Principal, error) {
	p, ok := c.Get(PrincipalKey).(auth.Principal)
	if !ok {
		return auth.Principal{}, apperrors.ErrUnauthenticated
	}
	return p, nil
}
