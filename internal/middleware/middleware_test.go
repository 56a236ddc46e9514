package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if httpErr, ok := err.(*apperrors.HTTPError); ok {
			_ = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			return
		}
		mapped := apperrors.MapErrorToHTTP(err)
		_ = c.JSON(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return e
}

func TestJWT(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	userID := uuid.New()
	valid, err := tokens.Issue(userID, "d@x.com", model.RoleDoctor)
	require.NoError(t, err)

	e := newEcho()
	e.GET("/me", func(c echo.Context) error {
		p, err := PrincipalFrom(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}, JWT(auth.NewJWTService("secret", time.Hour)))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "tampered token", header: "Bearer " + valid + "x", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := serve(e, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			} else {
				assert.Contains(t, rec.Body.String(), userID.String())
			}
		})
	}
}

func TestPrincipalFrom_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := PrincipalFrom(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	defer limiter.Stop()

	e := newEcho()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RateLimit(limiter))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(e, req).Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "buckets are per IP")
}

func TestIPRateLimiter_Sweep(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	defer limiter.Stop()

	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	first := limiter.GetLimiter("10.0.0.1")
	limiter.GetLimiter("10.0.0.2")

	clock = clock.Add(2 * time.Minute)
	limiter.GetLimiter("10.0.0.2")

	clock = clock.Add(2 * time.Minute)
	limiter.sweep()

	limiter.mu.Lock()
	assert.Len(t, limiter.ips, 1)
	assert.Contains(t, limiter.ips, "10.0.0.2")
	limiter.mu.Unlock()

	assert.NotSame(t, first, limiter.GetLimiter("10.0.0.1"))
	limiter.Stop()
}
