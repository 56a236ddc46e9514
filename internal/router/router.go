package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"healthportal/internal/auth"
	"healthportal/internal/config"
	"healthportal/internal/handler"
	"healthportal/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api.
// Fixture may be nil, in which case the fixture routes are not mounted.
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Appointment   *handler.AppointmentHandler
	MedicalRecord *handler.MedicalRecordHandler
	HealthMetrics *handler.HealthMetricsHandler
	Contact       *handler.ContactHandler
	Feedback      *handler.FeedbackHandler
	Analytics     *handler.AnalyticsHandler
	Fixture       *handler.FixtureHandler
}

// Register wires routes and middleware. The returned limiter guards the
// auth routes and must be stopped on shutdown.
func Register(e *echo.Echo, cfg *config.Config, tokens auth.TokenService, h Handlers) *middleware.IPRateLimiter {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst)
	limited := middleware.RateLimit(limiter)
	api.POST("/auth/register", h.Auth.Register, limited)
	api.POST("/auth/login", h.Auth.Login, limited)
	api.POST("/contact", h.Contact.SubmitContact)

	if h.Fixture != nil {
		api.POST("/create-test-user", h.Fixture.CreateTestUser)
		api.POST("/create-test-doctors", h.Fixture.CreateTestDoctors)
	}

	// Secured routes. The middleware is attached per route so unknown paths
	// still answer 404.
	jwt := middleware.JWT(tokens)

	api.GET("/users/profile", h.User.GetProfile, jwt)
	api.PUT("/users/profile", h.User.UpdateProfile, jwt)
	api.GET("/users", h.User.ListUsers, jwt)
	api.GET("/directory", h.User.Directory, jwt)

	api.GET("/appointments", h.Appointment.ListAppointments, jwt)
	api.POST("/appointments", h.Appointment.CreateAppointment, jwt)
	api.GET("/appointments/available-slots", h.Appointment.AvailableSlots, jwt)
	api.PUT("/appointments/:id", h.Appointment.UpdateAppointment, jwt)

	api.GET("/medical-records", h.MedicalRecord.ListMedicalRecords, jwt)
	api.POST("/medical-records", h.MedicalRecord.CreateMedicalRecord, jwt)
	api.PUT("/medical-records/:id", h.MedicalRecord.UpdateMedicalRecord, jwt)

	api.GET("/health-metrics", h.HealthMetrics.ListHealthMetrics, jwt)
	api.POST("/health-metrics", h.HealthMetrics.CreateHealthMetrics, jwt)

	api.GET("/contact", h.Contact.ListContact, jwt)
	api.PATCH("/contact/:id/status", h.Contact.UpdateContactStatus, jwt)

	api.POST("/feedback", h.Feedback.SubmitFeedback, jwt)
	api.GET("/feedback", h.Feedback.ListFeedback, jwt)

	api.GET("/analytics/dashboard-stats", h.Analytics.DashboardStats, jwt)

	return limiter
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
