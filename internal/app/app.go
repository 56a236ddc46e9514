package app

import (
	"context"

	"github.com/labstack/echo/v4"

	"healthportal/internal/auth"
	"healthportal/internal/cache"
	"healthportal/internal/config"
	"healthportal/internal/handler"
	"healthportal/internal/middleware"
	"healthportal/internal/repository"
	"healthportal/internal/router"
	"healthportal/internal/seed"
	"healthportal/internal/service"
)

// App is the assembled HTTP server.
type App struct {
	Echo    *echo.Echo
	Seeder  *seed.Seeder
	limiter *middleware.IPRateLimiter
}

// New wires services and handlers over store and c.
func New(cfg *config.Config, store *repository.Store, c cache.Cache) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	hasher := auth.NewBcryptHasher(cfg.BcryptCost, cfg.HashWorkers)
	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	seeder := seed.New(store.Users, hasher)

	// Initialize services
	authService := service.NewAuthService(store.Users, hasher, tokens)
	userService := service.NewUserService(store.Users, c)
	appointmentService := service.NewAppointmentService(store.Appointments, store.Users)
	medicalRecordService := service.NewMedicalRecordService(store.MedicalRecords, store.Users)
	healthMetricsService := service.NewHealthMetricsService(store.HealthMetrics, store.Users)
	contactService := service.NewContactService(store.ContactMessages)
	feedbackService := service.NewFeedbackService(store.Feedback)
	analyticsService := service.NewAnalyticsService(store.Users, store.Appointments, c)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Appointment:   handler.NewAppointmentHandler(appointmentService),
		MedicalRecord: handler.NewMedicalRecordHandler(medicalRecordService),
		HealthMetrics: handler.NewHealthMetricsHandler(healthMetricsService),
		Contact:       handler.NewContactHandler(contactService),
		Feedback:      handler.NewFeedbackHandler(feedbackService),
		Analytics:     handler.NewAnalyticsHandler(analyticsService),
	}
	if cfg.DevFixtures {
		handlers.Fixture = handler.NewFixtureHandler(seeder)
	}

	limiter := router.Register(e, cfg, tokens, handlers)
	return &App{Echo: e, Seeder: seeder, limiter: limiter}
}

// Start serves on addr until Shutdown.
func (a *App) Start(addr string) error {
	return a.Echo.Start(addr)
}

// Shutdown drains in-flight requests and stops background workers.
func (a *App) Shutdown(ctx context.Context) error {
	a.limiter.Stop()
	return a.Echo.Shutdown(ctx)
}
