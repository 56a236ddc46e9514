package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"healthportal/internal/auth"
	"healthportal/internal/cache"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

const statsCacheTTL = 30 * time.Second

// GlobalStats are the portal-wide counts shown to nurses and admins.
type GlobalStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalPatients     int64 `json:"totalPatients"`
	TotalDoctors      int64 `json:"totalDoctors"`
	TotalAppointments int64 `json:"totalAppointments"`
	TodayAppointments int64 `json:"todayAppointments"`
	ActiveUsers       int64 `json:"activeUsers"`
}

// OwnStats are counts over the requester's own appointments.
type OwnStats struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	TodayAppointments     int64 `json:"todayAppointments"`
	UpcomingAppointments  int64 `json:"upcomingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

// DashboardStats is either global or own, never both. It encodes as a flat
// object with a scope field next to the counts.
type DashboardStats struct {
	Scope  string
	Global *GlobalStats
	Own    *OwnStats
}

func (d DashboardStats) MarshalJSON() ([]byte, error) {
	if d.Own != nil {
		return json.Marshal(struct {
			Scope string `json:"scope"`
			*OwnStats
		}{d.Scope, d.Own})
	}
	return json.Marshal(struct {
		Scope string `json:"scope"`
		*GlobalStats
	}{d.Scope, d.Global})
}

// AnalyticsService computes dashboard counts.
type AnalyticsService interface {
	DashboardStats(ctx context.Context, p auth.Principal) (*DashboardStats, error)
}

type analyticsService struct {
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	cache        cache.Cache
	now          func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(users repository.UserRepository, appointments repository.AppointmentRepository, c cache.Cache) AnalyticsService {
	if c == nil {
		c = cache.Disabled()
	}
	return &analyticsService{
		users:        users,
		appointments: appointments,
		cache:        c,
		now:          time.Now,
	}
}

// DashboardStats returns global counts for nurses and admins and counts over
// their own appointments for patients and doctors.
func (s *analyticsService) DashboardStats(ctx context.Context, p auth.Principal) (*DashboardStats, error) {
	scope, err := policy.Resolve(p, policy.Analytics, policy.Read, nil)
	if err != nil {
		return nil, err
	}
	if scope.All {
		global, err := s.global(ctx)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{Scope: "global", Global: global}, nil
	}

	own, err := s.own(ctx, scope.PatientFilter(), scope.DoctorFilter())
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Scope: "own", Own: own}, nil
}

func (s *analyticsService) global(ctx context.Context) (*GlobalStats, error) {
	day := today(s.now())
	key := "analytics:global:" + day

	var stats GlobalStats
	if cache.GetJSON(ctx, s.cache, "analytics", key, &stats) {
		return &stats, nil
	}

	patient, doctor := model.RolePatient, model.RoleDoctor
	active := true

	g, gctx := errgroup.WithContext(ctx)
	countUsers := func(dst *int64, f repository.UserFilter) {
		g.Go(func() error {
			n, err := s.users.Count(gctx, f)
			*dst = n
			return err
		})
	}
	countAppointments := func(dst *int64, f repository.AppointmentFilter) {
		g.Go(func() error {
			n, err := s.appointments.Count(gctx, f)
			*dst = n
			return err
		})
	}

	countUsers(&stats.TotalUsers, repository.UserFilter{})
	countUsers(&stats.TotalPatients, repository.UserFilter{Role: &patient})
	countUsers(&stats.TotalDoctors, repository.UserFilter{Role: &doctor})
	countUsers(&stats.ActiveUsers, repository.UserFilter{Active: &active})
	countAppointments(&stats.TotalAppointments, repository.AppointmentFilter{})
	countAppointments(&stats.TodayAppointments, repository.AppointmentFilter{Date: &day})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, s.cache, key, stats, statsCacheTTL)
	return &stats, nil
}

func (s *analyticsService) own(ctx context.Context, patientID, doctorID *uuid.UUID) (*OwnStats, error) {
	day := today(s.now())
	active := []model.AppointmentStatus{model.AppointmentStatusScheduled, model.AppointmentStatusRescheduled}
	completed := model.AppointmentStatusCompleted
	cancelled := model.AppointmentStatusCancelled

	base := repository.AppointmentFilter{PatientID: patientID, DoctorID: doctorID}
	with := func(mod func(*repository.AppointmentFilter)) repository.AppointmentFilter {
		f := base
		mod(&f)
		return f
	}

	var stats OwnStats
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, f repository.AppointmentFilter) {
		g.Go(func() error {
			n, err := s.appointments.Count(gctx, f)
			*dst = n
			return err
		})
	}

	count(&stats.TotalAppointments, base)
	count(&stats.TodayAppointments, with(func(f *repository.AppointmentFilter) { f.Date = &day }))
	count(&stats.UpcomingAppointments, with(func(f *repository.AppointmentFilter) { f.FromDate = &day; f.Statuses = active }))
	count(&stats.CompletedAppointments, with(func(f *repository.AppointmentFilter) { f.Status = &completed }))
	count(&stats.CancelledAppointments, with(func(f *repository.AppointmentFilter) { f.Status = &cancelled }))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
