package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthportal/internal/auth"
	"healthportal/internal/cache"
	"healthportal/internal/model"
)

func TestAnalyticsService_DashboardStats(t *testing.T) {
	store := newStore()
	svc := NewAnalyticsService(store.Users, store.Appointments, nil).(*analyticsService)
	svc.now = func() time.Time { return time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	patient := newUser(t, store, "p@x.com", model.RolePatient)
	other := newUser(t, store, "q@x.com", model.RolePatient)
	doctor := newUser(t, store, "d@x.com", model.RoleDoctor)
	nurse := newUser(t, store, "n@x.com", model.RoleNurse)

	book := func(patientID uuid.UUID, date, slot string, status model.AppointmentStatus) {
		require.NoError(t, store.Appointments.Create(ctx, &model.Appointment{
			PatientID: patientID, DoctorID: doctor.UserID, AppointmentDate: date, TimeSlot: slot, Status: status,
		}))
	}
	book(patient.UserID, "2030-03-01", "09:00", model.AppointmentStatusScheduled)
	book(patient.UserID, "2030-03-05", "10:00", model.AppointmentStatusScheduled)
	book(patient.UserID, "2030-03-07", "10:00", model.AppointmentStatusRescheduled)
	book(patient.UserID, "2030-02-01", "10:00", model.AppointmentStatusCompleted)
	book(other.UserID, "2030-03-02", "11:00", model.AppointmentStatusCancelled)

	t.Run("patient sees own counts", func(t *testing.T) {
		stats, err := svc.DashboardStats(ctx, patient)
		require.NoError(t, err)
		assert.Equal(t, "own", stats.Scope)
		require.NotNil(t, stats.Own)
		assert.Equal(t, OwnStats{
			TotalAppointments:     4,
			TodayAppointments:     1,
			UpcomingAppointments:  3,
			CompletedAppointments: 1,
		}, *stats.Own)
	})

	t.Run("doctor sees own counts", func(t *testing.T) {
		stats, err := svc.DashboardStats(ctx, doctor)
		require.NoError(t, err)
		require.NotNil(t, stats.Own)
		assert.EqualValues(t, 5, stats.Own.TotalAppointments)
		assert.EqualValues(t, 1, stats.Own.CancelledAppointments)
	})

	t.Run("nurse sees global counts", func(t *testing.T) {
		stats, err := svc.DashboardStats(ctx, nurse)
		require.NoError(t, err)
		assert.Equal(t, "global", stats.Scope)
		require.NotNil(t, stats.Global)
		assert.Equal(t, GlobalStats{
			TotalUsers:        4,
			TotalPatients:     2,
			TotalDoctors:      1,
			TotalAppointments: 5,
			TodayAppointments: 1,
			ActiveUsers:       4,
		}, *stats.Global)
	})
}

func TestAnalyticsService_GlobalIsCached(t *testing.T) {
	users := new(MockUserRepository)
	appointments := new(MockAppointmentRepository)
	c := cache.NewMemory()
	defer c.Close()
	svc := NewAnalyticsService(users, appointments, c)

	users.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil).Times(4)
	appointments.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Times(2)

	admin := auth.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	for i := 0; i < 3; i++ {
		stats, err := svc.DashboardStats(context.Background(), admin)
		require.NoError(t, err)
		assert.EqualValues(t, 2, stats.Global.TotalUsers)
		assert.EqualValues(t, 1, stats.Global.TodayAppointments)
	}
	users.AssertExpectations(t)
	appointments.AssertExpectations(t)
}

func TestDashboardStats_MarshalJSON(t *testing.T) {
	own, err := json.Marshal(DashboardStats{Scope: "own", Own: &OwnStats{TotalAppointments: 3, UpcomingAppointments: 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scope":"own","totalAppointments":3,"todayAppointments":0,"upcomingAppointments":1,"completedAppointments":0,"cancelledAppointments":0}`, string(own))

	global, err := json.Marshal(&DashboardStats{Scope: "global", Global: &GlobalStats{TotalUsers: 7}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scope":"global","totalUsers":7,"totalPatients":0,"totalDoctors":0,"totalAppointments":0,"todayAppointments":0,"activeUsers":0}`, string(global))
}
