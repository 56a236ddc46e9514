package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"healthportal/internal/auth"
	apperrors "healthportal/internal/errors"
	"healthportal/internal/model"
	"healthportal/internal/policy"
	"healthportal/internal/repository"
)

// SlotGrid is the bookable day: mornings 09:00-11:30 and afternoons 14:00-16:30.
var SlotGrid = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

func inGrid(slot string) bool {
	for _, s := range SlotGrid {
		if s == slot {
			return true
		}
	}
	return false
}

// AppointmentQuery holds optional client filters for listing.
type AppointmentQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Date      *string
}

// CreateAppointmentInput is a booking request.
type CreateAppointmentInput struct {
	PatientID         uuid.UUID
	DoctorID          uuid.UUID
	AppointmentDate   string
	TimeSlot          string
	Reason            string
	Notes             string
	InsuranceProvider string
}

// UpdateAppointmentInput is a partial appointment change. Nil fields are left untouched.
type UpdateAppointmentInput struct {
	Status            *model.AppointmentStatus
	AppointmentDate   *string
	TimeSlot          *string
	Reason            *string
	Notes             *string
	InsuranceProvider *string
}

// AppointmentService is the role-scoped facade over appointments.
type AppointmentService interface {
	ListForRequester(ctx context.Context, p auth.Principal, q AppointmentQuery) ([]model.Appointment, error)
	Create(ctx context.Context, p auth.Principal, in CreateAppointmentInput) (*model.Appointment, error)
	Update(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateAppointmentInput) (*model.Appointment, error)
	AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}

type appointmentService struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	// Per doctor and day locking for slot booking
	slotMutexes sync.Map
}

// NewAppointmentService creates a new appointment service.
func NewAppointmentService(appointments repository.AppointmentRepository, users repository.UserRepository) AppointmentService {
	return &appointmentService{
		appointments: appointments,
		users:        users,
	}
}

// getMutex returns the mutex guarding one doctor's slots on one day.
func (s *appointmentService) getMutex(doctorID uuid.UUID, date string) *sync.Mutex {
	key := doctorID.String() + "|" + date
	value, _ := s.slotMutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// ListForRequester returns the appointments the requester may see.
// Patients see their own, doctors those they attend, nurses and admins all of
// them narrowed by the optional filters.
func (s *appointmentService) ListForRequester(ctx context.Context, p auth.Principal, q AppointmentQuery) ([]model.Appointment, error) {
	scope, err := policy.Resolve(p, policy.Appointments, policy.Read, q.PatientID)
	if err != nil {
		return nil, err
	}
	if q.Date != nil && !validDate(*q.Date) {
		return nil, apperrors.NewValidationError("date must be formatted YYYY-MM-DD")
	}

	filter := repository.AppointmentFilter{
		PatientID: scope.PatientFilter(),
		DoctorID:  scope.DoctorFilter(),
		Date:      q.Date,
	}
	if scope.All && q.DoctorID != nil {
		filter.DoctorID = q.DoctorID
	}
	return s.appointments.List(ctx, filter)
}

// Create books a slot. A patient always books for themself.
func (s *appointmentService) Create(ctx context.Context, p auth.Principal, in CreateAppointmentInput) (*model.Appointment, error) {
	scope, err := policy.Resolve(p, policy.Appointments, policy.Create, nil)
	if err != nil {
		return nil, err
	}
	if pid := scope.PatientFilter(); pid != nil {
		in.PatientID = *pid
	}

	if err := s.validateBooking(ctx, in); err != nil {
		return nil, err
	}

	mu := s.getMutex(in.DoctorID, in.AppointmentDate)
	mu.Lock()
	defer mu.Unlock()

	if err := s.ensureSlotFree(ctx, in.DoctorID, in.AppointmentDate, in.TimeSlot, uuid.Nil); err != nil {
		return nil, err
	}

	appt := &model.Appointment{
		PatientID:         in.PatientID,
		DoctorID:          in.DoctorID,
		AppointmentDate:   in.AppointmentDate,
		TimeSlot:          in.TimeSlot,
		Status:            model.AppointmentStatusScheduled,
		Reason:            in.Reason,
		Notes:             in.Notes,
		InsuranceProvider: in.InsuranceProvider,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return appt, nil
}

// Update changes status, notes or the booked slot of an appointment the
// requester owns. Moving the slot marks the appointment rescheduled unless a
// status is given.
func (s *appointmentService) Update(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateAppointmentInput) (*model.Appointment, error) {
	scope, err := policy.Resolve(p, policy.Appointments, policy.Update, nil)
	if err != nil {
		return nil, err
	}

	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(appt.PatientID, appt.DoctorID, uuid.Nil) {
		return nil, apperrors.ErrForbidden
	}

	next := appt.Status
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperrors.NewValidationError("status must be one of scheduled, completed, cancelled, rescheduled")
		}
		if !appt.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidStatusTransition, appt.Status, *in.Status)
		}
		next = *in.Status
	}

	date, slot := appt.AppointmentDate, appt.TimeSlot
	if in.AppointmentDate != nil {
		date = *in.AppointmentDate
	}
	if in.TimeSlot != nil {
		slot = *in.TimeSlot
	}
	moved := date != appt.AppointmentDate || slot != appt.TimeSlot

	if moved {
		if !appt.Status.Active() {
			return nil, fmt.Errorf("%w: %s appointments cannot be moved", apperrors.ErrInvalidStatusTransition, appt.Status)
		}
		if in.Status == nil {
			next = model.AppointmentStatusRescheduled
			if !appt.Status.CanTransitionTo(next) {
				return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidStatusTransition, appt.Status, next)
			}
		}
		if !next.Active() {
			return nil, apperrors.NewValidationError("a %s appointment cannot be moved to a new slot", next)
		}
		if !validDate(date) {
			return nil, apperrors.NewValidationError("appointmentDate must be formatted YYYY-MM-DD")
		}
		if !inGrid(slot) {
			return nil, apperrors.NewValidationError("timeSlot %q is not a bookable slot", slot)
		}

		mu := s.getMutex(appt.DoctorID, date)
		mu.Lock()
		defer mu.Unlock()

		if err := s.ensureSlotFree(ctx, appt.DoctorID, date, slot, appt.ID); err != nil {
			return nil, err
		}
	}

	appt.Status = next
	appt.AppointmentDate = date
	appt.TimeSlot = slot
	if in.Reason != nil {
		appt.Reason = *in.Reason
	}
	if in.Notes != nil {
		appt.Notes = *in.Notes
	}
	if in.InsuranceProvider != nil {
		appt.InsuranceProvider = *in.InsuranceProvider
	}

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return appt, nil
}

// AvailableSlots returns the grid minus the slots the doctor already holds on date.
func (s *appointmentService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if doctorID == uuid.Nil {
		return nil, apperrors.NewValidationError("doctorId is required")
	}
	if !validDate(date) {
		return nil, apperrors.NewValidationError("date must be formatted YYYY-MM-DD")
	}

	taken, err := s.takenSlots(ctx, doctorID, date, uuid.Nil)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, len(SlotGrid))
	for _, slot := range SlotGrid {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (s *appointmentService) validateBooking(ctx context.Context, in CreateAppointmentInput) error {
	if in.PatientID == uuid.Nil {
		return apperrors.NewValidationError("patientId is required")
	}
	if in.DoctorID == uuid.Nil {
		return apperrors.NewValidationError("doctorId is required")
	}
	if !validDate(in.AppointmentDate) {
		return apperrors.NewValidationError("appointmentDate must be formatted YYYY-MM-DD")
	}
	if !inGrid(in.TimeSlot) {
		return apperrors.NewValidationError("timeSlot %q is not a bookable slot", in.TimeSlot)
	}
	if err := expectRole(ctx, s.users, in.DoctorID, model.RoleDoctor, "doctorId"); err != nil {
		return err
	}
	return expectRole(ctx, s.users, in.PatientID, model.RolePatient, "patientId")
}

// ensureSlotFree must be called with the doctor's day mutex held.
func (s *appointmentService) ensureSlotFree(ctx context.Context, doctorID uuid.UUID, date, slot string, except uuid.UUID) error {
	taken, err := s.takenSlots(ctx, doctorID, date, except)
	if err != nil {
		return err
	}
	if taken[slot] {
		return apperrors.ErrSlotUnavailable
	}
	return nil
}

func (s *appointmentService) takenSlots(ctx context.Context, doctorID uuid.UUID, date string, except uuid.UUID) (map[string]bool, error) {
	appts, err := s.appointments.List(ctx, repository.AppointmentFilter{DoctorID: &doctorID, Date: &date})
	if err != nil {
		return nil, fmt.Errorf("list doctor appointments: %w", err)
	}
	taken := make(map[string]bool, len(appts))
	for _, a := range appts {
		if a.ID != except && a.HoldsSlot() {
			taken[a.TimeSlot] = true
		}
	}
	return taken, nil
}
