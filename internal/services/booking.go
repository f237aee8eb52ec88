package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-app-server/internal/models"
)

// AppointmentStore is the record-store surface the booking coordinator
// needs. Implementations return ErrNotFound for absent records and
// ErrConflict when CreateIfSlotFree loses the slot.
type AppointmentStore interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// CreateIfSlotFree persists the appointment only if no other
	// appointment holds the same (doctor, date, slot) triple in any
	// status other than cancelled. The check and the insert are atomic.
	CreateIfSlotFree(ctx context.Context, appt *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	ListForDoctorDay(ctx context.Context, doctorID, date string) ([]models.Appointment, error)
	// ListForUser returns the user's appointments, excluding cancelled ones.
	ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Appointment, error)
}

// AvailabilityStore persists per-doctor, per-day slot offerings.
type AvailabilityStore interface {
	Get(ctx context.Context, doctorID, date string) (*models.Availability, error)
	Replace(ctx context.Context, entry *models.Availability) error
}

// UserStore resolves user profiles for denormalization and notification
// addressing.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// BookingService is the booking coordinator: it computes free slots,
// validates and creates appointments, and drives the status lifecycle.
type BookingService struct {
	appts      AppointmentStore
	avail      AvailabilityStore
	users      UserStore
	dispatcher *Dispatcher
	// strictOwnership requires the acting doctor to be the appointment's
	// assigned doctor for status updates.
	strictOwnership bool
	log             zerolog.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(appts AppointmentStore, avail AvailabilityStore, users UserStore, dispatcher *Dispatcher, strictOwnership bool, log zerolog.Logger) *BookingService {
	return &BookingService{
		appts:           appts,
		avail:           avail,
		users:           users,
		dispatcher:      dispatcher,
		strictOwnership: strictOwnership,
		log:             log,
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func validateSlot(slot string) error {
	if _, err := time.Parse("15:04", slot); err != nil {
		return fmt.Errorf("%w: time slot must be HH:MM", ErrValidation)
	}
	return nil
}

// AvailableSlots returns the doctor's bookable slot labels for a day: the
// availability entry (or the default template when none exists) minus slots
// held by pending or confirmed appointments, in template order. Slots held
// only by rejected, completed or cancelled appointments stay bookable.
func (s *BookingService) AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	template := models.DefaultSlotTemplate()
	entry, err := s.avail.Get(ctx, doctorID, date)
	if err == nil {
		template = entry.TimeSlots
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	appts, err := s.appts.ListForDoctorDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	booked := make(map[string]bool, len(appts))
	for _, a := range appts {
		if a.Status.IsSlotHolding() {
			booked[a.TimeSlot] = true
		}
	}

	free := make([]string, 0, len(template))
	for _, slot := range template {
		if !booked[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// SetAvailability replaces the doctor's availability entry for a day
// wholesale. Last write wins; no merge, no history.
func (s *BookingService) SetAvailability(ctx context.Context, doctorID, date string, slots []string, isAvailable bool) error {
	if err := validateDate(date); err != nil {
		return err
	}
	for _, slot := range slots {
		if err := validateSlot(slot); err != nil {
			return err
		}
	}
	return s.avail.Replace(ctx, &models.Availability{
		DoctorID:    doctorID,
		Date:        date,
		TimeSlots:   slots,
		IsAvailable: isAvailable,
	})
}

// Create books the slot for the patient. The doctor's display name and
// specialization and the patient's name are denormalized onto the record at
// creation time; a missing doctor profile yields placeholder values rather
// than a failure. On success a best-effort notification goes to the doctor.
func (s *BookingService) Create(ctx context.Context, patientID, doctorID, date, slot, reason string) (*models.Appointment, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("resolve patient profile: %w", err)
	}

	doctorName := "Dr. N/A"
	doctorSpec := "General"
	doctor, err := s.users.GetByID(ctx, doctorID)
	if err == nil {
		doctorName = "Dr. " + doctor.FullName()
		if doctor.Specialization != "" {
			doctorSpec = doctor.Specialization
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	appt := &models.Appointment{
		PatientID:            patientID,
		PatientName:          patient.FullName(),
		DoctorID:             doctorID,
		DoctorName:           doctorName,
		DoctorSpecialization: doctorSpec,
		Date:                 date,
		TimeSlot:             slot,
		Status:               models.StatusPending,
		Reason:               reason,
	}
	if err := s.appts.CreateIfSlotFree(ctx, appt); err != nil {
		return nil, err
	}

	if doctor != nil {
		body := fmt.Sprintf("New appointment request from %s on %s at %s. Reason: %s. Contact: %s",
			appt.PatientName, date, slot, reason, patient.PhoneNumber)
		s.dispatcher.Dispatch("New appointment request", body, doctor.Email)
	}
	return appt, nil
}

// ListMine returns the caller's appointments, filtered by patient or doctor
// identity depending on role. Cancelled appointments are excluded.
func (s *BookingService) ListMine(ctx context.Context, userID string, role models.Role) ([]models.Appointment, error) {
	return s.appts.ListForUser(ctx, userID, role)
}

// Cancel sets the appointment status to cancelled. Only the owning patient
// or the owning doctor may cancel. The record is never removed; a cancelled
// appointment simply stops counting toward slot conflicts.
func (s *BookingService) Cancel(ctx context.Context, appointmentID, callerID string, callerRole models.Role) error {
	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	isPatientOwner := callerRole == models.RolePatient && appt.PatientID == callerID
	isDoctorOwner := callerRole == models.RoleDoctor && appt.DoctorID == callerID
	if !isPatientOwner && !isDoctorOwner {
		return fmt.Errorf("%w: not a party to this appointment", ErrForbidden)
	}

	if appt.Status == models.StatusCancelled {
		return nil
	}
	return s.appts.UpdateStatus(ctx, appointmentID, models.StatusCancelled)
}

// UpdateStatus applies a doctor-driven status transition. The raw value is
// validated against the closed status enum and the transition table; when
// strict ownership is enabled the acting doctor must be the assigned
// doctor. A transition to confirmed dispatches a best-effort confirmation
// to the patient.
func (s *BookingService) UpdateStatus(ctx context.Context, appointmentID, doctorID, rawStatus string) (*models.Appointment, error) {
	if rawStatus == "" {
		return nil, fmt.Errorf("%w: status value is required", ErrValidation)
	}
	next, err := models.ParseAppointmentStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if s.strictOwnership && appt.DoctorID != doctorID {
		return nil, fmt.Errorf("%w: appointment is assigned to another doctor", ErrForbidden)
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrValidation, appt.Status, next)
	}

	if err := s.appts.UpdateStatus(ctx, appointmentID, next); err != nil {
		return nil, err
	}
	appt.Status = next

	if next == models.StatusConfirmed {
		patient, err := s.users.GetByID(ctx, appt.PatientID)
		if err != nil {
			s.log.Warn().Err(err).Str("patient_id", appt.PatientID).Msg("confirmation notification skipped")
		} else {
			body := fmt.Sprintf("Your appointment with %s (%s) on %s at %s is confirmed.",
				appt.DoctorName, appt.DoctorSpecialization, appt.Date, appt.TimeSlot)
			s.dispatcher.Dispatch("Appointment confirmed", body, patient.Email)
		}
	}
	return appt, nil
}
