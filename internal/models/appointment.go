package models

import (
	"fmt"
	"strings"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ParseAppointmentStatus converts caller-supplied input into a known status
// value. Unknown values are rejected rather than written through.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// CanTransitionTo reports whether a doctor-driven status update from s to
// next is allowed. Cancellation has its own endpoint and is not part of
// this table.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// IsSlotHolding reports whether an appointment in this status keeps its
// (doctor, date, slot) triple occupied. Only pending and confirmed
// appointments block the slot; rejected, completed and cancelled ones leave
// it bookable again.
func (s AppointmentStatus) IsSlotHolding() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment represents a scheduled medical appointment. Doctor and patient
// display fields are snapshots taken at booking time and are intentionally
// not kept in sync with later profile edits.
type Appointment struct {
	BaseModel
	PatientID            string            `gorm:"size:36;index" json:"patientId"`
	PatientName          string            `gorm:"size:200" json:"patientName"`
	DoctorID             string            `gorm:"size:36;index:idx_doctor_day,priority:1" json:"doctorId"`
	DoctorName           string            `gorm:"size:200" json:"doctorName"`
	DoctorSpecialization string            `gorm:"size:100" json:"doctorSpecialization"`
	Date                 string            `gorm:"size:10;index:idx_doctor_day,priority:2" json:"date"`
	TimeSlot             string            `gorm:"size:5" json:"timeSlot"`
	Status               AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	Reason               string            `gorm:"size:255" json:"reason"`
}
