package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
)

// AppointmentRepo implements services.AppointmentStore on MySQL.
type AppointmentRepo struct {
	db *gorm.DB
}

var _ services.AppointmentStore = (*AppointmentRepo)(nil)

// NewAppointmentRepo creates an AppointmentRepo.
func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", id, services.ErrNotFound)
		}
		return nil, err
	}
	return &appt, nil
}

// CreateIfSlotFree runs in a transaction and locks any appointment holding
// the requested (doctor, date, slot) triple before inserting, so two
// concurrent bookings cannot both pass the conflict check. Only cancelled
// appointments free the slot for rebooking.
func (r *AppointmentRepo) CreateIfSlotFree(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Appointment
		err := tx.Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ? AND date = ? AND time_slot = ? AND status <> ?",
				appt.DoctorID, appt.Date, appt.TimeSlot, models.StatusCancelled).
			Take(&existing).Error

		if err == nil {
			return fmt.Errorf("slot %s on %s is already booked: %w", appt.TimeSlot, appt.Date, services.ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(appt).Error
	})
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment %s: %w", id, services.ErrNotFound)
	}
	return nil
}

func (r *AppointmentRepo) ListForDoctorDay(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("time_slot asc").
		Find(&appts).Error
	return appts, err
}

func (r *AppointmentRepo) ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).
		Where("status <> ?", models.StatusCancelled).
		Order("date asc, time_slot asc")
	if role == models.RoleDoctor {
		query = query.Where("doctor_id = ?", userID)
	} else {
		query = query.Where("patient_id = ?", userID)
	}

	var appts []models.Appointment
	err := query.Find(&appts).Error
	return appts, err
}
