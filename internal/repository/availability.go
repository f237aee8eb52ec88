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

// AvailabilityRepo implements services.AvailabilityStore on MySQL.
type AvailabilityRepo struct {
	db *gorm.DB
}

var _ services.AvailabilityStore = (*AvailabilityRepo)(nil)

// NewAvailabilityRepo creates an AvailabilityRepo.
func NewAvailabilityRepo(db *gorm.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) Get(ctx context.Context, doctorID, date string) (*models.Availability, error) {
	var entry models.Availability
	err := r.db.WithContext(ctx).
		First(&entry, "doctor_id = ? AND date = ?", doctorID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("availability for %s on %s: %w", doctorID, date, services.ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// Replace overwrites the entry for (doctor, date) wholesale. A concurrent
// submission for the same day resolves last-write-wins through the unique
// index on (doctor_id, date).
func (r *AvailabilityRepo) Replace(ctx context.Context, entry *models.Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Availability
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "doctor_id = ? AND date = ?", entry.DoctorID, entry.Date).Error
		switch {
		case err == nil:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first entry for this day
		default:
			return err
		}
		return tx.Save(entry).Error
	})
}
