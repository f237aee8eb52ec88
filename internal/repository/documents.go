package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
)

// DocumentRepo implements services.DocumentStore on MySQL.
type DocumentRepo struct {
	db *gorm.DB
}

var _ services.DocumentStore = (*DocumentRepo)(nil)

// NewDocumentRepo creates a DocumentRepo.
func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, services.ErrNotFound)
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) GetByAppointment(ctx context.Context, appointmentID string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).First(&doc, "appointment_id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document for appointment %s: %w", appointmentID, services.ErrNotFound)
		}
		return nil, err
	}
	return &doc, nil
}

// Save writes the full record. The unique index on appointment_id turns a
// concurrent first-upload race into a duplicate-key error, reported as a
// conflict instead of a second document.
func (r *DocumentRepo) Save(ctx context.Context, doc *models.Document) error {
	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("appointment %s already has a document: %w", doc.AppointmentID, services.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *DocumentRepo) UpdateNotes(ctx context.Context, id, notes string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("document %s: %w", id, services.ErrNotFound)
	}
	return nil
}

func (r *DocumentRepo) ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Document, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if role == models.RoleDoctor {
		query = query.Where("doctor_id = ?", userID)
	} else {
		query = query.Where("patient_id = ?", userID)
	}

	var docs []models.Document
	err := query.Find(&docs).Error
	return docs, err
}
