package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
)

// UserRepo implements services.UserStore on MySQL.
type UserRepo struct {
	db *gorm.DB
}

var _ services.UserStore = (*UserRepo)(nil)

// NewUserRepo creates a UserRepo.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, services.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// ListDoctors returns all doctor profiles, optionally filtered by
// specialization.
func (r *UserRepo) ListDoctors(ctx context.Context, specialization string) ([]models.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", models.RoleDoctor)
	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	var doctors []models.User
	err := query.Order("last_name asc").Find(&doctors).Error
	return doctors, err
}
