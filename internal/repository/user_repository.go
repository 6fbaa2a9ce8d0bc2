package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet_shifts/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Driver").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier looks a user up by email or national ID.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Driver").
		Where("email = ? OR national_id = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether any user already holds the email or national ID.
func (r *UserRepository) Exists(ctx context.Context, email, nationalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR national_id = ?", email, nationalID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Preload("Driver").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.User{}, id).Error
}
