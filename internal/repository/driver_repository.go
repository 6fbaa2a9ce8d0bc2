package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet_shifts/internal/models"
)

type DriverRepository struct {
	db *gorm.DB
}

func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Create(driver).Error
}

func (r *DriverRepository) Save(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Omit("User").Save(driver).Error
}

func (r *DriverRepository) FindByID(ctx context.Context, id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.WithContext(ctx).Preload("User").First(&driver, id).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) FindByUserID(ctx context.Context, userID uint) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepository) ExistsNationalID(ctx context.Context, nationalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Driver{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error
	return count > 0, err
}

func (r *DriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.WithContext(ctx).Preload("User").Order("full_name").Find(&drivers).Error
	return drivers, err
}

// FindByIDs returns the drivers keyed by ID.
func (r *DriverRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Driver, error) {
	out := make(map[uint]models.Driver, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var drivers []models.Driver
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&drivers).Error; err != nil {
		return nil, err
	}
	for _, d := range drivers {
		out[d.ID] = d
	}
	return out, nil
}

func (r *DriverRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Driver{}, id).Error
}
