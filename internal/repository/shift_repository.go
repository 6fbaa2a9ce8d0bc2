package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet_shifts/internal/models"
)

type ShiftRepository struct {
	db *gorm.DB
}

// ShiftFilter narrows List. Nil fields are ignored.
type ShiftFilter struct {
	RouteID    *uint
	WeekNumber *int
}

func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Omit("Route").Create(shift).Error
}

// CreateBatch inserts all shifts in one statement.
func (r *ShiftRepository) CreateBatch(ctx context.Context, shifts []models.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Route").Create(&shifts).Error
}

func (r *ShiftRepository) Save(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Omit("Route").Save(shift).Error
}

func (r *ShiftRepository) FindByID(ctx context.Context, id uint) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).Preload("Route").First(&shift, id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *ShiftRepository) List(ctx context.Context, filter ShiftFilter) ([]models.Shift, error) {
	q := r.db.WithContext(ctx).Preload("Route")
	if filter.RouteID != nil {
		q = q.Where("route_id = ?", *filter.RouteID)
	}
	if filter.WeekNumber != nil {
		q = q.Where("week_number = ?", *filter.WeekNumber)
	}
	var shifts []models.Shift
	err := q.Order("week_number").Order("start_time").Order("id").Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) Count(ctx context.Context, filter ShiftFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Shift{})
	if filter.RouteID != nil {
		q = q.Where("route_id = ?", *filter.RouteID)
	}
	if filter.WeekNumber != nil {
		q = q.Where("week_number = ?", *filter.WeekNumber)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *ShiftRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Shift{}, id).Error
}
