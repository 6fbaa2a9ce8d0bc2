package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet_shifts/internal/models"
)

type AssignmentRepository struct {
	db *gorm.DB
}

// AssignmentFilter narrows List. Zero values are ignored.
type AssignmentFilter struct {
	DriverID uint
	ShiftID  uint
	Status   string
}

func withShiftAndDriver(db *gorm.DB) *gorm.DB {
	return db.Preload("Shift").Preload("Shift.Route").Preload("Driver")
}

func activeOn(db *gorm.DB, day time.Time) *gorm.DB {
	return db.Where("status = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
		models.AssignmentActive, day, day)
}

func (r *AssignmentRepository) Create(ctx context.Context, a *models.ShiftAssignment) error {
	return r.db.WithContext(ctx).Omit("Shift", "Driver").Create(a).Error
}

func (r *AssignmentRepository) Save(ctx context.Context, a *models.ShiftAssignment) error {
	return r.db.WithContext(ctx).Omit("Shift", "Driver").Save(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*models.ShiftAssignment, error) {
	var a models.ShiftAssignment
	if err := withShiftAndDriver(r.db.WithContext(ctx)).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.ShiftAssignment, error) {
	q := withShiftAndDriver(r.db.WithContext(ctx))
	if filter.DriverID != 0 {
		q = q.Where("driver_id = ?", filter.DriverID)
	}
	if filter.ShiftID != 0 {
		q = q.Where("shift_id = ?", filter.ShiftID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var out []models.ShiftAssignment
	err := q.Order("start_date DESC").Order("id").Find(&out).Error
	return out, err
}

// ActiveForShiftsOn returns the assignments active on day for any of the
// given shifts, with their drivers loaded.
func (r *AssignmentRepository) ActiveForShiftsOn(ctx context.Context, shiftIDs []uint, day time.Time) ([]models.ShiftAssignment, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	var out []models.ShiftAssignment
	err := activeOn(r.db.WithContext(ctx), day).
		Preload("Driver").
		Where("shift_id IN ?", shiftIDs).
		Order("start_date").
		Find(&out).Error
	return out, err
}

// ActiveForDriverOn returns the driver's assignments active on day, with shifts loaded.
func (r *AssignmentRepository) ActiveForDriverOn(ctx context.Context, driverID uint, day time.Time) ([]models.ShiftAssignment, error) {
	var out []models.ShiftAssignment
	err := activeOn(withShiftAndDriver(r.db.WithContext(ctx)), day).
		Where("driver_id = ?", driverID).
		Find(&out).Error
	return out, err
}

// ActiveByShift lists every active assignment of a shift regardless of dates.
func (r *AssignmentRepository) ActiveByShift(ctx context.Context, shiftID uint) ([]models.ShiftAssignment, error) {
	var out []models.ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND status = ?", shiftID, models.AssignmentActive).
		Find(&out).Error
	return out, err
}

// ActiveByDriver lists every active assignment of a driver with its shift.
func (r *AssignmentRepository) ActiveByDriver(ctx context.Context, driverID uint) ([]models.ShiftAssignment, error) {
	var out []models.ShiftAssignment
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("driver_id = ? AND status = ?", driverID, models.AssignmentActive).
		Find(&out).Error
	return out, err
}

func (r *AssignmentRepository) CountActiveByShift(ctx context.Context, shiftID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShiftAssignment{}).
		Where("shift_id = ? AND status = ?", shiftID, models.AssignmentActive).
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) CountActiveByDriver(ctx context.Context, driverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShiftAssignment{}).
		Where("driver_id = ? AND status = ?", driverID, models.AssignmentActive).
		Count(&count).Error
	return count, err
}

// DeleteHistoryByShift removes the finished and cancelled assignments of a
// shift. Active assignments are never touched.
func (r *AssignmentRepository) DeleteHistoryByShift(ctx context.Context, shiftID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("shift_id = ? AND status <> ?", shiftID, models.AssignmentActive).
		Delete(&models.ShiftAssignment{}).Error
}

// DeleteHistoryByDriver is DeleteHistoryByShift keyed by driver.
func (r *AssignmentRepository) DeleteHistoryByDriver(ctx context.Context, driverID uint) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("driver_id = ? AND status <> ?", driverID, models.AssignmentActive).
		Delete(&models.ShiftAssignment{}).Error
}

// ExpireBefore marks active assignments that ended before day as finished.
func (r *AssignmentRepository) ExpireBefore(ctx context.Context, day time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.ShiftAssignment{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.AssignmentActive, day).
		Update("status", models.AssignmentFinished)
	return res.RowsAffected, res.Error
}
