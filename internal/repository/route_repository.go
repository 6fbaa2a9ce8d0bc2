package repository

import (
	"context"

	"gorm.io/gorm"

	"fleet_shifts/internal/models"
)

type RouteRepository struct {
	db *gorm.DB
}

func orderedStages(db *gorm.DB) *gorm.DB {
	return db.Order("seq")
}

// Create inserts the route together with any stages it carries.
func (r *RouteRepository) Create(ctx context.Context, route *models.Route) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *RouteRepository) Save(ctx context.Context, route *models.Route) error {
	return r.db.WithContext(ctx).Omit("Stages").Save(route).Error
}

func (r *RouteRepository) FindByID(ctx context.Context, id uint) (*models.Route, error) {
	var route models.Route
	if err := r.db.WithContext(ctx).Preload("Stages", orderedStages).First(&route, id).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := r.db.WithContext(ctx).Preload("Stages", orderedStages).Order("name").Find(&routes).Error
	return routes, err
}

// FindByIDs returns the routes keyed by ID, without stages.
func (r *RouteRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Route, error) {
	out := make(map[uint]models.Route, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var routes []models.Route
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, rt := range routes {
		out[rt.ID] = rt
	}
	return out, nil
}

// ReplaceStages drops the route's stages and inserts the given ones.
func (r *RouteRepository) ReplaceStages(ctx context.Context, routeID uint, stages []models.Stage) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("route_id = ?", routeID).Delete(&models.Stage{}).Error; err != nil {
		return err
	}
	if len(stages) == 0 {
		return nil
	}
	for i := range stages {
		stages[i].ID = 0
		stages[i].RouteID = routeID
	}
	return db.Create(&stages).Error
}

// Delete removes the route and its stages.
func (r *RouteRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("route_id = ?", id).Delete(&models.Stage{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Delete(&models.Route{}, id).Error
}

// NameTaken reports whether another route already uses name.
func (r *RouteRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Route{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
