package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	logrus "github.com/sirupsen/logrus"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
)

type RouteService struct {
	store *repository.Store
}

func NewRouteService(store *repository.Store) *RouteService {
	return &RouteService{store: store}
}

type StageInput struct {
	Name string  `json:"name" binding:"required"`
	Seq  int     `json:"seq" binding:"required,min=1"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type CreateRouteInput struct {
	Name        string       `json:"name" binding:"required"`
	Origin      string       `json:"origin"`
	Destination string       `json:"destination"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Geometry    string       `json:"geometry"` // GeoJSON LineString
	Stages      []StageInput `json:"stages" binding:"dive"`
}

type UpdateRouteInput struct {
	Name        *string `json:"name"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Geometry    *string `json:"geometry"`
}

func (s *RouteService) List(ctx context.Context) ([]models.Route, error) {
	routes, err := s.store.Routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

func (s *RouteService) Get(ctx context.Context, id uint) (*models.Route, error) {
	route, err := s.store.Routes.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "route", id)
	}
	return route, nil
}

func (s *RouteService) Create(ctx context.Context, input CreateRouteInput) (*models.Route, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("route name is required")
	}
	status, err := normalizeRouteStatus(input.Status)
	if err != nil {
		return nil, err
	}
	wkbGeom, err := parseRouteGeometry(input.Geometry)
	if err != nil {
		return nil, err
	}
	stages, err := buildStages(input.Stages)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	route := &models.Route{
		Name:        name,
		Origin:      strings.TrimSpace(input.Origin),
		Destination: strings.TrimSpace(input.Destination),
		Description: input.Description,
		Status:      status,
		Geometry:    wkbGeom,
		Stages:      stages,
	}
	if err := s.store.Routes.Create(ctx, route); err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("a route named %q already exists", name)
		}
		return nil, fmt.Errorf("create route failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{"route_id": route.ID, "stages": len(stages)}).Info("route created")
	return s.Get(ctx, route.ID)
}

func (s *RouteService) Update(ctx context.Context, id uint, input UpdateRouteInput) (*models.Route, error) {
	route, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("route name cannot be empty")
		}
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
		route.Name = name
	}
	if input.Origin != nil {
		route.Origin = strings.TrimSpace(*input.Origin)
	}
	if input.Destination != nil {
		route.Destination = strings.TrimSpace(*input.Destination)
	}
	if input.Description != nil {
		route.Description = *input.Description
	}
	if input.Status != nil {
		status, err := normalizeRouteStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		route.Status = status
	}
	if input.Geometry != nil {
		wkbGeom, err := parseRouteGeometry(*input.Geometry)
		if err != nil {
			return nil, err
		}
		route.Geometry = wkbGeom
	}

	if err := s.store.Routes.Save(ctx, route); err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("a route named %q already exists", route.Name)
		}
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return route, nil
}

// ReplaceStages swaps the whole stage list of a route.
func (s *RouteService) ReplaceStages(ctx context.Context, id uint, input []StageInput) (*models.Route, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stages, err := buildStages(input)
	if err != nil {
		return nil, err
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Routes.ReplaceStages(ctx, id, stages)
	})
	if err != nil {
		return nil, fmt.Errorf("replace stages: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a route and its stages. Routes that still have shifts
// planned cannot be deleted.
func (s *RouteService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		shifts, err := tx.Shifts.Count(ctx, repository.ShiftFilter{RouteID: &id})
		if err != nil {
			return fmt.Errorf("count route shifts: %w", err)
		}
		if shifts > 0 {
			return conflict("cannot delete a route with %d planned shift(s)", shifts)
		}
		if err := tx.Routes.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete route: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithField("route_id", id).Info("route deleted")
	return nil
}

func (s *RouteService) checkName(ctx context.Context, name string, excludeID uint) error {
	taken, err := s.store.Routes.NameTaken(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check route name: %w", err)
	}
	if taken {
		return conflict("a route named %q already exists", name)
	}
	return nil
}

// buildStages validates stage order: sequence numbers must be unique.
func buildStages(input []StageInput) ([]models.Stage, error) {
	seen := make(map[int]bool, len(input))
	stages := make([]models.Stage, 0, len(input))
	for _, in := range input {
		if seen[in.Seq] {
			return nil, invalid("duplicate stage sequence %d", in.Seq)
		}
		seen[in.Seq] = true
		stages = append(stages, models.Stage{Name: strings.TrimSpace(in.Name), Seq: in.Seq, Lat: in.Lat, Lng: in.Lng})
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Seq < stages[j].Seq })
	return stages, nil
}

func normalizeRouteStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "":
		return models.RouteActive, nil
	case models.RouteActive, models.RouteInactive:
		return status, nil
	default:
		return "", invalid("invalid route status %q", status)
	}
}
