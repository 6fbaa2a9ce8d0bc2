package services

import (
	"time"

	"fleet_shifts/internal/repository"
)

// Services bundles every service the HTTP layer needs.
type Services struct {
	Auth        *AuthService
	Drivers     *DriverService
	Routes      *RouteService
	Shifts      *ShiftService
	Assignments *AssignmentService
}

// New wires the services over one store. loc decides what "today" means.
func New(store *repository.Store, notifier Notifier, loc *time.Location, defaultDriverPassword string) *Services {
	return &Services{
		Auth:        NewAuthService(store),
		Drivers:     NewDriverService(store, defaultDriverPassword),
		Routes:      NewRouteService(store),
		Shifts:      NewShiftService(store, loc),
		Assignments: NewAssignmentService(store, notifier, loc),
	}
}
