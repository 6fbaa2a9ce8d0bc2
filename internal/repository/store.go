// Package repository wraps every gorm query the services run.
//
// Repositories return gorm errors as-is (gorm.ErrRecordNotFound,
// gorm.ErrDuplicatedKey); the service layer decides what they mean.
// Deletes are permanent: emails, national IDs and route names are unique
// and must be reusable after removal.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store struct {
	db *gorm.DB

	Users       *UserRepository
	Drivers     *DriverRepository
	Routes      *RouteRepository
	Shifts      *ShiftRepository
	Assignments *AssignmentRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       &UserRepository{db: db},
		Drivers:     &DriverRepository{db: db},
		Routes:      &RouteRepository{db: db},
		Shifts:      &ShiftRepository{db: db},
		Assignments: &AssignmentRepository{db: db},
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
