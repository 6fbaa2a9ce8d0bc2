// Package services holds the business rules between the HTTP controllers
// and the repositories.
package services

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Sentinel errors. Services wrap them with context; controllers map them
// to HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// DomainError carries a client-facing message for one of the sentinels.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }
func (e *DomainError) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &DomainError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// lookupErr turns gorm.ErrRecordNotFound into ErrNotFound and wraps the rest.
func lookupErr(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("%s %v not found", what, id)
	}
	return fmt.Errorf("load %s %v: %w", what, id, err)
}

// isUniqueViolation covers both gorm's translated error and a raw lib/pq one.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
