package services

import (
	"context"
	"fmt"
	"strings"

	logrus "github.com/sirupsen/logrus"

	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
)

type DriverService struct {
	store           *repository.Store
	defaultPassword string
}

func NewDriverService(store *repository.Store, defaultPassword string) *DriverService {
	return &DriverService{store: store, defaultPassword: defaultPassword}
}

// CreateDriverInput creates the driver profile and its login in one go.
// Password falls back to the configured default.
type CreateDriverInput struct {
	FullName      string `json:"full_name" binding:"required"`
	NationalID    string `json:"national_id" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password"`
	Status        string `json:"status"`
}

// UpdateDriverInput is a partial update; the linked user is left alone.
type UpdateDriverInput struct {
	FullName      *string `json:"full_name"`
	LicenseNumber *string `json:"license_number"`
	Phone         *string `json:"phone"`
	Status        *string `json:"status"`
}

func (s *DriverService) List(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.store.Drivers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, nil
}

func (s *DriverService) Get(ctx context.Context, id uint) (*models.Driver, error) {
	driver, err := s.store.Drivers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "driver", id)
	}
	return driver, nil
}

// GetByUserID resolves the driver profile behind a logged-in user.
func (s *DriverService) GetByUserID(ctx context.Context, userID uint) (*models.Driver, error) {
	driver, err := s.store.Drivers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "driver profile for user", userID)
	}
	return driver, nil
}

func (s *DriverService) Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error) {
	status, err := normalizeDriverStatus(input.Status)
	if err != nil {
		return nil, err
	}
	nationalID := strings.TrimSpace(input.NationalID)

	exists, err := s.store.Drivers.ExistsNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("check national ID: %w", err)
	}
	if exists {
		return nil, conflict("a driver with national ID %s already exists", nationalID)
	}

	password := input.Password
	if password == "" {
		password = s.defaultPassword
	}

	var driver *models.Driver
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := createUser(ctx, tx, input.Email, nationalID, password, models.RoleDriver)
		if err != nil {
			return err
		}
		driver = &models.Driver{
			UserID:        user.ID,
			FullName:      strings.TrimSpace(input.FullName),
			NationalID:    nationalID,
			LicenseNumber: strings.TrimSpace(input.LicenseNumber),
			Phone:         strings.TrimSpace(input.Phone),
			Status:        status,
		}
		if err := tx.Drivers.Create(ctx, driver); err != nil {
			if isUniqueViolation(err) {
				return conflict("a driver with national ID %s already exists", nationalID)
			}
			return fmt.Errorf("could not create driver: %w", err)
		}
		driver.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"driver_id": driver.ID, "user_id": driver.UserID}).Info("driver created")
	return driver, nil
}

func (s *DriverService) Update(ctx context.Context, id uint, input UpdateDriverInput) (*models.Driver, error) {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, invalid("full_name cannot be empty")
		}
		driver.FullName = name
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = strings.TrimSpace(*input.LicenseNumber)
	}
	if input.Phone != nil {
		driver.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Status != nil {
		status, err := normalizeDriverStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		driver.Status = status
	}

	if err := s.store.Drivers.Save(ctx, driver); err != nil {
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	return driver, nil
}

// Delete removes the driver, its login and its assignment history.
// A driver still holding active assignments cannot be deleted.
func (s *DriverService) Delete(ctx context.Context, id uint) error {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		active, err := tx.Assignments.CountActiveByDriver(ctx, id)
		if err != nil {
			return fmt.Errorf("count driver assignments: %w", err)
		}
		if active > 0 {
			return conflict("cannot delete a driver with %d active assignment(s)", active)
		}
		if err := tx.Assignments.DeleteHistoryByDriver(ctx, id); err != nil {
			return fmt.Errorf("delete assignment history: %w", err)
		}
		if err := tx.Drivers.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete driver: %w", err)
		}
		if err := tx.Users.Delete(ctx, driver.UserID); err != nil {
			return fmt.Errorf("delete driver user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("driver_id", id).Info("driver deleted")
	return nil
}

// EnsureDemoDriver seeds a driver account for local setups. It does nothing
// when the email or national ID is already taken.
func (s *DriverService) EnsureDemoDriver(ctx context.Context, input CreateDriverInput) error {
	exists, err := s.store.Users.Exists(ctx, input.Email, input.NationalID)
	if err != nil {
		return fmt.Errorf("check demo driver: %w", err)
	}
	if exists {
		return nil
	}
	_, err = s.Create(ctx, input)
	return err
}

func normalizeDriverStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "":
		return models.DriverActive, nil
	case models.DriverActive, models.DriverInactive:
		return status, nil
	default:
		return "", invalid("invalid driver status %q", status)
	}
}
