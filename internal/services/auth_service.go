package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/models"
	"fleet_shifts/internal/repository"
)

type AuthService struct {
	store *repository.Store
}

func NewAuthService(store *repository.Store) *AuthService {
	return &AuthService{store: store}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type CreateUserInput struct {
	Email      string `json:"email" binding:"required,email"`
	NationalID string `json:"national_id" binding:"required"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role"`
}

// Login accepts either an email or a national ID as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	invalidCreds := &DomainError{Kind: ErrUnauthorized, Message: "invalid credentials"}

	user, err := s.store.Users.FindByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCreds
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithField("user_id", user.ID).Info("login rejected: wrong password")
		return nil, invalidCreds
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// CreateUser registers an administrator. Driver accounts are created with
// their profile through DriverService.Create.
func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		return nil, err
	}
	if role == models.RoleDriver {
		return nil, invalid("driver accounts are created together with a driver profile")
	}

	user, err := createUser(ctx, s.store, input.Email, input.NationalID, input.Password, role)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user created")
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator unless a user with that
// email or national ID already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, nationalID, password string) error {
	exists, err := s.store.Users.Exists(ctx, email, nationalID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil
	}
	user, err := createUser(ctx, s.store, email, nationalID, password, models.RoleAdmin)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("bootstrap admin created")
	return nil
}

// createUser hashes the password and inserts the account through store,
// which may be bound to a transaction.
func createUser(ctx context.Context, store *repository.Store, email, nationalID, password, role string) (*models.User, error) {
	email, nationalID = strings.TrimSpace(email), strings.TrimSpace(nationalID)
	exists, err := store.Users.Exists(ctx, email, nationalID)
	if err != nil {
		return nil, fmt.Errorf("check user uniqueness: %w", err)
	}
	if exists {
		return nil, conflict("email or national ID already in use")
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}
	user := &models.User{
		Email:      email,
		NationalID: nationalID,
		Password:   hashed,
		Role:       role,
	}
	if err := store.Users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("email or national ID already in use")
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	return user, nil
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleAdmin
	}
	switch role {
	case models.RoleAdmin, models.RoleDriver:
		return role, nil
	default:
		return "", invalid("invalid role %q", roleInput)
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
