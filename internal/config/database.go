package config

import (
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fleet_shifts/internal/logger"
	"fleet_shifts/internal/models"
)

// DSN builds the key/value Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	pgCfg := postgres.Config{DSN: cfg.DSN()}
	if cfg.Driver == "postgres" {
		pgCfg.DriverName = "postgres"
	}

	db, err := gorm.Open(postgres.New(pgCfg), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// GormConfig is shared by the server and the test databases.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.GormLogger(),
	}
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Route{},
		&models.Stage{},
		&models.Shift{},
		&models.ShiftAssignment{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
