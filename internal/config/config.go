package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	ServerAddr string

	DB DBConfig

	JWTSecret string
	JWTTTL    time.Duration

	LogFile  string
	LogLevel string

	AdminEmail      string
	AdminNationalID string
	AdminPassword   string

	DefaultDriverPassword string
	SeedDemoDriver        bool

	// AssignmentSweepCron is a robfig/cron spec. Empty disables the job.
	AssignmentSweepCron string
	Location            *time.Location
}

type DBConfig struct {
	// Driver is "pgx" (gorm's default) or "postgres" (lib/pq).
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found – relying on env vars")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		logrus.WithError(err).Warn("invalid TIMEZONE, using UTC")
		loc = time.UTC
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0:8080"),
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "pgx"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "fleet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		JWTSecret:             getEnv("JWT_SECRET", "supersecret"),
		JWTTTL:                time.Duration(getEnvInt("JWT_TTL_HOURS", 72)) * time.Hour,
		LogFile:               getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:              getEnv("LOG_LEVEL", "debug"),
		AdminEmail:            getEnv("ADMIN_EMAIL", "admin@fleet.com"),
		AdminNationalID:       getEnv("ADMIN_NATIONAL_ID", "123456"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", "123456"),
		DefaultDriverPassword: getEnv("DEFAULT_DRIVER_PASSWORD", "password123"),
		SeedDemoDriver:        getEnvBool("SEED_DEMO_DRIVER", false),
		AssignmentSweepCron:   getEnv("ASSIGNMENT_SWEEP_CRON", "@every 1h"),
		Location:              loc,
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("invalid integer in environment, using default")
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": raw}).Warn("invalid boolean in environment, using default")
		return defaultValue
	}
	return v
}
