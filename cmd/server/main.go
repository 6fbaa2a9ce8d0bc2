package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet_shifts/internal/config"
	"fleet_shifts/internal/jobs"
	"fleet_shifts/internal/logger"
	"fleet_shifts/internal/middleware"
	"fleet_shifts/internal/notify"
	"fleet_shifts/internal/repository"
	"fleet_shifts/internal/routes"
	"fleet_shifts/internal/services"

	logrus "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logWriter := logger.Setup(cfg.LogFile, cfg.LogLevel)

	middleware.Configure(cfg.JWTSecret, cfg.JWTTTL)

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("database setup failed")
	}
	logrus.Info("Database connected and migrated")

	store := repository.NewStore(db)
	hub := notify.NewHub(256)
	defer hub.Close()

	svc := services.New(store, hub, cfg.Location, cfg.DefaultDriverPassword)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Auth.EnsureAdmin(seedCtx, cfg.AdminEmail, cfg.AdminNationalID, cfg.AdminPassword); err != nil {
		logrus.WithError(err).Fatal("failed to seed admin user")
	}
	if cfg.SeedDemoDriver {
		demo := services.CreateDriverInput{
			FullName:      "Juan Pérez González",
			NationalID:    "1144199553",
			LicenseNumber: "C2-12345678",
			Phone:         "3001234567",
			Email:         "conductor@fleet.com",
			Password:      "password",
		}
		if err := svc.Drivers.EnsureDemoDriver(seedCtx, demo); err != nil {
			logrus.WithError(err).Warn("failed to seed demo driver")
		}
	}
	cancelSeed()

	scheduler, err := jobs.NewScheduler(cfg.AssignmentSweepCron, cfg.Location, svc.Assignments)
	if err != nil {
		logrus.WithError(err).Fatal("scheduler setup failed")
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRouter(svc, hub, logWriter)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           middleware.EnableCORS(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("🚀 Server running at %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
