package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/jobs"
	"github.com/anonto42/career-hub/backend/internal/router"
	"github.com/anonto42/career-hub/backend/pkg/config"
	"github.com/anonto42/career-hub/backend/pkg/firebase"
	"github.com/anonto42/career-hub/backend/pkg/logger"
	"github.com/anonto42/career-hub/backend/pkg/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel, cfg.LogFormat)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Firebase is optional; without it only local sign-in is available
	ctx := context.Background()
	var verifier firebase.TokenVerifier
	if firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath); err != nil {
		logger.Log.WithError(err).Warn("Firebase login disabled")
	} else {
		verifier = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	app, err := router.SetupRoutes(e, cfg, db, verifier)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to set up routes")
	}

	cleanup, err := jobs.StartNotificationCleanup(cfg.CleanupSchedule, app.Notifications, cfg.NotificationRetention)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to schedule notification cleanup")
	}
	defer cleanup.Stop()

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}
