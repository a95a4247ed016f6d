package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yomarr/yomarr/internal/api"
	"github.com/yomarr/yomarr/internal/config"
	"github.com/yomarr/yomarr/internal/controllers"
	"github.com/yomarr/yomarr/internal/dispatch"
	"github.com/yomarr/yomarr/internal/models"
	"github.com/yomarr/yomarr/internal/scheduler"
	"github.com/yomarr/yomarr/internal/services/catalog"
	"github.com/yomarr/yomarr/internal/services/remote"
	"github.com/yomarr/yomarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Yomarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize services
	remoteClient, err := remote.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize remote store client: %w", err)
	}
	logger.Info("Remote store client initialized")

	catalogClient, err := catalog.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	logger.Info("Catalog client initialized")

	// 5. Initialize sync dispatcher
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := dispatch.NewDispatcher(remoteClient, logger)
	dispatcher.Start(ctx)
	logger.Info("Sync dispatcher started")

	// 6. Initialize controllers
	libraryCtrl := controllers.NewLibraryController(db, dispatcher, logger)
	trackerCtrl := controllers.NewTrackerController(db, dispatcher, catalogClient, libraryCtrl, logger)
	reconcileCtrl := controllers.NewReconcileController(db, dispatcher, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(reconcileCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, db, trackerCtrl, libraryCtrl, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Yomarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Yomarr stopped")
	return nil
}
