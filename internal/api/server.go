package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/api/handlers"
	"github.com/yomarr/yomarr/internal/api/middleware"
	"github.com/yomarr/yomarr/internal/config"
	"github.com/yomarr/yomarr/internal/controllers"
	"github.com/yomarr/yomarr/internal/models"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	db          *models.Database
	trackerCtrl *controllers.TrackerController
	libraryCtrl *controllers.LibraryController
	logger      *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, trackerCtrl *controllers.TrackerController, libraryCtrl *controllers.LibraryController, logger *logrus.Logger) *Server {
	s := &Server{
		db:          db,
		trackerCtrl: trackerCtrl,
		libraryCtrl: libraryCtrl,
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Progress
	progressHandler := handlers.NewProgressHandler(s.trackerCtrl, s.logger)
	mux.HandleFunc("/api/progress", progressHandler.Update)
	mux.HandleFunc("/api/progress/unit", progressHandler.UnitPercent)
	mux.HandleFunc("/api/progress/work", progressHandler.WorkPercent)

	// History
	historyHandler := handlers.NewHistoryHandler(s.trackerCtrl, s.logger)
	mux.HandleFunc("/api/history", historyHandler.ServeHTTP)

	// Library
	libraryHandler := handlers.NewLibraryHandler(s.libraryCtrl, s.logger)
	mux.HandleFunc("/api/library/status", libraryHandler.SetStatus)
	mux.HandleFunc("/api/library/remove", libraryHandler.Remove)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
