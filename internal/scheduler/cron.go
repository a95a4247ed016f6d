package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/controllers"
)

// Scheduler manages scheduled background tasks
type Scheduler struct {
	cron          *cron.Cron
	reconcileCtrl *controllers.ReconcileController
	logger        *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(reconcileCtrl *controllers.ReconcileController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		reconcileCtrl: reconcileCtrl,
		logger:        logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 6 hours: replay local history against the remote store
	_, err := s.cron.AddFunc("0 */6 * * *", func() {
		s.runResync()
	})
	if err != nil {
		return fmt.Errorf("failed to add resync job: %w", err)
	}

	// Every hour: re-apply history retention
	_, err = s.cron.AddFunc("0 * * * *", func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add retention sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial resync shortly after startup
	go s.runResync()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runResync executes the reconcile job
func (s *Scheduler) runResync() {
	s.logger.Info("Running scheduled resync")

	if err := s.reconcileCtrl.ResyncAll(); err != nil {
		s.logger.WithError(err).Error("Resync job failed")
	} else {
		s.logger.Info("Resync job completed successfully")
	}
}

// runSweep executes the retention sweep job
func (s *Scheduler) runSweep() {
	s.logger.Debug("Running retention sweep")

	if err := s.reconcileCtrl.Sweep(); err != nil {
		s.logger.WithError(err).Error("Retention sweep failed")
	}
}
