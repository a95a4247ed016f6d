package controllers

import (
	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/models"
)

// ReconcileController periodically replays local state against the remote
// store. Sync jobs are never retried individually, so a failed upsert leaves
// the remote row stale until the next write; replaying the full history is
// safe because every job carries the complete record and the remote upsert
// is last-write-wins.
type ReconcileController struct {
	db     *models.Database
	syncer Syncer
	logger *logrus.Logger
}

// NewReconcileController creates a new reconcile controller
func NewReconcileController(db *models.Database, syncer Syncer, logger *logrus.Logger) *ReconcileController {
	return &ReconcileController{
		db:     db,
		syncer: syncer,
		logger: logger,
	}
}

// ResyncAll re-enqueues every local history entry for remote upsert
func (c *ReconcileController) ResyncAll() error {
	records, err := c.db.GetAllProgress()
	if err != nil {
		return err
	}

	for _, rec := range records {
		c.syncer.EnqueueUpsert(rec)
	}

	c.logger.WithField("count", len(records)).Info("Re-enqueued local history for sync")
	return nil
}

// Sweep re-applies the retention policy. Normally a no-op: retention runs on
// every upsert, but a failed trim would otherwise leave excess entries behind.
func (c *ReconcileController) Sweep() error {
	return c.db.TrimProgress()
}
