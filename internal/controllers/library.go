package controllers

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/models"
)

// LibraryController manages the user's status relationship to content items.
// Transitions form a full mesh: any status is reachable from any other, and
// no transition is rejected based on the current state. Status and progress
// are independent axes; status writes never touch progress records.
type LibraryController struct {
	db     *models.Database
	syncer Syncer
	logger *logrus.Logger
}

// NewLibraryController creates a new library controller
func NewLibraryController(db *models.Database, syncer Syncer, logger *logrus.Logger) *LibraryController {
	return &LibraryController{
		db:     db,
		syncer: syncer,
		logger: logger,
	}
}

// SetStatus writes a library status for a content item, creating the entry
// on first use. Entering completed stamps a completion marker once; leaving
// it does not clear the marker. The write is propagated to the remote store
// in the background.
func (c *LibraryController) SetStatus(contentID string, status models.Status, score *int) error {
	if !status.IsSettable() {
		return fmt.Errorf("unknown status %q", status)
	}

	entry, err := c.db.GetLibraryEntry(contentID)
	if err != nil {
		if err != models.ErrNotFound {
			c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to read library entry")
		}
		entry = &models.LibraryEntry{ContentID: contentID}
	}

	entry.Status = status
	if score != nil {
		entry.Score = score
	}
	if status == models.StatusCompleted && entry.CompletedAt == nil {
		now := time.Now()
		entry.CompletedAt = &now
	}

	if err := c.db.UpsertLibraryEntry(entry); err != nil {
		return fmt.Errorf("failed to write library entry: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"content_id": contentID,
		"status":     status,
	}).Info("Library status updated")

	c.syncer.EnqueueStatus(contentID, entry.Status, entry.Score, entry.ProgressCounter)
	return nil
}

// Remove takes a content item out of the library: the local entry is cleared
// immediately, and a status write of "removed" is queued against the remote
// store. Soft delete only; remote rows are not physically deleted.
func (c *LibraryController) Remove(contentID string) {
	if err := c.db.DeleteLibraryEntry(contentID); err != nil {
		c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to delete library entry")
	}

	c.logger.WithField("content_id", contentID).Info("Library entry removed")
	c.syncer.EnqueueStatus(contentID, models.StatusRemoved, nil, 0)
}

// RecordProgress keeps the library entry in step with progress updates:
// first progress on an untracked content item creates a reading entry, and
// the progress counter follows the highest unit number reached. Local only;
// the progress upsert already carries the data remotely.
func (c *LibraryController) RecordProgress(contentID string, unitNumber int) {
	entry, err := c.db.GetLibraryEntry(contentID)
	if err != nil {
		if err != models.ErrNotFound {
			c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to read library entry")
			return
		}
		entry = &models.LibraryEntry{
			ContentID: contentID,
			Status:    models.StatusReading,
		}
	}

	if unitNumber > entry.ProgressCounter {
		entry.ProgressCounter = unitNumber
	}

	if err := c.db.UpsertLibraryEntry(entry); err != nil {
		c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to write library entry")
	}
}

// GetEntry retrieves the library entry for a content item
func (c *LibraryController) GetEntry(contentID string) (*models.LibraryEntry, error) {
	return c.db.GetLibraryEntry(contentID)
}

// GetAllEntries retrieves every library entry
func (c *LibraryController) GetAllEntries() ([]*models.LibraryEntry, error) {
	return c.db.GetAllLibraryEntries()
}
