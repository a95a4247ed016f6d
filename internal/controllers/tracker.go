package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/aggregate"
	"github.com/yomarr/yomarr/internal/models"
	"github.com/yomarr/yomarr/internal/services/catalog"
)

// Syncer is the narrow dispatcher contract the controllers depend on
type Syncer interface {
	EnqueueUpsert(rec *models.ProgressRecord)
	EnqueueStatus(contentID string, status models.Status, score *int, progressCounter int)
	EnqueueDeleteAll()
}

// CatalogClient supplies the ordered unit list for a content item
type CatalogClient interface {
	GetUnits(ctx context.Context, contentID string) ([]catalog.UnitInfo, error)
}

// TrackerController handles the progress path: local-first writes, history
// queries and on-demand percentage aggregation.
type TrackerController struct {
	db          *models.Database
	syncer      Syncer
	catalog     CatalogClient
	libraryCtrl *LibraryController
	logger      *logrus.Logger
}

// NewTrackerController creates a new tracker controller
func NewTrackerController(db *models.Database, syncer Syncer, catalogClient CatalogClient, libraryCtrl *LibraryController, logger *logrus.Logger) *TrackerController {
	return &TrackerController{
		db:          db,
		syncer:      syncer,
		catalog:     catalogClient,
		libraryCtrl: libraryCtrl,
		logger:      logger,
	}
}

// UpdateProgress applies a progress update synchronously to the local store
// and queues a fire-and-forget remote upsert. Local persistence failures are
// logged and swallowed: the caller's page turn must never crash, and the
// remote write still goes out.
func (c *TrackerController) UpdateProgress(rec *models.ProgressRecord) {
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = time.Now()
	}

	if err := c.db.UpsertProgress(rec); err != nil {
		c.logger.WithError(err).WithField("content_id", rec.ContentID).Error("Failed to write local progress")
	}

	// First progress on a content item implicitly adds it to the library
	c.libraryCtrl.RecordProgress(rec.ContentID, rec.UnitNumber)

	c.syncer.EnqueueUpsert(rec)
}

// GetRecentlyActive returns up to limit history entries, most recent first.
// Local read failures degrade to an empty history.
func (c *TrackerController) GetRecentlyActive(limit int) []*models.ProgressRecord {
	records, err := c.db.GetRecentProgress(limit)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read local history")
		return []*models.ProgressRecord{}
	}
	return records
}

// GetUnitPercent returns the unit-level percentage for a chapter, or 0 when
// no record is retained for that chapter
func (c *TrackerController) GetUnitPercent(contentID, chapterID string) int {
	rec, err := c.db.GetProgressByChapter(contentID, chapterID)
	if err != nil {
		if err != models.ErrNotFound {
			c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to read local progress")
		}
		return 0
	}
	return aggregate.RecordPercent(rec)
}

// GetWorkPercent computes whole-work completion for a content item using the
// catalog's unit list. Falls back to the chapter-count approximation when the
// catalog has no per-unit totals.
func (c *TrackerController) GetWorkPercent(ctx context.Context, contentID string) (int, error) {
	records := c.historyFor(contentID)
	if len(records) == 0 {
		return 0, nil
	}

	units, err := c.catalog.GetUnits(ctx, contentID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch catalog units: %w", err)
	}

	converted := make([]aggregate.Unit, 0, len(units))
	for _, u := range units {
		converted = append(converted, aggregate.Unit{
			Number:     u.Number,
			TotalUnits: u.TotalUnits,
			Title:      u.Title,
			Thumbnail:  u.Thumbnail,
		})
	}

	if !aggregate.HasUnitTotals(converted) {
		return aggregate.WorkPercentApprox(records, len(converted)), nil
	}

	return aggregate.WorkPercent(records, converted), nil
}

// ClearHistory empties the local history and queues a best-effort remote
// delete of the user's progress rows
func (c *TrackerController) ClearHistory() {
	if err := c.db.ClearProgress(); err != nil {
		c.logger.WithError(err).Error("Failed to clear local history")
	}
	c.syncer.EnqueueDeleteAll()
}

// historyFor returns the retained history entries for a content item. The
// local store collapses by content, so this is at most one record.
func (c *TrackerController) historyFor(contentID string) []*models.ProgressRecord {
	rec, err := c.db.GetProgressByContent(contentID)
	if err != nil {
		if err != models.ErrNotFound {
			c.logger.WithError(err).WithField("content_id", contentID).Error("Failed to read local progress")
		}
		return nil
	}
	return []*models.ProgressRecord{rec}
}
