package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yomarr/yomarr/internal/models"
	"github.com/yomarr/yomarr/internal/services/catalog"
)

// fakeCatalog serves a fixed unit list and counts fetches
type fakeCatalog struct {
	units []catalog.UnitInfo
	err   error
	calls int
}

func (f *fakeCatalog) GetUnits(_ context.Context, _ string) ([]catalog.UnitInfo, error) {
	f.calls++
	return f.units, f.err
}

func newTestTracker(t *testing.T, cat CatalogClient) (*TrackerController, *models.Database, *fakeSyncer) {
	t.Helper()

	db := openTestDB(t)
	syncer := &fakeSyncer{}
	logger := testLogger()
	library := NewLibraryController(db, syncer, logger)
	tracker := NewTrackerController(db, syncer, cat, library, logger)

	return tracker, db, syncer
}

func TestUpdateProgressLocalFirst(t *testing.T) {
	tracker, db, syncer := newTestTracker(t, &fakeCatalog{})

	tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:   "m1",
		ChapterID:   "c1",
		UnitNumber:  1,
		CurrentUnit: 5,
		TotalUnits:  10,
	})

	// Local write is synchronous
	rec, err := db.GetProgressByChapter("m1", "c1")
	if err != nil {
		t.Fatalf("Expected local record, got err=%v", err)
	}
	if rec.CurrentUnit != 5 {
		t.Errorf("Expected current unit 5, got %d", rec.CurrentUnit)
	}
	if rec.LastUpdated.IsZero() {
		t.Error("Expected LastUpdated stamped")
	}

	// Exactly one sync job per upsert
	if len(syncer.upserts) != 1 {
		t.Fatalf("Expected 1 sync job, got %d", len(syncer.upserts))
	}
	if syncer.upserts[0].ContentID != "m1" || syncer.upserts[0].CurrentUnit != 5 {
		t.Errorf("Sync job payload mismatch: %+v", syncer.upserts[0])
	}

	// First progress implicitly adds the content to the library
	entry, err := db.GetLibraryEntry("m1")
	if err != nil {
		t.Fatalf("Expected implicit library entry, got err=%v", err)
	}
	if entry.Status != models.StatusReading || entry.ProgressCounter != 1 {
		t.Errorf("Unexpected implicit entry: %+v", entry)
	}
}

func TestUpdateProgressKeepsExplicitStatus(t *testing.T) {
	tracker, db, _ := newTestTracker(t, &fakeCatalog{})

	library := NewLibraryController(db, &fakeSyncer{}, testLogger())
	if err := library.SetStatus("m1", models.StatusOnHold, nil); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:  "m1",
		UnitNumber: 2,
	})

	entry, err := db.GetLibraryEntry("m1")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if entry.Status != models.StatusOnHold {
		t.Errorf("Progress update must not change an explicit status, got %s", entry.Status)
	}
	if entry.ProgressCounter != 2 {
		t.Errorf("Expected counter bumped to 2, got %d", entry.ProgressCounter)
	}
}

func TestGetUnitPercent(t *testing.T) {
	tracker, _, _ := newTestTracker(t, &fakeCatalog{})

	tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:   "m1",
		ChapterID:   "c1",
		UnitNumber:  1,
		CurrentUnit: 5,
		TotalUnits:  10,
	})

	if got := tracker.GetUnitPercent("m1", "c1"); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
	if got := tracker.GetUnitPercent("m1", "c2"); got != 0 {
		t.Errorf("Expected 0 for unrecorded chapter, got %d", got)
	}
	if got := tracker.GetUnitPercent("m9", "c1"); got != 0 {
		t.Errorf("Expected 0 for unknown content, got %d", got)
	}
}

func TestGetWorkPercentDetailed(t *testing.T) {
	cat := &fakeCatalog{units: []catalog.UnitInfo{
		{Number: 1, TotalUnits: 10},
		{Number: 2, TotalUnits: 10},
		{Number: 3, TotalUnits: 10},
	}}
	tracker, _, _ := newTestTracker(t, cat)

	tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:   "m1",
		ChapterID:   "c2",
		UnitNumber:  2,
		CurrentUnit: 5,
		TotalUnits:  10,
	})

	got, err := tracker.GetWorkPercent(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetWorkPercent failed: %v", err)
	}
	if got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
}

func TestGetWorkPercentFallback(t *testing.T) {
	// Catalog knows the units but not their page counts
	cat := &fakeCatalog{units: []catalog.UnitInfo{
		{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4},
	}}
	tracker, _, _ := newTestTracker(t, cat)

	tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:  "m1",
		UnitNumber: 2,
	})

	got, err := tracker.GetWorkPercent(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetWorkPercent failed: %v", err)
	}
	if got != 50 {
		t.Errorf("Expected 50 from fallback, got %d", got)
	}
}

func TestGetWorkPercentNoHistorySkipsCatalog(t *testing.T) {
	cat := &fakeCatalog{}
	tracker, _, _ := newTestTracker(t, cat)

	got, err := tracker.GetWorkPercent(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetWorkPercent failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0 without history, got %d", got)
	}
	if cat.calls != 0 {
		t.Errorf("Expected no catalog fetch without history, got %d", cat.calls)
	}
}

func TestGetWorkPercentCatalogError(t *testing.T) {
	cat := &fakeCatalog{err: fmt.Errorf("catalog down")}
	tracker, _, _ := newTestTracker(t, cat)

	tracker.UpdateProgress(&models.ProgressRecord{ContentID: "m1", UnitNumber: 1})

	if _, err := tracker.GetWorkPercent(context.Background(), "m1"); err == nil {
		t.Error("Expected error when the catalog is unavailable")
	}
}

func TestGetRecentlyActive(t *testing.T) {
	tracker, _, _ := newTestTracker(t, &fakeCatalog{})

	base := time.Now()
	for i := 0; i < 5; i++ {
		tracker.UpdateProgress(&models.ProgressRecord{
			ContentID:   fmt.Sprintf("m%d", i),
			UnitNumber:  1,
			LastUpdated: base.Add(time.Duration(i) * time.Minute),
		})
	}

	records := tracker.GetRecentlyActive(3)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].ContentID != "m4" {
		t.Errorf("Expected most recent first, got %s", records[0].ContentID)
	}
}

func TestClearHistory(t *testing.T) {
	tracker, db, syncer := newTestTracker(t, &fakeCatalog{})

	tracker.UpdateProgress(&models.ProgressRecord{ContentID: "m1", UnitNumber: 1})
	tracker.UpdateProgress(&models.ProgressRecord{ContentID: "m2", UnitNumber: 1})

	tracker.ClearHistory()

	count, err := db.CountProgress()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty history, got %d entries", count)
	}
	if syncer.deleteAlls != 1 {
		t.Errorf("Expected 1 remote delete-all job, got %d", syncer.deleteAlls)
	}
}
