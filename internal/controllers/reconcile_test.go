package controllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/yomarr/yomarr/internal/models"
)

func TestResyncAll(t *testing.T) {
	db := openTestDB(t)
	syncer := &fakeSyncer{}
	ctrl := NewReconcileController(db, syncer, testLogger())

	base := time.Now()
	for i := 0; i < 4; i++ {
		rec := &models.ProgressRecord{
			ContentID:   fmt.Sprintf("m%d", i),
			UnitNumber:  i + 1,
			CurrentUnit: 3,
			TotalUnits:  10,
			LastUpdated: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.UpsertProgress(rec); err != nil {
			t.Fatalf("Failed to seed progress: %v", err)
		}
	}

	if err := ctrl.ResyncAll(); err != nil {
		t.Fatalf("ResyncAll failed: %v", err)
	}

	if len(syncer.upserts) != 4 {
		t.Fatalf("Expected 4 re-enqueued records, got %d", len(syncer.upserts))
	}
	// Full payloads, not diffs
	for _, rec := range syncer.upserts {
		if rec.TotalUnits != 10 || rec.CurrentUnit != 3 {
			t.Errorf("Expected full record payload, got %+v", rec)
		}
	}
}

func TestResyncAllEmptyHistory(t *testing.T) {
	db := openTestDB(t)
	syncer := &fakeSyncer{}
	ctrl := NewReconcileController(db, syncer, testLogger())

	if err := ctrl.ResyncAll(); err != nil {
		t.Fatalf("ResyncAll failed: %v", err)
	}
	if len(syncer.upserts) != 0 {
		t.Errorf("Expected no jobs for empty history, got %d", len(syncer.upserts))
	}
}

func TestSweep(t *testing.T) {
	db := openTestDB(t)
	ctrl := NewReconcileController(db, &fakeSyncer{}, testLogger())

	if err := ctrl.Sweep(); err != nil {
		t.Errorf("Sweep on empty history failed: %v", err)
	}
}
