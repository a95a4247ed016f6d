package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store. It is the local progress store:
// the authoritative copy of history and library state for the session.
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Progress operations

// UpsertProgress records progress for a content item. The record is keyed by
// ContentID, so new activity on any chapter replaces the prior entry for that
// content item regardless of chapter number. Retention is enforced afterwards.
func (db *Database) UpsertProgress(rec *ProgressRecord) error {
	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = time.Now()
	}

	if err := db.store.Upsert(rec.ContentID, rec); err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return db.TrimProgress()
}

// GetAllProgress retrieves the full local history, most recently active first
func (db *Database) GetAllProgress() ([]*ProgressRecord, error) {
	var records []*ProgressRecord
	if err := db.store.Find(&records, nil); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastUpdated.After(records[j].LastUpdated)
	})

	return records, nil
}

// GetRecentProgress retrieves up to limit history entries, most recent first.
// A non-positive limit returns the full history.
func (db *Database) GetRecentProgress(limit int) ([]*ProgressRecord, error) {
	records, err := db.GetAllProgress()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// GetProgressByContent retrieves the progress record for a content item
func (db *Database) GetProgressByContent(contentID string) (*ProgressRecord, error) {
	var rec ProgressRecord
	if err := db.store.Get(contentID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetProgressByChapter retrieves the progress record for a content item only
// if the retained entry is for the given chapter. The local store collapses
// history by content, so progress on another chapter means not found.
func (db *Database) GetProgressByChapter(contentID, chapterID string) (*ProgressRecord, error) {
	rec, err := db.GetProgressByContent(contentID)
	if err != nil {
		return nil, err
	}

	if rec.ChapterID != chapterID {
		return nil, ErrNotFound
	}

	return rec, nil
}

// CountProgress returns the number of history entries
func (db *Database) CountProgress() (int, error) {
	return db.store.Count(&ProgressRecord{}, nil)
}

// ClearProgress empties the local history
func (db *Database) ClearProgress() error {
	return db.store.DeleteMatching(&ProgressRecord{}, nil)
}

// TrimProgress evicts the least recently active entries beyond the history cap
func (db *Database) TrimProgress() error {
	records, err := db.GetAllProgress()
	if err != nil {
		return err
	}

	if len(records) <= MaxHistoryEntries {
		return nil
	}

	for _, rec := range records[MaxHistoryEntries:] {
		if err := db.store.Delete(rec.ContentID, &ProgressRecord{}); err != nil {
			return fmt.Errorf("failed to evict history entry: %w", err)
		}
	}

	return nil
}

// Library operations

// UpsertLibraryEntry creates or updates a library entry
func (db *Database) UpsertLibraryEntry(entry *LibraryEntry) error {
	entry.UpdatedAt = time.Now()
	return db.store.Upsert(entry.ContentID, entry)
}

// GetLibraryEntry retrieves the library entry for a content item
func (db *Database) GetLibraryEntry(contentID string) (*LibraryEntry, error) {
	var entry LibraryEntry
	if err := db.store.Get(contentID, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetAllLibraryEntries retrieves all library entries
func (db *Database) GetAllLibraryEntries() ([]*LibraryEntry, error) {
	var entries []*LibraryEntry
	err := db.store.Find(&entries, nil)
	return entries, err
}

// DeleteLibraryEntry removes the local library entry for a content item
func (db *Database) DeleteLibraryEntry(contentID string) error {
	err := db.store.Delete(contentID, &LibraryEntry{})
	if err != nil && err != bolthold.ErrNotFound {
		return err
	}
	return nil
}
