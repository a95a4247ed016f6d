package models

import "time"

// MaxHistoryEntries is the hard cap on the local history list.
// The remote store keeps one row per (user, content, chapter) without a cap;
// locally we only keep the most recently active content items.
const MaxHistoryEntries = 50

// ProgressRecord captures how far a user has advanced into one
// chapter/episode of one content item
type ProgressRecord struct {
	ContentID string `boltholdKey:"ContentID"`
	ChapterID string // empty for time-based media

	UnitNumber  int // chapter/episode ordinal
	CurrentUnit int // current page or playback second
	TotalUnits  int // total pages or total duration

	LastUpdated time.Time

	// Denormalized display snapshot
	ContentTitle     string
	ContentThumbnail string
}

// LibraryEntry represents the user's status relationship to a content item
type LibraryEntry struct {
	ContentID string `boltholdKey:"ContentID"`
	Status    Status

	Score           *int // nil when unrated
	ProgressCounter int  // chapter/episode number reached

	CompletedAt *time.Time
	UpdatedAt   time.Time
}
