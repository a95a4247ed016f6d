package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// SyncedProgress is the canonical internal form of a progress row as echoed
// back by the remote store after an upsert.
type SyncedProgress struct {
	ContentID   string    `json:"content_id"`
	ChapterID   string    `json:"chapter_id"`
	UnitNumber  int       `json:"unit_number"`
	CurrentUnit int       `json:"current_unit"`
	TotalUnits  int       `json:"total_units"`
	LastUpdated time.Time `json:"last_updated"`
}

// responseEnvelope covers the known wrapper layouts the remote store has
// been observed to return for progress writes. Deployments differ: some echo
// the row flat, some wrap it under "progress", some under "data".
type responseEnvelope struct {
	Progress *SyncedProgress `json:"progress"`
	Data     *SyncedProgress `json:"data"`
}

// NormalizeProgressResponse folds the possible response layouts into the one
// canonical SyncedProgress. Unknown shapes are rejected with an error rather
// than silently defaulted to zero values.
func NormalizeProgressResponse(raw json.RawMessage) (*SyncedProgress, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("empty progress response")
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unparseable progress response: %w", err)
	}

	if envelope.Progress != nil && envelope.Progress.ContentID != "" {
		return envelope.Progress, nil
	}
	if envelope.Data != nil && envelope.Data.ContentID != "" {
		return envelope.Data, nil
	}

	// Flat layout: the row itself is the top-level object
	var flat SyncedProgress
	if err := json.Unmarshal(raw, &flat); err == nil && flat.ContentID != "" {
		return &flat, nil
	}

	return nil, fmt.Errorf("unknown progress response shape: %s", truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
