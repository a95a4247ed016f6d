package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yomarr/yomarr/internal/models"
)

// progressPayload is the wire form of a progress upsert. It always carries
// the full record so replays stay safe under the last-write-wins contract.
type progressPayload struct {
	UserID           string    `json:"user_id"`
	ContentID        string    `json:"content_id"`
	ChapterID        string    `json:"chapter_id,omitempty"`
	UnitNumber       int       `json:"unit_number"`
	CurrentUnit      int       `json:"current_unit"`
	TotalUnits       int       `json:"total_units"`
	LastUpdated      time.Time `json:"last_updated"`
	ContentTitle     string    `json:"content_title,omitempty"`
	ContentThumbnail string    `json:"content_thumbnail,omitempty"`
}

// statusPayload is the wire form of a library status write
type statusPayload struct {
	UserID          string        `json:"user_id"`
	ContentID       string        `json:"content_id"`
	Status          models.Status `json:"status"`
	Score           *int          `json:"score,omitempty"`
	ProgressCounter int           `json:"progress_counter,omitempty"`
}

// UpsertProgress writes a progress record to the remote store, keyed by
// (user, content, chapter). The remote row is unconditionally overwritten:
// last write wins, no merge, no version check.
func (c *Client) UpsertProgress(ctx context.Context, userID string, rec *models.ProgressRecord) (*SyncedProgress, error) {
	payload := progressPayload{
		UserID:           userID,
		ContentID:        rec.ContentID,
		ChapterID:        rec.ChapterID,
		UnitNumber:       rec.UnitNumber,
		CurrentUnit:      rec.CurrentUnit,
		TotalUnits:       rec.TotalUnits,
		LastUpdated:      rec.LastUpdated,
		ContentTitle:     rec.ContentTitle,
		ContentThumbnail: rec.ContentThumbnail,
	}

	var raw json.RawMessage
	if err := c.doRequest(ctx, "POST", "/v1/sync/progress", payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	synced, err := NormalizeProgressResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize progress response: %w", err)
	}

	return synced, nil
}

// SetStatus writes a library status for a content item. A status of
// "removed" soft-deletes the entry remotely; rows are not physically deleted.
func (c *Client) SetStatus(ctx context.Context, userID, contentID string, status models.Status, score *int, progressCounter int) error {
	payload := statusPayload{
		UserID:          userID,
		ContentID:       contentID,
		Status:          status,
		Score:           score,
		ProgressCounter: progressCounter,
	}

	if err := c.doRequest(ctx, "POST", "/v1/sync/status", payload, nil); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every remote progress row for the user.
// Best effort: invoked when the local history is cleared.
func (c *Client) DeleteAllForUser(ctx context.Context, userID string) error {
	path := fmt.Sprintf("/v1/sync/progress?user_id=%s", userID)
	if err := c.doRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete progress for user: %w", err)
	}

	return nil
}
