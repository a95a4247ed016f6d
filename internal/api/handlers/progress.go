package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/controllers"
	"github.com/yomarr/yomarr/internal/models"
)

// ProgressHandler handles progress updates and percentage queries
type ProgressHandler struct {
	tracker *controllers.TrackerController
	logger  *logrus.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(tracker *controllers.TrackerController, logger *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// UpdateRequest is the body of a progress update
type UpdateRequest struct {
	ContentID        string `json:"content_id"`
	ChapterID        string `json:"chapter_id"`
	UnitNumber       int    `json:"unit_number"`
	CurrentUnit      int    `json:"current_unit"`
	TotalUnits       int    `json:"total_units"`
	ContentTitle     string `json:"content_title"`
	ContentThumbnail string `json:"content_thumbnail"`
}

// Update handles POST /api/progress
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ContentID == "" {
		http.Error(w, "content_id is required", http.StatusBadRequest)
		return
	}

	h.tracker.UpdateProgress(&models.ProgressRecord{
		ContentID:        req.ContentID,
		ChapterID:        req.ChapterID,
		UnitNumber:       req.UnitNumber,
		CurrentUnit:      req.CurrentUnit,
		TotalUnits:       req.TotalUnits,
		LastUpdated:      time.Now(),
		ContentTitle:     req.ContentTitle,
		ContentThumbnail: req.ContentThumbnail,
	})

	// Accepted, not created: the remote side is fire-and-forget
	w.WriteHeader(http.StatusAccepted)
}

// UnitPercent handles GET /api/progress/unit?content_id=&chapter_id=
func (h *ProgressHandler) UnitPercent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentID := r.URL.Query().Get("content_id")
	if contentID == "" {
		http.Error(w, "content_id is required", http.StatusBadRequest)
		return
	}
	chapterID := r.URL.Query().Get("chapter_id")

	percent := h.tracker.GetUnitPercent(contentID, chapterID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"percent": percent})
}

// WorkPercent handles GET /api/progress/work?content_id=
func (h *ProgressHandler) WorkPercent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentID := r.URL.Query().Get("content_id")
	if contentID == "" {
		http.Error(w, "content_id is required", http.StatusBadRequest)
		return
	}

	percent, err := h.tracker.GetWorkPercent(r.Context(), contentID)
	if err != nil {
		h.logger.WithError(err).WithField("content_id", contentID).Error("Failed to compute work percent")
		http.Error(w, "Failed to compute work percent", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"percent": percent})
}
