package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/controllers"
	"github.com/yomarr/yomarr/internal/models"
)

// LibraryHandler handles library status changes
type LibraryHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *controllers.LibraryController, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

// StatusRequest is the body of a status change
type StatusRequest struct {
	ContentID string `json:"content_id"`
	Status    string `json:"status"`
	Score     *int   `json:"score,omitempty"`
}

// RemoveRequest is the body of a remove action
type RemoveRequest struct {
	ContentID string `json:"content_id"`
}

// SetStatus handles POST /api/library/status
func (h *LibraryHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ContentID == "" {
		http.Error(w, "content_id is required", http.StatusBadRequest)
		return
	}

	if err := h.library.SetStatus(req.ContentID, models.Status(req.Status), req.Score); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Remove handles POST /api/library/remove
func (h *LibraryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ContentID == "" {
		http.Error(w, "content_id is required", http.StatusBadRequest)
		return
	}

	h.library.Remove(req.ContentID)
	w.WriteHeader(http.StatusAccepted)
}
