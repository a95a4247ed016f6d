package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/controllers"
)

// HistoryHandler handles history listing and clearing
type HistoryHandler struct {
	tracker *controllers.TrackerController
	logger  *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(tracker *controllers.TrackerController, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// ServeHTTP handles GET and DELETE on /api/history
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list returns the most recently active entries
func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records := h.tracker.GetRecentlyActive(limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// clear empties the local history and queues a remote delete
func (h *HistoryHandler) clear(w http.ResponseWriter, _ *http.Request) {
	h.tracker.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}
