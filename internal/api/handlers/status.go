package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/models"
)

// StatusHandler reports library and history stats
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	HistoryEntries int            `json:"history_entries"`
	LibraryEntries int            `json:"library_entries"`
	Reading        int            `json:"reading"`
	PlanToRead     int            `json:"plan_to_read"`
	Completed      int            `json:"completed"`
	OnHold         int            `json:"on_hold"`
	Dropped        int            `json:"dropped"`
	ByStatus       map[string]int `json:"by_status"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.db.GetAllLibraryEntries()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get library entries")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	historyCount, err := h.db.CountProgress()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count history")
		historyCount = 0
	}

	response := StatusResponse{
		HistoryEntries: historyCount,
		LibraryEntries: len(entries),
		ByStatus:       make(map[string]int),
	}

	for _, entry := range entries {
		response.ByStatus[string(entry.Status)]++

		switch entry.Status {
		case models.StatusReading:
			response.Reading++
		case models.StatusPlanToRead:
			response.PlanToRead++
		case models.StatusCompleted:
			response.Completed++
		case models.StatusOnHold:
			response.OnHold++
		case models.StatusDropped:
			response.Dropped++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
