package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jsetina/faceclock/internal/database"
)

// LogsHandler handles attendance log listing
type LogsHandler struct {
	db database.Store
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(db database.Store) *LogsHandler {
	return &LogsHandler{db: db}
}

// LogResponse represents one attendance event in the listing
type LogResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	ImagePath  string `json:"image_path"`
}

// parseDateParam validates an optional "2006-01-02" query parameter.
func parseDateParam(r *http.Request, key string) (string, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "", false
	}
	return v, true
}

// List handles GET /api/v1/attendance-logs
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateParam(r, "start_date")
	if !ok {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, ok := parseDateParam(r, "end_date")
	if !ok {
		respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	filter := database.EventFilter{
		StartDate:  startDate,
		EndDate:    endDate,
		Name:       r.URL.Query().Get("name"),
		Department: r.URL.Query().Get("department"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	events, err := h.db.ListEvents(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to list attendance logs: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list attendance logs")
		return
	}

	resp := make([]LogResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, LogResponse{
			ID:         ev.ID,
			Name:       ev.Name,
			Department: ev.Department,
			Position:   ev.Position,
			Date:       ev.Date,
			Time:       ev.Time,
			ImagePath:  ev.ImagePath,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
