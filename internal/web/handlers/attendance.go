package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jsetina/faceclock/internal/attendance"
	"github.com/jsetina/faceclock/internal/imaging"
)

// RecorderService is the part of the attendance recorder the handlers need.
type RecorderService interface {
	Record(ctx context.Context, imageData []byte) (*attendance.Outcome, error)
	Register(ctx context.Context, imageData []byte, name, department, position string) (*attendance.Outcome, error)
	Reload(ctx context.Context) (int, error)
	KnownFaces() int
}

// AttendanceHandler handles the recognition endpoints
type AttendanceHandler struct {
	recorder RecorderService
	stats    *StatsHandler
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(recorder RecorderService, stats *StatsHandler) *AttendanceHandler {
	return &AttendanceHandler{
		recorder: recorder,
		stats:    stats,
	}
}

// imageRequest is the shared request body for the recognition endpoints.
// Image is a base64 string, with or without a data URL prefix.
type imageRequest struct {
	Image      string `json:"image"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func decodeImageRequest(r *http.Request) (*imageRequest, []byte, error) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, err
	}
	data, err := imaging.DecodeBase64(req.Image)
	if err != nil {
		return nil, nil, err
	}
	return &req, data, nil
}

// Record handles POST /api/v1/attendance
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	_, data, err := decodeImageRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	outcome, err := h.recorder.Record(r.Context(), data)
	if err != nil {
		log.Printf("Failed to record attendance: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to record attendance")
		return
	}

	if outcome.Status == attendance.StatusRecorded {
		h.stats.InvalidateCache()
		log.Printf("Attendance recorded for %s at %s %s",
			sanitizeForLog(outcome.Employee.Name), outcome.Date, outcome.Time)
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Register handles POST /api/v1/register
func (h *AttendanceHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, data, err := decodeImageRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	outcome, err := h.recorder.Register(r.Context(), data, strings.TrimSpace(req.Name), req.Department, req.Position)
	if err != nil {
		log.Printf("Failed to register %s: %v", sanitizeForLog(req.Name), err)
		respondError(w, http.StatusInternalServerError, "failed to register employee")
		return
	}

	if outcome.Status == attendance.StatusRegistered {
		log.Printf("Registered %s, %d known faces", sanitizeForLog(req.Name), h.recorder.KnownFaces())
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Reload handles POST /api/v1/reload
func (h *AttendanceHandler) Reload(w http.ResponseWriter, r *http.Request) {
	loaded, err := h.recorder.Reload(r.Context())
	if err != nil {
		log.Printf("Failed to reload encodings: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to reload encodings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": loaded})
}
