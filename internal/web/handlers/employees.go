package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/jsetina/faceclock/internal/database"
)

// EmployeesHandler handles employee listing endpoints
type EmployeesHandler struct {
	db database.Store
}

// NewEmployeesHandler creates a new employees handler
func NewEmployeesHandler(db database.Store) *EmployeesHandler {
	return &EmployeesHandler{db: db}
}

// EmployeeResponse represents one employee in the listing
type EmployeeResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	CreatedAt  string `json:"created_at"`
}

// List handles GET /api/v1/employees
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.db.ListEmployees(r.Context())
	if err != nil {
		log.Printf("Failed to list employees: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}

	resp := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, EmployeeResponse{
			ID:         e.ID,
			Name:       e.Name,
			Department: e.Department,
			Position:   e.Position,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// Departments handles GET /api/v1/departments
func (h *EmployeesHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.db.Departments(r.Context())
	if err != nil {
		log.Printf("Failed to list departments: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list departments")
		return
	}

	respondJSON(w, http.StatusOK, departments)
}
