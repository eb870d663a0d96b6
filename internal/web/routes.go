package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jsetina/faceclock/internal/web/handlers"
)

func (s *Server) setupRoutes(recorder handlers.RecorderService, evidenceDir string) {
	// Create handlers
	statsHandler := handlers.NewStatsHandler(s.db)
	attendanceHandler := handlers.NewAttendanceHandler(recorder, statsHandler)
	employeesHandler := handlers.NewEmployeesHandler(s.db)
	logsHandler := handlers.NewLogsHandler(s.db)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Recognition flows
		r.Post("/attendance", attendanceHandler.Record)
		r.Post("/register", attendanceHandler.Register)
		r.Post("/reload", attendanceHandler.Reload)

		// Employees
		r.Get("/employees", employeesHandler.List)
		r.Get("/departments", employeesHandler.Departments)

		// Attendance logs
		r.Get("/attendance-logs", logsHandler.List)

		// Stats
		r.Get("/stats/summary", statsHandler.Summary)
		r.Get("/stats/monthly", statsHandler.Monthly)
		r.Get("/stats/departments", statsHandler.Departments)
		r.Get("/stats/ranking", statsHandler.Ranking)
	})

	// Serve stored face crops referenced by attendance logs
	s.router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(evidenceDir))))
}
