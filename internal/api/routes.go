package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the route tree.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	// Roster
	r.Get("/staff", h.ListStaff)
	r.Post("/staff", h.RegisterStaff)
	r.Get("/staff/{id}", h.GetStaff)
	r.Put("/staff/{id}", h.PatchStaff)
	r.Delete("/staff/{id}", h.DeleteStaff)

	// Shift preferences
	r.Post("/shift_pre", h.SubmitPreference)

	// Sales predictions
	r.Get("/pred_sales", h.WeekPredictions)
	r.Post("/pred_sales", h.PredictRange)

	// Scheduling
	r.Post("/shift_ass", h.PlanRange)
	r.Get("/shift_ass_dash_board", h.Dashboard)
	r.Get("/shift_ass_data_main", h.AssignmentsInRange)

	// Daily sales reports
	r.Post("/daily_report", h.DailyReport)

	return r
}
