/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Client routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Get("/{id}/assignments", h.ListAssignments)
			r.Post("/{id}/assignments", h.CreateAssignment)
			r.Get("/{id}/revenue", h.ClientRevenue)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/summary", h.PayrollSummary)
		})

		// Exchange rate routes
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.GetRates)
			r.Put("/", h.PutRates)
		})
	})

	return r
}
