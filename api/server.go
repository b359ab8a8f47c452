/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the monitor's HTTP router (chi), middleware stack and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       cross-origin requests for dashboards

ROUTES:
  /api/status    /api/requests    /api/stock    /api/journal
  /api/stats     /healthz

SECURITY NOTE:
  No authentication middleware. The monitor is read-only and intended
  for localhost use alongside the simulation.

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/simd/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all monitor routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Get("/requests", h.GetRequests)
		r.Get("/stock", h.GetStock)
		r.Get("/journal", h.GetJournal)
		r.Get("/stats", h.GetStats)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
