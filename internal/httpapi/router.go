// Package httpapi exposes the resolver over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates an HTTP handler with all routes registered.
// Middleware is applied globally in the order given, after request IDs and
// panic recovery.
func NewRouter(planHandler *PlanHandler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health/live", Liveness)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/plans", planHandler.CreatePlan)
	})

	return r
}

// Liveness handles GET /health/live. Always returns 200 OK.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
