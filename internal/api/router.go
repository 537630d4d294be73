// Package api wires the HTTP routes of the dashboard.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/spending-dashboard/internal/api/handlers"
	"github.com/dvloznov/spending-dashboard/internal/api/middleware"
)

// NewRouter builds the dashboard router with its middleware stack.
func NewRouter(transactions *handlers.TransactionsHandler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/monthly", transactions.Monthly)
		r.Get("/month/{year}/{month}", transactions.Month)
		r.Post("/refresh", transactions.Refresh)
	})

	r.Get("/health", handlers.Health)

	return r
}
