// Package api exposes the materials summary and health checks over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joao-brasil/stock-overview/internal/health"
	"github.com/joao-brasil/stock-overview/internal/inventory"
)

// SummaryFetcher returns the materials summary.
type SummaryFetcher interface {
	FetchMaterialsSummary(ctx context.Context) ([]inventory.MaterialSummary, error)
}

// NewRouter wires the handlers and returns the chi router.
func NewRouter(summary SummaryFetcher, checker *health.Checker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(zerologMiddleware)
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handlers{summary: summary, checker: checker}

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/materials-summary", h.materialsSummary)
		r.Get("/health", h.health)
		r.Get("/health/live", handleLive)
		r.Get("/health/ready", h.ready)
	})

	return r
}

func handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
