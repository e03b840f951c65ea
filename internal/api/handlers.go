package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/joao-brasil/stock-overview/internal/health"
	"github.com/joao-brasil/stock-overview/internal/inventory"
)

const summaryErrorMessage = "Could not fetch materials summary"

type handlers struct {
	summary SummaryFetcher
	checker *health.Checker
}

// errorBody is the JSON payload for a failed summary request.
type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details"`
}

// materialsSummary handles GET /api/materials-summary.
func (h *handlers) materialsSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.summary.FetchMaterialsSummary(r.Context())
	if err != nil {
		event := log.Error().Str("component", "api").Err(err)
		var summaryErr *inventory.Error
		if errors.As(err, &summaryErr) {
			event = event.Stringer("kind", summaryErr.Kind)
		}
		event.Msg("failed to load materials summary")

		writeJSON(w, http.StatusInternalServerError, errorBody{
			Message: summaryErrorMessage,
			Details: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// health handles GET /api/health.
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	report := h.checker.CheckDatabase(r.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

// ready handles GET /api/health/ready.
func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
