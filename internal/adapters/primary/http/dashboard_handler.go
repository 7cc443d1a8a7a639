package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/presenter"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/validation"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// errUnauthenticated is returned when a protected route runs without a session.
var errUnauthenticated = apperrors.NewUnauthorizedError("Authentication required")

// DashboardHandler serves the summary cards and charts.
type DashboardHandler struct {
	dashboard    ports.DashboardService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard ports.DashboardService, errorHandler *ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard:    dashboard,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes sets up the dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleGetSummary)
	r.Post("/refresh", h.HandleRefresh)
}

// HandleGetSummary fetches and aggregates the dataset. With ?cached=true it
// returns the last stored snapshot instead.
func (h *DashboardHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	var (
		snapshot *ports.SummarySnapshot
		err      error
	)

	if validation.ParseBoolQueryParam(r, "cached", false) {
		snapshot, err = h.dashboard.Latest()
	} else {
		snapshot, err = h.dashboard.Refresh(r.Context())
	}
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, presenter.ToSnapshotDTO(snapshot))
}

// HandleRefresh forces a refresh and returns the new snapshot.
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboard.Refresh(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.Debug("manual refresh",
		"request_id", GetRequestID(r.Context()),
		"generation", snapshot.Generation,
	)

	WriteJSON(w, http.StatusOK, presenter.ToSnapshotDTO(snapshot))
}
