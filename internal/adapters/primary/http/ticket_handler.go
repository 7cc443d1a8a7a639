package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/presenter"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// TicketHandler serves the searchable ticket table.
type TicketHandler struct {
	tickets      ports.TicketTableService
	errorHandler *ErrorHandler
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets ports.TicketTableService, errorHandler *ErrorHandler) *TicketHandler {
	return &TicketHandler{
		tickets:      tickets,
		errorHandler: errorHandler,
	}
}

// RegisterRoutes sets up the routing for the ticket table.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Get("/filters", h.HandleFilters)
}

// HandleListTickets returns one page of the filtered, sorted table.
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	query, err := validation.ParseTableQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	page, err := h.tickets.List(r.Context(), query)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, presenter.ToTablePageDTO(page))
}

// HandleFilters returns the type and date dropdown options.
func (h *TicketHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.tickets.Filters(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, presenter.ToFiltersDTO(filters))
}
