package http

import (
	"net/http"

	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// ParticipantsHandler relays the upstream participants body to the browser
// so the upstream token never leaves the server.
type ParticipantsHandler struct {
	source       ports.ParticipantSource
	errorHandler *ErrorHandler
}

// NewParticipantsHandler creates a new relay handler
func NewParticipantsHandler(source ports.ParticipantSource, errorHandler *ErrorHandler) *ParticipantsHandler {
	return &ParticipantsHandler{source: source, errorHandler: errorHandler}
}

// ServeHTTP forwards the raw upstream JSON.
func (h *ParticipantsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := h.source.FetchRaw(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteRawJSON(w, http.StatusOK, body, map[string]string{"Cache-Control": "no-store"})
}
