package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	mw "github.com/lorrc/ticket-dashboard/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/lorrc/ticket-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-dashboard/internal/config"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// WebSocketHandler handles WebSocket connection upgrades
type WebSocketHandler struct {
	hub          *wsAdapter.Hub
	authService  ports.AuthService
	errorHandler *ErrorHandler
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	authService ports.AuthService,
	errorHandler *ErrorHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub:          hub,
		authService:  authService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "websocket"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker allows every origin in development and otherwise only
// the configured ones. Requests without an Origin header are not browsers
// and are let through.
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins
	development := cfg.IsDevelopment()

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || development {
			return true
		}

		if originAllowed(origin, allowedOrigins) {
			return true
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
		)
		return false
	}
}

// originAllowed matches origin against entries that are either full
// origins ("https://dash.example.com"), bare hosts, or wildcard
// subdomains ("*.example.com").
func originAllowed(origin string, allowed []string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host

	for _, entry := range allowed {
		switch {
		case entry == "*":
			return true
		case strings.HasPrefix(entry, "*."):
			if strings.HasSuffix(host, entry[1:]) || host == entry[2:] {
				return true
			}
		case strings.EqualFold(entry, origin), strings.EqualFold(entry, host):
			return true
		}
	}
	return false
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	// 1. Authenticate the connection. Browsers cannot set headers on the
	// upgrade request, so the token may also arrive as a query parameter.
	tokenString, ok := mw.BearerToken(r)
	if !ok {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		h.logger.Warn("websocket connection rejected: missing token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		h.errorHandler.Handle(w, r, errUnauthenticated)
		return
	}

	session, err := h.authService.Authenticate(r.Context(), tokenString)
	if err != nil {
		h.logger.Warn("websocket connection rejected: invalid session",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		h.errorHandler.Handle(w, r, err)
		return
	}

	// 2. Upgrade the connection
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"session_id", session.ID,
			"error", err,
		)
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"session_id", session.ID,
		"remote_addr", r.RemoteAddr,
	)

	// 3. Create and register the new client
	client := wsAdapter.NewClient(h.hub, conn, session.ID, session.Email, h.logger)
	if !h.hub.Add(client) {
		_ = conn.Close()
		return
	}

	// 4. Start the I/O pumps in new goroutines
	go client.WritePump()
	go client.ReadPump()
}
