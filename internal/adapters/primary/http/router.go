package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/lorrc/ticket-dashboard/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/lorrc/ticket-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-dashboard/internal/config"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// RouterDeps collects everything the HTTP surface is built from.
// GeneralLimiter, AuthLimiter and Hub may be nil.
type RouterDeps struct {
	Config       *config.Config
	Logger       *slog.Logger
	AuthService  ports.AuthService
	Dashboard    ports.DashboardService
	Tickets      ports.TicketTableService
	Participants ports.ParticipantSource
	Sessions     HealthChecker
	Hub          *wsAdapter.Hub

	GeneralLimiter *mw.RateLimiter
	AuthLimiter    *mw.RateLimiter
}

// NewRouter wires the handlers, middleware and routes.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	errorHandler := NewErrorHandler(logger)

	var connections SessionDisconnector
	if deps.Hub != nil {
		connections = deps.Hub
	}

	authHandler := NewAuthHandler(deps.AuthService, connections, errorHandler, logger)
	dashboardHandler := NewDashboardHandler(deps.Dashboard, errorHandler, logger)
	ticketHandler := NewTicketHandler(deps.Tickets, errorHandler)
	participantsHandler := NewParticipantsHandler(deps.Participants, errorHandler)
	healthHandler := NewHealthHandler(deps.Sessions, deps.Participants, deps.Config.App.Version)

	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	if len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", mw.RequestIDHeader},
			ExposedHeaders:   []string{mw.RequestIDHeader, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if deps.GeneralLimiter != nil {
		r.Use(deps.GeneralLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	var loginLimiter func(http.Handler) http.Handler
	if deps.AuthLimiter != nil {
		loginLimiter = deps.AuthLimiter.Middleware
	}

	r.Route("/api", func(r chi.Router) {
		// Same-origin relay used by the browser dashboard
		r.With(mw.SessionAuth(deps.AuthService)).Get("/participants", participantsHandler.ServeHTTP)

		r.Route("/v1", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				authHandler.RegisterPublicRoutes(r, loginLimiter)
				r.Group(func(r chi.Router) {
					r.Use(mw.SessionAuth(deps.AuthService))
					authHandler.RegisterProtectedRoutes(r)
				})
			})

			// WebSocket route (authentication is handled inside the handler)
			if deps.Hub != nil {
				wsHandler := NewWebSocketHandler(deps.Hub, deps.AuthService, errorHandler, deps.Config, logger)
				r.Get("/ws", wsHandler.ServeHTTP)
			}

			// Protected REST routes
			r.Group(func(r chi.Router) {
				r.Use(mw.SessionAuth(deps.AuthService))
				r.Route("/dashboard", dashboardHandler.RegisterRoutes)
				r.Route("/tickets", ticketHandler.RegisterRoutes)
			})
		})
	})

	return r
}
