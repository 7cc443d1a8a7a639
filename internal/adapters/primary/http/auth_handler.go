package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/lorrc/ticket-dashboard/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-dashboard/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// SessionDisconnector closes the live connections opened under a session.
type SessionDisconnector interface {
	DisconnectSession(sessionID uuid.UUID) int
}

// AuthHandler handles operator sign-in and sign-out.
type AuthHandler struct {
	authService  ports.AuthService
	connections  SessionDisconnector
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. connections may be nil.
func NewAuthHandler(authService ports.AuthService, connections SessionDisconnector, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		connections:  connections,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterPublicRoutes registers the routes that need no session.
// loginLimiter may be nil.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	if loginLimiter != nil {
		r.With(loginLimiter).Post("/login", h.HandleLogin)
		return
	}
	r.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes behind SessionAuth.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.HandleLogout)
	r.Get("/me", h.HandleMe)
}

// bcrypt ignores input past 72 bytes.
const (
	maxEmailLength    = 254
	maxPasswordLength = 72
)

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO identifies the signed-in operator.
type UserDTO struct {
	Email string `json:"email"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// HandleLogin signs the operator in.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](w, r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator().
		Required("email", req.Email).
		Email("email", req.Email).
		MaxLength("email", req.Email, maxEmailLength).
		Required("password", req.Password).
		MaxLength("password", req.Password, maxPasswordLength)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.Info("operator signed in",
		"request_id", GetRequestID(r.Context()),
		"session_id", result.Session.ID,
	)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      UserDTO{Email: result.Session.Email},
	})
}

// HandleLogout clears the current session and closes its websocket connections.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.SessionFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, errUnauthenticated)
		return
	}

	if err := h.authService.Logout(r.Context(), session.ID); HandleError(w, r, err, h.errorHandler) {
		return
	}

	if h.connections != nil {
		h.connections.DisconnectSession(session.ID)
	}

	WriteNoContent(w)
}

// HandleMe returns the signed-in operator.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.SessionFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, errUnauthenticated)
		return
	}

	WriteJSON(w, http.StatusOK, UserDTO{Email: session.Email})
}
