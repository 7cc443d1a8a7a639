package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/lorrc/ticket-dashboard/internal/infrastructure/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionKey is the key used to store the operator session in the request context.
const SessionKey contextKey = "session"

// SessionAuth resolves the bearer token to a live session.
func SessionAuth(authService ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeAppError(w, apperrors.NewUnauthorizedError("Authorization header format must be Bearer {token}"))
				return
			}

			session, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrSessionExpired):
					writeAppError(w, apperrors.NewSessionExpiredError())
				case errors.Is(err, apperrors.ErrUnauthorized):
					writeAppError(w, apperrors.NewUnauthorizedError("Invalid or expired token"))
				default:
					writeAppError(w, apperrors.NewInternalError(err))
				}
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = logging.WithSession(ctx, session.ID.String(), session.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// SessionFromContext returns the session stored by SessionAuth.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}

// writeAppError renders appErr in the same envelope as the HTTP error handler,
// which middleware cannot import.
func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	body := map[string]interface{}{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(body)
}
