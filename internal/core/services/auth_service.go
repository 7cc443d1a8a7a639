package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// AuthService implements operator authentication backed by a SessionStore
type AuthService struct {
	credentials ports.CredentialVerifier
	tokens      ports.TokenManager
	sessions    ports.SessionStore
	sessionTTL  time.Duration
	now         func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(
	credentials ports.CredentialVerifier,
	tokens ports.TokenManager,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Login checks the credentials, saves a new session and issues its token
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	errs := apperrors.NewValidationErrors()
	if strings.TrimSpace(email) == "" {
		errs.Add("email", apperrors.ErrEmailRequired.Error())
	}
	if password == "" {
		errs.Add("password", apperrors.ErrPasswordRequired.Error())
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if !s.credentials.Verify(email, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	session := domain.NewSession(email, s.sessionTTL)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokens.GenerateToken(session.ID, session.Email, session.ExpiresAt)
	if err != nil {
		// Don't leave an orphaned session behind
		_ = s.sessions.Clear(ctx, session.ID)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &ports.LoginResult{Session: session, Token: token}, nil
}

// Authenticate resolves a token to its live session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, err := s.tokens.SessionIDFromToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if session.IsExpired(s.now()) {
		_ = s.sessions.Clear(ctx, session.ID)
		return nil, apperrors.ErrSessionExpired
	}

	return session, nil
}

// Logout ends the session. Logging out twice is not an error
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
