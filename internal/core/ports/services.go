package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Session *domain.Session
	Token   string
}

// AuthService defines the port for operator authentication.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// TokenManager issues and validates session tokens.
type TokenManager interface {
	GenerateToken(sessionID uuid.UUID, email string, expiresAt time.Time) (string, error)
	SessionIDFromToken(token string) (uuid.UUID, error)
}

// CredentialVerifier checks an email/password pair against the configured operator.
type CredentialVerifier interface {
	Verify(email, password string) bool
}

// SummarySnapshot is a computed summary with the refresh that produced it.
type SummarySnapshot struct {
	Summary    domain.Summary
	Generation uint64
	ComputedAt time.Time
}

// DashboardService defines the fetch-then-aggregate pipeline.
type DashboardService interface {
	// Refresh fetches the dataset, aggregates it and stores the result if
	// no newer refresh has completed in the meantime.
	Refresh(ctx context.Context) (*SummarySnapshot, error)
	// Latest returns the most recent stored snapshot.
	Latest() (*SummarySnapshot, error)
	// Run refreshes every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

// TicketTableService defines the port for the ticket table view.
type TicketTableService interface {
	List(ctx context.Context, query domain.TableQuery) (*domain.TablePage, error)
	Filters(ctx context.Context) (*domain.TableFilters, error)
}
