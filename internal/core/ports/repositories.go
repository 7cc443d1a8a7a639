package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
)

// SessionStore persists signed-in operator sessions.
type SessionStore interface {
	// Load returns the session or errors.ErrSessionNotFound.
	Load(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	// Clear removes the session. Clearing a missing session is not an error.
	Clear(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// SessionPurger removes sessions that have expired.
type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ParticipantSource supplies the participants dataset.
type ParticipantSource interface {
	// FetchParticipants returns the decoded dataset. An upstream 404 is an
	// empty dataset, not an error.
	FetchParticipants(ctx context.Context) (*domain.ParticipantPage, error)
	// FetchRaw returns the upstream JSON body unchanged.
	FetchRaw(ctx context.Context) ([]byte, error)
	Configured() bool
}

// SummaryBroadcaster pushes real-time events to connected dashboards.
type SummaryBroadcaster interface {
	Broadcast(event domain.Event) error
}
