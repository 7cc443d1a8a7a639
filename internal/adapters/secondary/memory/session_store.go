// Package memory holds process-local adapters used when no database is
// configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// SessionStore keeps sessions in a map. Sessions are lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]domain.Session
}

var (
	_ ports.SessionStore  = (*SessionStore)(nil)
	_ ports.SessionPurger = (*SessionStore)(nil)
)

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]domain.Session)}
}

// Load returns a copy of the session or ErrSessionNotFound.
func (s *SessionStore) Load(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session, nil
}

// Save inserts or replaces the session.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

// Clear removes the session if present.
func (s *SessionStore) Clear(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Ping always succeeds.
func (s *SessionStore) Ping(context.Context) error {
	return nil
}

// PurgeExpired drops every session that has ended at now.
func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
