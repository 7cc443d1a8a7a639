package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a signed-in operator.
type Session struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession starts a session for email that lasts ttl.
func NewSession(email string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has ended at t.
func (s *Session) IsExpired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
