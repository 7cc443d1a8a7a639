package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// DBTX is an interface that matches both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// SessionStore persists sessions in the sessions table.
type SessionStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

var (
	_ ports.SessionStore  = (*SessionStore)(nil)
	_ ports.SessionPurger = (*SessionStore)(nil)
)

// NewSessionStore creates a session store on pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: pool, pool: pool}
}

// Load returns the session or ErrSessionNotFound.
func (s *SessionStore) Load(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	const query = `
		SELECT id, email, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`

	var (
		pgID      pgtype.UUID
		session   domain.Session
		createdAt pgtype.Timestamptz
		expiresAt pgtype.Timestamptz
	)

	err := s.db.QueryRow(ctx, query, toPgUUID(id)).Scan(&pgID, &session.Email, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.ID = pgID.Bytes
	session.CreatedAt = fromTimestamptz(createdAt)
	session.ExpiresAt = fromTimestamptz(expiresAt)
	return &session, nil
}

// Save inserts the session or replaces the stored one with the same id.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	const query = `
		INSERT INTO sessions (id, email, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.Exec(ctx, query,
		toPgUUID(session.ID),
		session.Email,
		toTimestamptz(session.CreatedAt),
		toTimestamptz(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the session. A missing row is not an error.
func (s *SessionStore) Clear(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, toPgUUID(id)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session that has ended at now.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, toTimestamptz(now))
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping checks the connection for the readiness probe.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
