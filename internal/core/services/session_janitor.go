package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// SessionJanitor periodically removes expired sessions so the store does
// not grow with abandoned logins.
type SessionJanitor struct {
	purger ports.SessionPurger
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionJanitor creates a janitor over purger.
func NewSessionJanitor(purger ports.SessionPurger, logger *slog.Logger) *SessionJanitor {
	return &SessionJanitor{
		purger: purger,
		logger: logger.With("component", "session_janitor"),
		now:    time.Now,
	}
}

// Sweep removes the sessions that have expired by now.
func (j *SessionJanitor) Sweep(ctx context.Context) (int64, error) {
	removed, err := j.purger.PurgeExpired(ctx, j.now())
	if err != nil {
		j.logger.WarnContext(ctx, "session sweep failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		j.logger.DebugContext(ctx, "expired sessions removed", "count", removed)
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled. A non-positive
// interval disables sweeping.
func (j *SessionJanitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = j.Sweep(ctx)
		}
	}
}
