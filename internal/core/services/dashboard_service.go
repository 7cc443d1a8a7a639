package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// DashboardService runs the fetch-then-aggregate pipeline and keeps the
// most recent summary.
type DashboardService struct {
	source      ports.ParticipantSource
	broadcaster ports.SummaryBroadcaster
	logger      *slog.Logger
	now         func() time.Time

	// generation numbers refreshes in the order they started
	generation atomic.Uint64

	mu     sync.RWMutex
	latest *ports.SummarySnapshot
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a dashboard service. broadcaster may be nil.
func NewDashboardService(
	source ports.ParticipantSource,
	broadcaster ports.SummaryBroadcaster,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		source:      source,
		broadcaster: broadcaster,
		logger:      logger.With("component", "dashboard_service"),
		now:         time.Now,
	}
}

// Refresh fetches and aggregates the dataset. A failed fetch leaves the
// stored snapshot untouched. When a refresh that started later has
// already finished, its snapshot is kept and returned instead.
func (s *DashboardService) Refresh(ctx context.Context) (*ports.SummarySnapshot, error) {
	gen := s.generation.Add(1)

	page, err := s.source.FetchParticipants(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard refresh failed",
			"generation", gen,
			"error", err,
		)
		return nil, fmt.Errorf("refresh dashboard: %w", err)
	}

	snapshot := &ports.SummarySnapshot{
		Summary:    domain.Aggregate(page.Data),
		Generation: gen,
		ComputedAt: s.now().UTC(),
	}

	current, stored := s.store(snapshot)
	if !stored {
		s.logger.DebugContext(ctx, "discarding stale summary",
			"generation", gen,
			"latest_generation", current.Generation,
		)
		return current, nil
	}

	s.logger.InfoContext(ctx, "dashboard summary refreshed",
		"generation", gen,
		"records", snapshot.Summary.RecordCount,
		"sold", snapshot.Summary.SoldTicketCount,
	)

	if s.broadcaster != nil {
		if err := s.broadcaster.Broadcast(domain.Event{
			Type:       domain.EventSummaryUpdated,
			Generation: gen,
			Payload:    snapshot,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to broadcast summary", "error", err)
		}
	}

	return snapshot, nil
}

// Latest returns the stored snapshot or ErrSummaryUnavailable.
func (s *DashboardService) Latest() (*ports.SummarySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, apperrors.ErrSummaryUnavailable
	}
	return s.latest, nil
}

// Run refreshes on every tick until ctx is cancelled. A non-positive
// interval disables polling.
func (s *DashboardService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("dashboard poller started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dashboard poller stopped")
			return
		case <-ticker.C:
			// Errors are already logged by Refresh
			_, _ = s.Refresh(ctx)
		}
	}
}

// store keeps snapshot if it is newer than the current one and returns
// whichever snapshot is current afterwards.
func (s *DashboardService) store(snapshot *ports.SummarySnapshot) (*ports.SummarySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != nil && s.latest.Generation > snapshot.Generation {
		return s.latest, false
	}
	s.latest = snapshot
	return snapshot, true
}
