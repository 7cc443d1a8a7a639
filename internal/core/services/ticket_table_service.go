package services

import (
	"context"
	"fmt"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// TicketTableService serves the searchable ticket table from the raw dataset.
type TicketTableService struct {
	source ports.ParticipantSource
}

var _ ports.TicketTableService = (*TicketTableService)(nil)

// NewTicketTableService creates a new ticket table service
func NewTicketTableService(source ports.ParticipantSource) *TicketTableService {
	return &TicketTableService{source: source}
}

// List returns one page of filtered, sorted records.
func (s *TicketTableService) List(ctx context.Context, query domain.TableQuery) (*domain.TablePage, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	page, err := s.source.FetchParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	result := domain.QueryTable(page.Data, query)
	return &result, nil
}

// Filters returns the dropdown options for the table.
func (s *TicketTableService) Filters(ctx context.Context) (*domain.TableFilters, error) {
	page, err := s.source.FetchParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ticket filters: %w", err)
	}

	filters := domain.BuildTableFilters(page.Data)
	return &filters, nil
}
