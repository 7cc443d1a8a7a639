package services_test

import (
	"context"
	"testing"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/mocks"
	"github.com/lorrc/ticket-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketTableService_List(t *testing.T) {
	ctx := context.Background()
	records := []domain.TicketRecord{
		{Name: "Alice", TypeTicket: "VIP", DateTicket: "2025-01-02", Status: "1"},
		{Name: "Bob", TypeTicket: "Regular", DateTicket: "2025-01-01", Status: "0"},
	}

	t.Run("filters by type", func(t *testing.T) {
		source := mocks.NewMockParticipantSource()
		svc := services.NewTicketTableService(source)
		source.On("FetchParticipants", ctx).Return(&domain.ParticipantPage{Data: records}, nil)

		page, err := svc.List(ctx, domain.TableQuery{Type: "vip"})

		require.NoError(t, err)
		require.Len(t, page.Rows, 1)
		assert.Equal(t, "Alice", page.Rows[0].Record.Name.String())
		assert.Equal(t, domain.StatusAwaitingCheckIn, page.Rows[0].Status)
	})

	t.Run("invalid query skips fetch", func(t *testing.T) {
		source := mocks.NewMockParticipantSource()
		svc := services.NewTicketTableService(source)

		page, err := svc.List(ctx, domain.TableQuery{SortKey: "password"})

		assert.Nil(t, page)
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)
		source.AssertNotCalled(t, "FetchParticipants")
	})

	t.Run("upstream failure", func(t *testing.T) {
		source := mocks.NewMockParticipantSource()
		svc := services.NewTicketTableService(source)
		source.On("FetchParticipants", ctx).Return(nil, &apperrors.UpstreamStatusError{StatusCode: 500})

		_, err := svc.List(ctx, domain.TableQuery{})

		assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
	})
}

func TestTicketTableService_Filters(t *testing.T) {
	ctx := context.Background()
	source := mocks.NewMockParticipantSource()
	svc := services.NewTicketTableService(source)
	source.On("FetchParticipants", ctx).Return(&domain.ParticipantPage{Data: []domain.TicketRecord{
		{TypeTicket: "VIP", DateTicket: "2025-01-02"},
		{TypeTicket: "Regular", DateTicket: "2025-01-01"},
		{TypeTicket: "VIP", DateTicket: " "},
	}}, nil)

	filters, err := svc.Filters(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Regular", "VIP"}, filters.Types)
	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, filters.Dates)
}
