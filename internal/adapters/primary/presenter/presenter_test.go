package presenter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSummaryDTO_JSON(t *testing.T) {
	summary := domain.Aggregate([]domain.TicketRecord{
		{Status: "1", Qty: domain.NewLooseNumber(2), TotalPaid: domain.ParseLooseNumber("100.10"), TypeTicket: "VIP", DateTicket: "2025-01-01"},
		{Status: "0", Qty: domain.NewLooseNumber(2)},
	})

	out, err := json.Marshal(ToSummaryDTO(summary))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"recordCount": 2,
		"soldTicketCount": 2,
		"totalRevenue": 100.1,
		"checkedInCount": 0,
		"awaitingCount": 2,
		"unpaidCount": 2,
		"conversionRate": 50,
		"byType": [{"type": "VIP", "count": 2, "totalPaid": 100.1}],
		"byDate": [{"date": "2025-01-01", "count": 2, "totalPaid": 100.1}],
		"statusBreakdown": [{"label": "Check In", "value": 0}, {"label": "Awaiting Check-in", "value": 2}]
	}`, string(out))
}

func TestToSummaryDTO_EmptyArrays(t *testing.T) {
	out, err := json.Marshal(ToSummaryDTO(domain.Aggregate(nil)))
	require.NoError(t, err)

	assert.Contains(t, string(out), `"byType":[]`)
	assert.Contains(t, string(out), `"byDate":[]`)
	assert.Contains(t, string(out), `"totalRevenue":0`)
}

func TestToEventDTO(t *testing.T) {
	snapshot := &ports.SummarySnapshot{
		Summary:    domain.Aggregate(nil),
		Generation: 4,
		ComputedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	dto := ToEventDTO(domain.Event{Type: domain.EventSummaryUpdated, Generation: 4, Payload: snapshot})

	payload, ok := dto.Payload.(SnapshotDTO)
	require.True(t, ok)
	assert.Equal(t, uint64(4), payload.Generation)

	pong := ToEventDTO(domain.Event{Type: domain.EventPong})
	out, err := json.Marshal(pong)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"PONG"}`, string(out))
}

func TestToTablePageDTO(t *testing.T) {
	page := domain.QueryTable([]domain.TicketRecord{
		{ID: "1", Name: "Alice", Status: "check in", Qty: domain.NewLooseNumber(1)},
	}, domain.TableQuery{})

	dto := ToTablePageDTO(&page)

	require.Len(t, dto.Data, 1)
	assert.Equal(t, "Alice", dto.Data[0].Name)
	assert.Equal(t, "CHECKED_IN", dto.Data[0].StatusCode)
	assert.Equal(t, "Check In", dto.Data[0].StatusLabel)
	assert.Equal(t, PaginationDTO{Page: 1, PageSize: domain.DefaultPageSize, TotalItems: 1, TotalPages: 1}, dto.Pagination)
}
