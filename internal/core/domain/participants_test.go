package domain_test

import (
	"testing"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeParticipantPage(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		body := []byte(`{
			"page": 1, "pageSize": "100", "totalData": 2, "totalPages": 1,
			"data": [
				{"id": 7, "name": "Alice", "qty": "2", "total_paid": 150000, "status": "1", "clock_in": null, "type_ticket": "VIP", "date_ticket": "2025-05-01"},
				{"id": "8", "name": "Bob", "qty": 1, "total_paid": "abc", "status": "check in", "clock_in": "2025-05-01T10:00:00"}
			]
		}`)

		page, err := domain.DecodeParticipantPage(body)

		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 100, page.PageSize)
		assert.Equal(t, 2, page.TotalData)
		require.Len(t, page.Data, 2)

		alice := page.Data[0]
		assert.Equal(t, "7", alice.ID.String())
		assert.Equal(t, int64(2), alice.Quantity())
		assert.Equal(t, "150000", alice.Paid().String())
		assert.False(t, alice.HasClockIn())

		bob := page.Data[1]
		assert.True(t, bob.Paid().IsZero())
		assert.Equal(t, domain.StatusCheckedIn, bob.Classify())
		assert.True(t, bob.HasClockIn())
	})

	t.Run("missing data is empty", func(t *testing.T) {
		page, err := domain.DecodeParticipantPage([]byte(`{"message": "ok"}`))

		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})

	t.Run("non-array data is empty", func(t *testing.T) {
		page, err := domain.DecodeParticipantPage([]byte(`{"data": {"id": 1}}`))

		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})

	t.Run("non-object payload is empty", func(t *testing.T) {
		page, err := domain.DecodeParticipantPage([]byte(`[1, 2, 3]`))

		require.NoError(t, err)
		assert.Empty(t, page.Data)
	})

	t.Run("non-object elements decode as empty records", func(t *testing.T) {
		page, err := domain.DecodeParticipantPage([]byte(`{"data": [42, null, {"name": "Carol"}]}`))

		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.Equal(t, domain.TicketRecord{}, page.Data[0])
		assert.Equal(t, "Carol", page.Data[2].Name.String())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		page, err := domain.DecodeParticipantPage([]byte(`<html>gateway timeout</html>`))

		assert.Nil(t, page)
		assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	})
}
