// Package presenter converts core values into the JSON shapes served by the
// HTTP and websocket adapters.
package presenter

import (
	"encoding/json"
	"time"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/shopspring/decimal"
)

// TypeStatDTO is one entry of the per-type grid.
type TypeStatDTO struct {
	Type      string      `json:"type"`
	Count     int64       `json:"count"`
	TotalPaid json.Number `json:"totalPaid"`
}

// DateStatDTO is one bar of the per-date chart.
type DateStatDTO struct {
	Date      string      `json:"date"`
	Count     int64       `json:"count"`
	TotalPaid json.Number `json:"totalPaid"`
}

// StatusSliceDTO is one slice of the status chart.
type StatusSliceDTO struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// SummaryDTO is the JSON form of domain.Summary.
type SummaryDTO struct {
	RecordCount     int              `json:"recordCount"`
	SoldTicketCount int64            `json:"soldTicketCount"`
	TotalRevenue    json.Number      `json:"totalRevenue"`
	CheckedInCount  int64            `json:"checkedInCount"`
	AwaitingCount   int64            `json:"awaitingCount"`
	UnpaidCount     int64            `json:"unpaidCount"`
	ConversionRate  float64          `json:"conversionRate"`
	ByType          []TypeStatDTO    `json:"byType"`
	ByDate          []DateStatDTO    `json:"byDate"`
	StatusBreakdown []StatusSliceDTO `json:"statusBreakdown"`
}

// SnapshotDTO is a summary together with the refresh that produced it.
type SnapshotDTO struct {
	Generation uint64     `json:"generation"`
	ComputedAt time.Time  `json:"computedAt"`
	Summary    SummaryDTO `json:"summary"`
}

// number renders a decimal as an exact JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// ToSummaryDTO converts a summary.
func ToSummaryDTO(s domain.Summary) SummaryDTO {
	dto := SummaryDTO{
		RecordCount:     s.RecordCount,
		SoldTicketCount: s.SoldTicketCount,
		TotalRevenue:    number(s.TotalRevenue),
		CheckedInCount:  s.CheckedInCount,
		AwaitingCount:   s.AwaitingCount,
		UnpaidCount:     s.UnpaidCount,
		ConversionRate:  s.ConversionRate,
		ByType:          make([]TypeStatDTO, 0, len(s.ByType)),
		ByDate:          make([]DateStatDTO, 0, len(s.ByDate)),
		StatusBreakdown: make([]StatusSliceDTO, 0, len(s.StatusBreakdown)),
	}

	for _, t := range s.ByType {
		dto.ByType = append(dto.ByType, TypeStatDTO{Type: t.Type, Count: t.Count, TotalPaid: number(t.TotalPaid)})
	}
	for _, d := range s.ByDate {
		dto.ByDate = append(dto.ByDate, DateStatDTO{Date: d.Date, Count: d.Count, TotalPaid: number(d.TotalPaid)})
	}
	for _, slice := range s.StatusBreakdown {
		dto.StatusBreakdown = append(dto.StatusBreakdown, StatusSliceDTO{Label: slice.Label, Value: slice.Value})
	}

	return dto
}

// ToSnapshotDTO converts a stored snapshot.
func ToSnapshotDTO(s *ports.SummarySnapshot) SnapshotDTO {
	return SnapshotDTO{
		Generation: s.Generation,
		ComputedAt: s.ComputedAt,
		Summary:    ToSummaryDTO(s.Summary),
	}
}

// EventDTO is the websocket envelope.
type EventDTO struct {
	Type       domain.EventType `json:"type"`
	Generation uint64           `json:"generation,omitempty"`
	Payload    interface{}      `json:"payload,omitempty"`
}

// ToEventDTO converts an event, rendering snapshot payloads as SnapshotDTO.
func ToEventDTO(e domain.Event) EventDTO {
	dto := EventDTO{Type: e.Type, Generation: e.Generation, Payload: e.Payload}

	switch p := e.Payload.(type) {
	case *ports.SummarySnapshot:
		if p != nil {
			dto.Payload = ToSnapshotDTO(p)
		}
	case ports.SummarySnapshot:
		dto.Payload = ToSnapshotDTO(&p)
	}

	return dto
}

// TicketRowDTO is one row of the ticket table.
type TicketRowDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	WhatsApp    string      `json:"whatsapp"`
	EventID     string      `json:"event_id"`
	TypeTicket  string      `json:"type_ticket"`
	DateTicket  string      `json:"date_ticket"`
	Qty         json.Number `json:"qty"`
	TotalPaid   json.Number `json:"total_paid"`
	OrderID     string      `json:"order_id"`
	QRCode      string      `json:"qr_code"`
	IsPaid      json.Number `json:"ispaid"`
	DatePaid    string      `json:"date_paid"`
	Status      string      `json:"status"`
	ClockIn     string      `json:"clock_in"`
	CreatedAt   string      `json:"created_at"`
	ExpiresAt   string      `json:"expires_at"`
	StatusCode  string      `json:"statusCode"`
	StatusLabel string      `json:"statusLabel"`
}

// ToTicketRowDTO converts a table row.
func ToTicketRowDTO(row domain.TableRow) TicketRowDTO {
	r := row.Record
	return TicketRowDTO{
		ID:          r.ID.String(),
		Name:        r.Name.String(),
		Email:       r.Email.String(),
		WhatsApp:    r.WhatsApp.String(),
		EventID:     r.EventID.String(),
		TypeTicket:  r.TypeTicket.String(),
		DateTicket:  r.DateTicket.String(),
		Qty:         number(r.Qty.Decimal),
		TotalPaid:   number(r.TotalPaid.Decimal),
		OrderID:     r.OrderID.String(),
		QRCode:      r.QRCode.String(),
		IsPaid:      number(r.IsPaid.Decimal),
		DatePaid:    r.DatePaid.String(),
		Status:      r.Status.String(),
		ClockIn:     r.ClockIn.String(),
		CreatedAt:   r.CreatedAt.String(),
		ExpiresAt:   r.ExpiresAt.String(),
		StatusCode:  string(row.Status),
		StatusLabel: row.Status.Label(),
	}
}

// PaginationDTO describes the current page of the table.
type PaginationDTO struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// TablePageDTO is the ticket table response.
type TablePageDTO struct {
	Data       []TicketRowDTO `json:"data"`
	Pagination PaginationDTO  `json:"pagination"`
}

// ToTablePageDTO converts a table page.
func ToTablePageDTO(p *domain.TablePage) TablePageDTO {
	rows := make([]TicketRowDTO, 0, len(p.Rows))
	for _, row := range p.Rows {
		rows = append(rows, ToTicketRowDTO(row))
	}
	return TablePageDTO{
		Data: rows,
		Pagination: PaginationDTO{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalItems: p.TotalItems,
			TotalPages: p.TotalPages,
		},
	}
}

// FiltersDTO lists the table dropdown options.
type FiltersDTO struct {
	Types []string `json:"types"`
	Dates []string `json:"dates"`
}

// ToFiltersDTO converts the filter options.
func ToFiltersDTO(f *domain.TableFilters) FiltersDTO {
	return FiltersDTO{Types: f.Types, Dates: f.Dates}
}
