package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// TicketStatus is the normalized classification of a record's status code.
type TicketStatus string

const (
	StatusUnpaid          TicketStatus = "UNPAID"
	StatusAwaitingCheckIn TicketStatus = "AWAITING_CHECK_IN"
	StatusCheckedIn       TicketStatus = "CHECKED_IN"
	StatusUnknown         TicketStatus = "UNKNOWN"
)

// Status labels shown on the dashboard and in the table.
const (
	LabelUnpaid          = "Unpaid"
	LabelAwaitingCheckIn = "Awaiting Check-in"
	LabelCheckedIn       = "Check In"
	LabelUnknown         = "Unknown"
)

// ClassifyStatus maps a raw status code onto the closed status set.
// Comparison is case-insensitive and ignores surrounding whitespace.
func ClassifyStatus(raw string) TicketStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0":
		return StatusUnpaid
	case "1":
		return StatusAwaitingCheckIn
	case "check in":
		return StatusCheckedIn
	default:
		return StatusUnknown
	}
}

// IsValid reports whether s is one of the known statuses.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusAwaitingCheckIn, StatusCheckedIn, StatusUnknown:
		return true
	}
	return false
}

// Label returns the human readable label for the status.
func (s TicketStatus) Label() string {
	switch s {
	case StatusUnpaid:
		return LabelUnpaid
	case StatusAwaitingCheckIn:
		return LabelAwaitingCheckIn
	case StatusCheckedIn:
		return LabelCheckedIn
	default:
		return LabelUnknown
	}
}

// TicketRecord is one participant/order entry as delivered by the
// participants endpoint. Every field decodes leniently.
type TicketRecord struct {
	ID         LooseString `json:"id"`
	Name       LooseString `json:"name"`
	Email      LooseString `json:"email"`
	WhatsApp   LooseString `json:"whatsapp"`
	EventID    LooseString `json:"event_id"`
	TypeTicket LooseString `json:"type_ticket"`
	DateTicket LooseString `json:"date_ticket"`
	Qty        LooseNumber `json:"qty"`
	TotalPaid  LooseNumber `json:"total_paid"`
	OrderID    LooseString `json:"order_id"`
	QRCode     LooseString `json:"qr_code"`
	IsPaid     LooseNumber `json:"ispaid"`
	DatePaid   LooseString `json:"date_paid"`
	Status     LooseString `json:"status"`
	ClockIn    LooseString `json:"clock_in"`
	CreatedAt  LooseString `json:"created_at"`
	ExpiresAt  LooseString `json:"expires_at"`
}

// Classify returns the record's normalized status.
func (r TicketRecord) Classify() TicketStatus {
	return ClassifyStatus(r.Status.String())
}

// HasClockIn reports whether the holder has physically checked in.
func (r TicketRecord) HasClockIn() bool {
	return r.ClockIn != ""
}

// IsSold reports whether the record counts toward sold tickets and revenue.
func (r TicketRecord) IsSold() bool {
	return r.Classify() == StatusAwaitingCheckIn || r.HasClockIn()
}

// MaxQuantity is the largest qty a single record may carry. Larger and
// negative values are malformed and count as zero, which also keeps the
// summary sums inside int64.
const MaxQuantity = math.MaxInt32

var maxQuantity = decimal.NewFromInt(MaxQuantity)

// Quantity returns qty truncated to a whole number of tickets.
func (r TicketRecord) Quantity() int64 {
	if r.Qty.IsNegative() || r.Qty.GreaterThan(maxQuantity) {
		return 0
	}
	return r.Qty.IntPart()
}

// Paid returns the amount paid for the record.
func (r TicketRecord) Paid() decimal.Decimal {
	return r.TotalPaid.Decimal
}

// ParticipantPage is the participants endpoint payload. Page metadata is
// optional and only passed through.
type ParticipantPage struct {
	Page       int            `json:"page,omitempty"`
	PageSize   int            `json:"pageSize,omitempty"`
	TotalData  int            `json:"totalData,omitempty"`
	TotalPages int            `json:"totalPages,omitempty"`
	Data       []TicketRecord `json:"data"`
}
