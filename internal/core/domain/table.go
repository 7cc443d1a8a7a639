package domain

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
)

// Table defaults.
const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
	FilterAll       = "all"
)

// SortDirection orders table rows.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid reports whether d is asc or desc.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// sortColumns maps a sort key to a comparison of two records. Numeric
// columns compare as numbers, every other column compares its raw text.
var sortColumns = map[string]func(a, b TicketRecord) int{
	"id":          byText(func(r TicketRecord) LooseString { return r.ID }),
	"name":        byText(func(r TicketRecord) LooseString { return r.Name }),
	"email":       byText(func(r TicketRecord) LooseString { return r.Email }),
	"whatsapp":    byText(func(r TicketRecord) LooseString { return r.WhatsApp }),
	"event_id":    byText(func(r TicketRecord) LooseString { return r.EventID }),
	"type_ticket": byText(func(r TicketRecord) LooseString { return r.TypeTicket }),
	"date_ticket": byText(func(r TicketRecord) LooseString { return r.DateTicket }),
	"qty":         byNumber(func(r TicketRecord) LooseNumber { return r.Qty }),
	"total_paid":  byNumber(func(r TicketRecord) LooseNumber { return r.TotalPaid }),
	"order_id":    byText(func(r TicketRecord) LooseString { return r.OrderID }),
	"ispaid":      byNumber(func(r TicketRecord) LooseNumber { return r.IsPaid }),
	"date_paid":   byText(func(r TicketRecord) LooseString { return r.DatePaid }),
	"status":      byText(func(r TicketRecord) LooseString { return r.Status }),
	"clock_in":    byText(func(r TicketRecord) LooseString { return r.ClockIn }),
	"created_at":  byText(func(r TicketRecord) LooseString { return r.CreatedAt }),
	"expires_at":  byText(func(r TicketRecord) LooseString { return r.ExpiresAt }),
}

func byText(field func(TicketRecord) LooseString) func(a, b TicketRecord) int {
	return func(a, b TicketRecord) int {
		return strings.Compare(field(a).String(), field(b).String())
	}
}

func byNumber(field func(TicketRecord) LooseNumber) func(a, b TicketRecord) int {
	return func(a, b TicketRecord) int {
		return field(a).Cmp(field(b).Decimal)
	}
}

// SortKeys returns the accepted sort keys in alphabetical order.
func SortKeys() []string {
	keys := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TableQuery selects and orders a page of records for the ticket table.
type TableQuery struct {
	Search        string
	Type          string
	Date          string
	SortKey       string
	SortDirection SortDirection
	Page          int
	PageSize      int
	// AllRows returns every matching record on a single page.
	AllRows bool
}

// Validate checks the sort options and page size.
func (q TableQuery) Validate() error {
	errs := apperrors.NewValidationErrors()

	if q.SortKey != "" {
		if _, ok := sortColumns[q.SortKey]; !ok {
			errs.Add("sort", "Unknown sort key")
		}
	}
	if q.SortDirection != "" && !q.SortDirection.IsValid() {
		errs.Add("order", "Must be one of: asc, desc")
	}
	if !q.AllRows && q.PageSize > MaxPageSize {
		errs.Add("pageSize", "Must be at most "+strconv.Itoa(MaxPageSize))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// TableRow is one record plus its normalized status.
type TableRow struct {
	Record TicketRecord
	Status TicketStatus
}

// TablePage is the result of a table query.
type TablePage struct {
	Rows       []TableRow
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// TableFilters lists the distinct values offered in the filter dropdowns.
type TableFilters struct {
	Types []string
	Dates []string
}

// QueryTable filters, sorts and paginates records. The input slice is not
// modified. The page number is clamped into range.
func QueryTable(records []TicketRecord, q TableQuery) TablePage {
	matched := make([]TicketRecord, 0, len(records))
	for _, rec := range records {
		if q.matches(rec) {
			matched = append(matched, rec)
		}
	}

	if compare, ok := sortColumns[q.SortKey]; ok {
		desc := q.SortDirection == SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i], matched[j])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(matched)
	size := q.PageSize
	if q.AllRows {
		size = total
		if size == 0 {
			size = 1
		}
	} else if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	rows := make([]TableRow, 0, end-start)
	for _, rec := range matched[start:end] {
		rows = append(rows, TableRow{Record: rec, Status: rec.Classify()})
	}

	return TablePage{
		Rows:       rows,
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// BuildTableFilters collects the distinct non-blank type and date values.
func BuildTableFilters(records []TicketRecord) TableFilters {
	types := make(map[string]struct{})
	dates := make(map[string]struct{})

	for _, rec := range records {
		if rec.TypeTicket.Trimmed() != "" {
			types[rec.TypeTicket.String()] = struct{}{}
		}
		if rec.DateTicket.Trimmed() != "" {
			dates[rec.DateTicket.String()] = struct{}{}
		}
	}

	return TableFilters{
		Types: sortedKeys(types),
		Dates: sortedKeys(dates),
	}
}

func (q TableQuery) matches(rec TicketRecord) bool {
	if term := strings.ToLower(q.Search); term != "" {
		found := false
		for _, field := range []LooseString{rec.Name, rec.Email, rec.OrderID, rec.TypeTicket} {
			if strings.Contains(strings.ToLower(field.String()), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !filterMatches(q.Type, rec.TypeTicket) {
		return false
	}
	return filterMatches(q.Date, rec.DateTicket)
}

func filterMatches(filter string, value LooseString) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return strings.EqualFold(filter, value.String())
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
