package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TypeStat accumulates sold tickets for one ticket type.
type TypeStat struct {
	Type      string
	Count     int64
	TotalPaid decimal.Decimal
}

// DateStat accumulates sold tickets for one event date.
type DateStat struct {
	Date      string
	Count     int64
	TotalPaid decimal.Decimal
}

// StatusSlice is one slice of the check-in pie chart.
type StatusSlice struct {
	Label string
	Value int64
}

// Summary holds every value the dashboard derives from a dataset.
type Summary struct {
	RecordCount     int
	SoldTicketCount int64
	TotalRevenue    decimal.Decimal
	CheckedInCount  int64
	AwaitingCount   int64
	UnpaidCount     int64
	ConversionRate  float64

	// ByType is ordered by the first appearance of each type in the input.
	ByType []TypeStat
	// ByDate is ordered ascending by byte-wise comparison of the date text.
	ByDate []DateStat

	StatusBreakdown []StatusSlice
}

// Aggregate derives the dashboard summary from records. It does not
// modify its input and returns the same result for the same records.
func Aggregate(records []TicketRecord) Summary {
	s := Summary{
		RecordCount: len(records),
		ByType:      []TypeStat{},
		ByDate:      []DateStat{},
	}

	typeIndex := make(map[string]int)
	dateIndex := make(map[string]int)

	for _, rec := range records {
		qty := rec.Quantity()

		switch rec.Classify() {
		case StatusCheckedIn:
			s.CheckedInCount += qty
		case StatusAwaitingCheckIn:
			s.AwaitingCount += qty
		case StatusUnpaid:
			s.UnpaidCount += qty
		}

		if !rec.IsSold() {
			continue
		}

		paid := rec.Paid()
		s.SoldTicketCount += qty
		s.TotalRevenue = s.TotalRevenue.Add(paid)

		if key := rec.TypeTicket.Trimmed(); key != "" {
			i, ok := typeIndex[key]
			if !ok {
				i = len(s.ByType)
				typeIndex[key] = i
				s.ByType = append(s.ByType, TypeStat{Type: key})
			}
			s.ByType[i].Count += qty
			s.ByType[i].TotalPaid = s.ByType[i].TotalPaid.Add(paid)
		}

		if key := rec.DateTicket.Trimmed(); key != "" {
			i, ok := dateIndex[key]
			if !ok {
				i = len(s.ByDate)
				dateIndex[key] = i
				s.ByDate = append(s.ByDate, DateStat{Date: key})
			}
			s.ByDate[i].Count += qty
			s.ByDate[i].TotalPaid = s.ByDate[i].TotalPaid.Add(paid)
		}
	}

	// Keys are distinct, so the sort order is total.
	sort.Slice(s.ByDate, func(i, j int) bool {
		return s.ByDate[i].Date < s.ByDate[j].Date
	})

	s.ConversionRate = ConversionRate(s.SoldTicketCount, s.UnpaidCount)
	s.StatusBreakdown = []StatusSlice{
		{Label: LabelCheckedIn, Value: s.CheckedInCount},
		{Label: LabelAwaitingCheckIn, Value: s.AwaitingCount},
	}

	return s
}

// ConversionRate returns sold / (sold + unpaid) as a percentage, or 0 when
// there is nothing to convert.
func ConversionRate(sold, unpaid int64) float64 {
	denominator := sold + unpaid
	if denominator == 0 {
		return 0
	}
	return float64(sold) / float64(denominator) * 100
}
