package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScheduleEntry struct {
	// Period is the first day of the month the entry closes.
	Period      time.Time
	Month       int
	Expense     decimal.Decimal
	Accumulated decimal.Decimal
	BookValue   decimal.Decimal
}

// Schedule lists the month-by-month accumulated depreciation from the month
// after the start through the earlier of `through` and full depreciation.
// Each entry's Accumulated equals Accumulated(in, Period) and Expense is the
// difference to the previous entry, so the expenses always sum to the last
// accumulated value.
func Schedule(in Input, through time.Time) ([]ScheduleEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	start, _ := in.Start()
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	last := MonthsElapsed(start, through)
	if lifeMonths := in.UsefulLife * 12; last > lifeMonths {
		last = lifeMonths
	}
	if last <= 0 {
		return []ScheduleEntry{}, nil
	}

	entries := make([]ScheduleEntry, 0, last)
	previous := decimal.Zero
	for month := 1; month <= last; month++ {
		accumulated := accumulatedForMonths(in, month)
		entries = append(entries, ScheduleEntry{
			Period:      anchor.AddDate(0, month, 0),
			Month:       month,
			Expense:     accumulated.Sub(previous),
			Accumulated: accumulated,
			BookValue:   in.Cost.Sub(accumulated),
		})
		previous = accumulated
	}
	return entries, nil
}
