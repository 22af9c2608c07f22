package calendar

import (
	"fmt"

	"github.com/warp/daybook/generic"
)

// AugmentWithImplicitWorkingDays returns one entry per recorded day of the
// month plus an Implicit working entry for every weekday that has neither a
// record nor a holiday. Entries come back in date order.
//
// Precedence for each day: explicit record, then holiday (skipped), then
// weekend (skipped), then implicit working day.
//
// Records outside the month, duplicate dates and invalid records are
// rejected rather than silently dropped.
func AugmentWithImplicitWorkingDays(explicit []DayRecord, month generic.YearMonth, holidays map[generic.Date]string) ([]Entry, error) {
	byDate := make(map[generic.Date]DayRecord, len(explicit))
	for _, r := range explicit {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if !month.Contains(r.Date) {
			return nil, &generic.ValidationError{
				Field:  "date",
				Value:  r.Date.String(),
				Reason: fmt.Sprintf("outside month %s", month),
			}
		}
		if _, dup := byDate[r.Date]; dup {
			return nil, fmt.Errorf("%w: two records for %s", generic.ErrConflict, r.Date)
		}
		byDate[r.Date] = r
	}

	var entries []Entry
	for _, day := range month.Days() {
		if r, ok := byDate[day]; ok {
			entries = append(entries, Recorded{Record: r})
			continue
		}
		if _, ok := holidays[day]; ok {
			continue
		}
		if day.IsWeekend() {
			continue
		}
		entries = append(entries, Implicit{On: day})
	}
	return entries, nil
}
