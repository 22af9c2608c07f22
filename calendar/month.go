package calendar

import (
	"sort"

	"github.com/warp/daybook/generic"
)

// MonthView is everything a month page needs: the augmented entries, the
// public holidays falling in the month, and the summary.
type MonthView struct {
	Month    generic.YearMonth
	Entries  []Entry
	Holidays []Holiday
	Summary  MonthSummary
}

// BuildMonth augments records with implicit working days using the
// holidays of calendar and summarizes the result. A nil calendar means no
// holidays.
func BuildMonth(records []DayRecord, month generic.YearMonth, cal generic.HolidayCalendar) (MonthView, error) {
	if cal == nil {
		cal = generic.NoHolidays{}
	}
	table := cal.HolidaysForYear(month.Year)

	entries, err := AugmentWithImplicitWorkingDays(records, month, table)
	if err != nil {
		return MonthView{}, err
	}

	var holidays []Holiday
	for date, name := range table {
		if month.Contains(date) {
			holidays = append(holidays, Holiday{Date: date, Name: name})
		}
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })

	return MonthView{
		Month:    month,
		Entries:  entries,
		Holidays: holidays,
		Summary:  Summarize(entries),
	}, nil
}

// ProjectedSummary summarizes a month that has no records yet: every
// non-holiday weekday counts as working.
func ProjectedSummary(month generic.YearMonth, cal generic.HolidayCalendar) MonthSummary {
	view, _ := BuildMonth(nil, month, cal)
	return view.Summary
}

// WorkingDaysIn counts weekdays in month that are not holidays.
func WorkingDaysIn(month generic.YearMonth, cal generic.HolidayCalendar) int {
	n := 0
	for _, d := range month.Days() {
		if generic.IsWorkday(d, cal) {
			n++
		}
	}
	return n
}
