/*
Package calendar classifies calendar days and aggregates them into months.

PURPOSE:
  Turns the sparse set of days the user has recorded into a complete
  picture of a month: which days were worked, taken off, public holidays
  or weekends, and how many billable days that adds up to.

KEY CONCEPTS:
  - Holidays: 8 fixed-date and 3 Easter-relative public holidays per year
  - DayRecord: An explicit, persisted classification for one date
  - Entry: Either a Recorded day or an Implicit working day
  - MonthSummary: Per-type counts plus effective working days

DATA FLOW:
  day records + holiday table
      -> AugmentWithImplicitWorkingDays (fills unrecorded weekdays)
      -> Summarize (counts + effective working days)

  Everything in this package is pure. Storage lives in store/.

SEE ALSO:
  - leave/: Leave balance built on top of DayRecords
  - earnings/: Income projection built on MonthSummary
*/
package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// HOLIDAY TABLE
// =============================================================================

// Holiday is a single public holiday.
type Holiday struct {
	Date    generic.Date
	Name    string
	Movable bool // derived from Easter
}

var fixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "New Year's Day"},
	{time.May, 1, "Labour Day"},
	{time.May, 8, "Victory in Europe Day"},
	{time.July, 14, "Bastille Day"},
	{time.August, 15, "Assumption Day"},
	{time.November, 1, "All Saints' Day"},
	{time.November, 11, "Armistice Day"},
	{time.December, 25, "Christmas Day"},
}

var easterHolidays = []struct {
	offset int
	name   string
}{
	{1, "Easter Monday"},
	{39, "Ascension Day"},
	{50, "Whit Monday"},
}

// Easter returns Easter Sunday for the given Gregorian year using the
// anonymous Gregorian algorithm (Meeus/Jones/Butcher).
func Easter(year int) generic.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return generic.NewDate(year, time.Month(month), day)
}

// HolidaysForYear returns the public holidays of year, keyed by date.
// That is 11 entries except in years where Ascension lands on May 1 or
// May 8; the two names then share one key joined by " / ".
// A fresh map is returned on every call.
func HolidaysForYear(year int) map[generic.Date]string {
	table := make(map[generic.Date]string, len(fixedHolidays)+len(easterHolidays))
	for _, h := range ListHolidays(year) {
		if existing, ok := table[h.Date]; ok {
			table[h.Date] = existing + " / " + h.Name
			continue
		}
		table[h.Date] = h.Name
	}
	return table
}

// ListHolidays returns all 11 holidays of year sorted by date. Unlike
// HolidaysForYear it keeps coinciding holidays as separate entries.
func ListHolidays(year int) []Holiday {
	holidays := make([]Holiday, 0, len(fixedHolidays)+len(easterHolidays))
	for _, h := range fixedHolidays {
		holidays = append(holidays, Holiday{Date: generic.NewDate(year, h.month, h.day), Name: h.name})
	}
	easter := Easter(year)
	for _, h := range easterHolidays {
		holidays = append(holidays, Holiday{Date: easter.AddDays(h.offset), Name: h.name, Movable: true})
	}
	sort.SliceStable(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays
}

// =============================================================================
// HOLIDAY CALENDAR - memoized generic.HolidayCalendar
// =============================================================================

// Holidays implements generic.HolidayCalendar over HolidaysForYear,
// remembering each year it has computed.
type Holidays struct {
	mu    sync.RWMutex
	years map[int]map[generic.Date]string
}

var _ generic.HolidayCalendar = (*Holidays)(nil)

func NewHolidays() *Holidays {
	return &Holidays{years: make(map[int]map[generic.Date]string)}
}

// HolidaysForYear returns a copy; callers may modify it.
func (h *Holidays) HolidaysForYear(year int) map[generic.Date]string {
	table := h.table(year)
	out := make(map[generic.Date]string, len(table))
	for d, name := range table {
		out[d] = name
	}
	return out
}

func (h *Holidays) IsHoliday(date generic.Date) bool {
	_, ok := h.table(date.Year())[date]
	return ok
}

// Name returns the holiday name for date, if any.
func (h *Holidays) Name(date generic.Date) (string, bool) {
	name, ok := h.table(date.Year())[date]
	return name, ok
}

func (h *Holidays) table(year int) map[generic.Date]string {
	h.mu.RLock()
	table, ok := h.years[year]
	h.mu.RUnlock()
	if ok {
		return table
	}

	table = HolidaysForYear(year)
	h.mu.Lock()
	h.years[year] = table
	h.mu.Unlock()
	return table
}
