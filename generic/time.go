package generic

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
)

// =============================================================================
// DATE - A calendar day with no time-of-day and no zone
// =============================================================================

// Date is a calendar day. The zero value is not a valid date; use IsZero.
// Dates are comparable and safe to use as map keys.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate normalizes out-of-range values the way time.Date does
// (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the time-of-day of t, keeping its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

func Today() Date { return DateOf(time.Now()) }

// ParseDate accepts only zero-padded ISO dates (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || len(s) != len(DateLayout) {
		return Date{}, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

// MustParseDate is for tests and static tables.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.compare(other) < 0 }
func (d Date) After(other Date) bool         { return d.compare(other) > 0 }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return d.compare(other) <= 0 }
func (d Date) AfterOrEqual(other Date) bool  { return d.compare(other) >= 0 }

func (d Date) compare(other Date) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time().AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) YearMonth() YearMonth  { return YearMonth{Year: d.year, Month: d.month} }
func (d Date) Time() time.Time       { return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC) }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween counts calendar days from `from` to `to` (negative if to is earlier).
func DaysBetween(from, to Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}

// =============================================================================
// YEAR-MONTH - A calendar month
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

func NewYearMonth(year int, month time.Month) YearMonth {
	return NewDate(year, month, 1).YearMonth()
}

// ParseYearMonth accepts zero-padded YYYY-MM.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil || len(s) != len(YearMonthLayout) {
		return YearMonth{}, &ValidationError{Field: "month", Value: s, Reason: "expected YYYY-MM"}
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

// Next rolls December over to January of the following year.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Year < other.Year || (ym.Year == other.Year && ym.Month < other.Month)
}

func (ym YearMonth) After(other YearMonth) bool { return other.Before(ym) }
func (ym YearMonth) IsZero() bool               { return ym == YearMonth{} }
func (ym YearMonth) First() Date                { return NewDate(ym.Year, ym.Month, 1) }
func (ym YearMonth) Last() Date                 { return NewDate(ym.Year, ym.Month+1, 0) }
func (ym YearMonth) Contains(d Date) bool       { return d.YearMonth() == ym }

// Days returns every day of the month in order.
func (ym YearMonth) Days() []Date {
	last := ym.Last()
	days := make([]Date, 0, last.Day())
	for d := ym.First(); d.BeforeOrEqual(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// HolidaysForYear returns date -> holiday name for the given year.
	HolidaysForYear(year int) map[Date]string

	// IsHoliday checks a single date.
	IsHoliday(date Date) bool
}

// NoHolidays is a calendar without any holidays.
type NoHolidays struct{}

func (NoHolidays) HolidaysForYear(int) map[Date]string { return map[Date]string{} }
func (NoHolidays) IsHoliday(Date) bool                 { return false }

// IsWorkday reports whether d is a weekday that is not a holiday.
func IsWorkday(d Date, calendar HolidayCalendar) bool {
	if d.IsWeekend() {
		return false
	}
	return calendar == nil || !calendar.IsHoliday(d)
}
