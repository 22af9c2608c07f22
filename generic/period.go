package generic

import (
	"fmt"
	"strconv"
	"time"
)

// =============================================================================
// PERIOD - An inclusive date range
// =============================================================================

// Period is the inclusive range [Start, End].
type Period struct {
	Start Date
	End   Date
}

// NewPeriod rejects ranges whose end precedes their start.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date is within the period [Start, End]
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Months returns every calendar month touched by the period, in order.
func (p Period) Months() []YearMonth {
	var months []YearMonth
	for ym := p.Start.YearMonth(); !ym.After(p.End.YearMonth()); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// FINANCIAL YEAR - April 1 to March 31
// =============================================================================

// FinancialYearStartMonth is the first month of the Indian financial year.
const FinancialYearStartMonth = time.April

// FinancialYear is identified by the calendar year in which it starts.
// FY 2025-26 runs 2025-04-01 .. 2026-03-31.
type FinancialYear struct {
	StartYear int
}

// FinancialYearOf returns the financial year containing d.
func FinancialYearOf(d Date) FinancialYear {
	if d.Month() < FinancialYearStartMonth {
		return FinancialYear{StartYear: d.Year() - 1}
	}
	return FinancialYear{StartYear: d.Year()}
}

// ParseFinancialYear accepts the "2025-26" form. The suffix must be the
// two-digit year following the start year.
func ParseFinancialYear(s string) (FinancialYear, error) {
	invalid := &ValidationError{Field: "financial_year", Value: s, Reason: "expected YYYY-YY"}
	if len(s) != 7 || s[4] != '-' {
		return FinancialYear{}, invalid
	}
	start, err := strconv.Atoi(s[:4])
	if err != nil {
		return FinancialYear{}, invalid
	}
	suffix, err := strconv.Atoi(s[5:])
	if err != nil || suffix != (start+1)%100 {
		return FinancialYear{}, invalid
	}
	return FinancialYear{StartYear: start}, nil
}

func (fy FinancialYear) Period() Period {
	return Period{
		Start: NewDate(fy.StartYear, FinancialYearStartMonth, 1),
		End:   NewDate(fy.StartYear+1, FinancialYearStartMonth, 0),
	}
}

// Months returns the twelve months of the financial year, April first.
func (fy FinancialYear) Months() []YearMonth { return fy.Period().Months() }

func (fy FinancialYear) Next() FinancialYear { return FinancialYear{StartYear: fy.StartYear + 1} }

func (fy FinancialYear) String() string {
	return fmt.Sprintf("%04d-%02d", fy.StartYear, (fy.StartYear+1)%100)
}

func (fy FinancialYear) MarshalText() ([]byte, error) { return []byte(fy.String()), nil }

func (fy *FinancialYear) UnmarshalText(b []byte) error {
	parsed, err := ParseFinancialYear(string(b))
	if err != nil {
		return err
	}
	*fy = parsed
	return nil
}
