package generic_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// DATE
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, "2024-02-29", d.String())
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"", "2025-2-01", "2025-02-30", "01/02/2025", "2025-02-01T00:00:00Z"} {
		t.Run(in, func(t *testing.T) {
			_, err := generic.ParseDate(in)
			assert.ErrorIs(t, err, generic.ErrInvalidInput)

			var ve *generic.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "date", ve.Field)
		})
	}
}

func TestNewDate_Normalizes(t *testing.T) {
	assert.Equal(t, generic.MustParseDate("2025-02-01"), generic.NewDate(2025, time.January, 32))
	assert.Equal(t, generic.MustParseDate("2024-12-31"), generic.NewDate(2025, time.January, 0))
}

func TestDateOf_KeepsLocalCalendarDay(t *testing.T) {
	// GIVEN: 23:30 on 1 March in UTC+05:30, which is still 1 March locally
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2025, time.March, 1, 23, 30, 0, 0, ist)

	assert.Equal(t, "2025-03-01", generic.DateOf(ts).String())
}

func TestDate_Comparison(t *testing.T) {
	a := generic.MustParseDate("2025-03-31")
	b := generic.MustParseDate("2025-04-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, b.BeforeOrEqual(a))
	assert.Equal(t, 1, generic.DaysBetween(a, b))
	assert.Equal(t, -1, generic.DaysBetween(b, a))
}

func TestDate_DaysBetweenAcrossLeapDay(t *testing.T) {
	assert.Equal(t, 366, generic.DaysBetween(generic.MustParseDate("2024-01-01"), generic.MustParseDate("2025-01-01")))
}

func TestDate_IsWeekend(t *testing.T) {
	assert.True(t, generic.MustParseDate("2025-12-06").IsWeekend())  // Saturday
	assert.True(t, generic.MustParseDate("2025-12-07").IsWeekend())  // Sunday
	assert.False(t, generic.MustParseDate("2025-12-08").IsWeekend()) // Monday
}

func TestDate_ZeroValue(t *testing.T) {
	var d generic.Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())

	require.NoError(t, d.UnmarshalText(nil))
	assert.True(t, d.IsZero())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		On generic.Date `json:"on"`
	}

	raw, err := json.Marshal(payload{On: generic.MustParseDate("2025-07-14")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2025-07-14"}`, string(raw))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2026-01-02"}`), &p))
	assert.Equal(t, generic.MustParseDate("2026-01-02"), p.On)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"on":"2026-1-2"}`), &p), generic.ErrInvalidInput)
}

// =============================================================================
// YEAR-MONTH
// =============================================================================

func TestYearMonth_Bounds(t *testing.T) {
	tests := []struct {
		month string
		last  string
		days  int
	}{
		{"2024-02", "2024-02-29", 29},
		{"2025-02", "2025-02-28", 28},
		{"2025-04", "2025-04-30", 30},
		{"2025-12", "2025-12-31", 31},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			ym := generic.MustParseYearMonth(tt.month)
			assert.Equal(t, tt.month+"-01", ym.First().String())
			assert.Equal(t, tt.last, ym.Last().String())
			assert.Len(t, ym.Days(), tt.days)
			assert.True(t, ym.Contains(ym.Last()))
			assert.False(t, ym.Contains(ym.Last().AddDays(1)))
		})
	}
}

func TestYearMonth_NextPrevRollOverYear(t *testing.T) {
	dec := generic.NewYearMonth(2025, time.December)

	assert.Equal(t, "2026-01", dec.Next().String())
	assert.Equal(t, dec, dec.Next().Prev())
	assert.True(t, dec.Before(dec.Next()))
	assert.True(t, dec.Next().After(dec))
}

func TestParseYearMonth_Rejects(t *testing.T) {
	for _, in := range []string{"2025-13", "2025-1", "202501", "2025-01-01"} {
		_, err := generic.ParseYearMonth(in)
		assert.ErrorIs(t, err, generic.ErrInvalidInput, in)
	}
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

type fixedCalendar map[generic.Date]string

func (c fixedCalendar) HolidaysForYear(int) map[generic.Date]string { return c }
func (c fixedCalendar) IsHoliday(d generic.Date) bool {
	_, ok := c[d]
	return ok
}

func TestIsWorkday(t *testing.T) {
	cal := fixedCalendar{generic.MustParseDate("2025-12-25"): "Christmas Day"}

	assert.True(t, generic.IsWorkday(generic.MustParseDate("2025-12-24"), cal))
	assert.False(t, generic.IsWorkday(generic.MustParseDate("2025-12-25"), cal))
	assert.False(t, generic.IsWorkday(generic.MustParseDate("2025-12-27"), cal))
	assert.True(t, generic.IsWorkday(generic.MustParseDate("2025-12-25"), generic.NoHolidays{}))
	assert.True(t, generic.IsWorkday(generic.MustParseDate("2025-12-25"), nil))
}

// =============================================================================
// PERIOD & FINANCIAL YEAR
// =============================================================================

func TestNewPeriod(t *testing.T) {
	p, err := generic.NewPeriod(generic.MustParseDate("2025-11-15"), generic.MustParseDate("2026-01-10"))
	require.NoError(t, err)

	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.End.AddDays(1)))
	assert.Equal(t, []generic.YearMonth{
		generic.NewYearMonth(2025, time.November),
		generic.NewYearMonth(2025, time.December),
		generic.NewYearMonth(2026, time.January),
	}, p.Months())

	_, err = generic.NewPeriod(p.End, p.Start)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.True(t, generic.IsClientError(err))
}

func TestFinancialYearOf(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-03-31", "2024-25"},
		{"2025-04-01", "2025-26"},
		{"2025-12-31", "2025-26"},
		{"2026-01-01", "2025-26"},
		{"1999-06-01", "1999-00"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, generic.FinancialYearOf(generic.MustParseDate(tt.date)).String())
		})
	}
}

func TestFinancialYear_Period(t *testing.T) {
	fy, err := generic.ParseFinancialYear("2025-26")
	require.NoError(t, err)

	p := fy.Period()
	assert.Equal(t, "2025-04-01", p.Start.String())
	assert.Equal(t, "2026-03-31", p.End.String())

	months := fy.Months()
	require.Len(t, months, 12)
	assert.Equal(t, "2025-04", months[0].String())
	assert.Equal(t, "2026-03", months[11].String())
	assert.Equal(t, "2026-27", fy.Next().String())
}

func TestParseFinancialYear_Rejects(t *testing.T) {
	for _, in := range []string{"2025", "2025-27", "2025/26", "25-26", "abcd-ef"} {
		_, err := generic.ParseFinancialYear(in)
		assert.ErrorIs(t, err, generic.ErrInvalidInput, in)
	}
}

func TestParseFinancialYear_CenturyRollover(t *testing.T) {
	fy, err := generic.ParseFinancialYear("2099-00")
	require.NoError(t, err)
	assert.Equal(t, 2099, fy.StartYear)
}

// =============================================================================
// AMOUNTS & ACCRUALS
// =============================================================================

func TestAmount_Arithmetic(t *testing.T) {
	total := generic.NewAmountFromInt(3, generic.UnitDays).Sub(generic.NewAmount(0.5, generic.UnitDays))

	assert.True(t, total.Equal(generic.NewAmount(2.5, generic.UnitDays)))
	assert.Equal(t, "2.5 days", total.String())
	assert.True(t, total.Neg().IsNegative())
	assert.True(t, total.Zero().IsZero())
	assert.False(t, total.Equal(generic.NewAmount(2.5, generic.UnitMonths)))
}

func TestSumAccruals(t *testing.T) {
	events := []generic.AccrualEvent{
		{At: generic.MustParseDate("2025-01-31"), Amount: generic.NewAmount(1.5, generic.UnitDays)},
		{At: generic.MustParseDate("2025-02-28"), Amount: generic.NewAmount(1.5, generic.UnitDays)},
	}
	assert.True(t, generic.SumAccruals(events, generic.UnitDays).Equal(generic.NewAmountFromInt(3, generic.UnitDays)))
	assert.True(t, generic.SumAccruals(nil, generic.UnitDays).IsZero())
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		client   bool
		notFound bool
		conflict bool
	}{
		{"validation", &generic.ValidationError{Field: "daily_rate", Reason: "must not be negative"}, true, false, false},
		{"unknown fy", fmt.Errorf("lookup: %w", generic.ErrUnknownFinancialYear), true, false, false},
		{"not found", &generic.NotFoundError{Kind: "invoice", ID: "42"}, false, true, false},
		{"state", &generic.StateError{Kind: "invoice", ID: "42", State: "paid", Action: "cancel"}, false, false, true},
		{"wrapped state", fmt.Errorf("save: %w", &generic.StateError{}), false, false, true},
		{"other", errors.New("disk full"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.client, generic.IsClientError(tt.err))
			assert.Equal(t, tt.notFound, generic.IsNotFound(tt.err))
			assert.Equal(t, tt.conflict, generic.IsConflict(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `invalid month "2025-13": expected YYYY-MM`,
		(&generic.ValidationError{Field: "month", Value: "2025-13", Reason: "expected YYYY-MM"}).Error())
	assert.Equal(t, "invalid name: required", (&generic.ValidationError{Field: "name", Reason: "required"}).Error())
	assert.Equal(t, "client c1 not found", (&generic.NotFoundError{Kind: "client", ID: "c1"}).Error())
	assert.Equal(t, "cannot cancel invoice i1 in state paid",
		(&generic.StateError{Kind: "invoice", ID: "i1", State: "paid", Action: "cancel"}).Error())
}
