package calendar_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) generic.Date { return generic.MustParseDate(s) }

func month(s string) generic.YearMonth { return generic.MustParseYearMonth(s) }

func record(d string, t calendar.DayType) calendar.DayRecord {
	return calendar.DayRecord{Date: date(d), Type: t}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// HOLIDAY GENERATOR
// =============================================================================

func TestEaster_KnownYears(t *testing.T) {
	cases := map[int]string{
		2000: "2000-04-23",
		2019: "2019-04-21",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
	}
	for year, want := range cases {
		assert.Equal(t, want, calendar.Easter(year).String(), "year %d", year)
	}
}

func TestHolidaysForYear_2025(t *testing.T) {
	// GIVEN: The 2025 holiday table
	// WHEN: Looking up fixed and Easter-relative holidays
	// THEN: New Year, Christmas and Easter Monday on 2025-04-21 are present

	table := calendar.HolidaysForYear(2025)

	require.Len(t, table, 11)
	assert.Equal(t, "New Year's Day", table[date("2025-01-01")])
	assert.Equal(t, "Christmas Day", table[date("2025-12-25")])
	assert.Equal(t, "Easter Monday", table[date("2025-04-21")])
	assert.Equal(t, "Ascension Day", table[date("2025-05-29")])
	assert.Equal(t, "Whit Monday", table[date("2025-06-09")])
}

func TestHolidaysForYear_ElevenEntriesAndEasterMondayFollowsEaster(t *testing.T) {
	for year := 1900; year <= 2200; year++ {
		require.Len(t, calendar.ListHolidays(year), 11, "year %d", year)

		table := calendar.HolidaysForYear(year)
		ascension := calendar.Easter(year).AddDays(39)
		if ascension.Month() == time.May && (ascension.Day() == 1 || ascension.Day() == 8) {
			assert.Len(t, table, 10, "year %d", year)
		} else {
			assert.Len(t, table, 11, "year %d", year)
		}

		easterMonday := calendar.Easter(year).AddDays(1)
		assert.Equal(t, "Easter Monday", table[easterMonday], "year %d", year)
		assert.Equal(t, time.Monday, easterMonday.Weekday(), "year %d", year)
	}
}

func TestHolidaysForYear_CoincidingHolidaysShareDate(t *testing.T) {
	// GIVEN: 2008, where Easter was March 23 and Ascension fell on May 1
	// WHEN: Building the table
	// THEN: Labour Day and Ascension share one key

	assert.Equal(t, "2008-03-23", calendar.Easter(2008).String())

	table := calendar.HolidaysForYear(2008)
	assert.Len(t, table, 10)
	assert.Equal(t, "Labour Day / Ascension Day", table[date("2008-05-01")])
}

func TestHolidaysForYear_Idempotent(t *testing.T) {
	assert.Equal(t, calendar.HolidaysForYear(2031), calendar.HolidaysForYear(2031))
}

func TestListHolidays_SortedAndMovableFlagged(t *testing.T) {
	holidays := calendar.ListHolidays(2025)

	require.Len(t, holidays, 11)
	for i := 1; i < len(holidays); i++ {
		assert.True(t, holidays[i-1].Date.Before(holidays[i].Date))
	}

	movable := 0
	for _, h := range holidays {
		if h.Movable {
			movable++
		}
	}
	assert.Equal(t, 3, movable)
}

func TestHolidays_CalendarReturnsCopies(t *testing.T) {
	cal := calendar.NewHolidays()

	table := cal.HolidaysForYear(2025)
	delete(table, date("2025-12-25"))

	assert.True(t, cal.IsHoliday(date("2025-12-25")))
	assert.False(t, cal.IsHoliday(date("2025-12-24")))

	name, ok := cal.Name(date("2025-07-14"))
	assert.True(t, ok)
	assert.Equal(t, "Bastille Day", name)
}

// =============================================================================
// DAY TYPES
// =============================================================================

func TestParseDayType(t *testing.T) {
	got, err := calendar.ParseDayType("half_day")
	require.NoError(t, err)
	assert.Equal(t, calendar.DayHalfDay, got)

	_, err = calendar.ParseDayType("sabbatical")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

// =============================================================================
// AUGMENTATION
// =============================================================================

func TestAugment_TwentyWeekdaysTwoHolidays_EighteenEffectiveDays(t *testing.T) {
	// GIVEN: February 2025 (20 weekdays) with two weekday holidays, no records
	// WHEN: Augmenting and summarizing
	// THEN: 18 effective working days

	holidays := map[generic.Date]string{
		date("2025-02-03"): "Company Day",
		date("2025-02-04"): "Founders Day",
	}

	entries, err := calendar.AugmentWithImplicitWorkingDays(nil, month("2025-02"), holidays)
	require.NoError(t, err)

	summary := calendar.Summarize(entries)
	assert.Equal(t, 18, summary.Working)
	assert.True(t, summary.EffectiveWorkingDays.Equal(dec("18")))
}

func TestAugment_NeverSynthesizesOnRecordsHolidaysOrWeekends(t *testing.T) {
	// GIVEN: May 2025 with records on a holiday, a weekend and a weekday
	// WHEN: Augmenting
	// THEN: Implicit entries only appear on unrecorded, non-holiday weekdays

	holidays := calendar.HolidaysForYear(2025)
	records := []calendar.DayRecord{
		record("2025-05-01", calendar.DayWorking),
		record("2025-05-03", calendar.DayExtraWorking),
		record("2025-05-02", calendar.DayLeave),
	}

	entries, err := calendar.AugmentWithImplicitWorkingDays(records, month("2025-05"), holidays)
	require.NoError(t, err)

	explicit := map[generic.Date]bool{}
	for _, r := range records {
		explicit[r.Date] = true
	}

	seen := map[generic.Date]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Date()], "duplicate entry for %s", e.Date())
		seen[e.Date()] = true

		if !calendar.IsImplicit(e) {
			continue
		}
		assert.False(t, explicit[e.Date()], "implicit on recorded date %s", e.Date())
		_, holiday := holidays[e.Date()]
		assert.False(t, holiday, "implicit on holiday %s", e.Date())
		assert.False(t, e.Date().IsWeekend(), "implicit on weekend %s", e.Date())
		assert.Equal(t, calendar.DayWorking, e.Type())
		assert.Empty(t, calendar.ProjectOf(e))
	}

	// 22 weekdays - 3 holidays (May 1, 8, 29) - 1 leave (May 2) = 18 implicit,
	// plus the explicit May 1 working day.
	summary := calendar.Summarize(entries)
	assert.Equal(t, 19, summary.Working)
	assert.Equal(t, 1, summary.Leave)
	assert.Equal(t, 1, summary.ExtraWorking)
	assert.True(t, summary.EffectiveWorkingDays.Equal(dec("20")))
}

func TestAugment_EntriesInDateOrder(t *testing.T) {
	records := []calendar.DayRecord{
		record("2025-03-31", calendar.DayHalfDay),
		record("2025-03-01", calendar.DayWeekend),
	}

	entries, err := calendar.AugmentWithImplicitWorkingDays(records, month("2025-03"), nil)
	require.NoError(t, err)

	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Date().Before(entries[i].Date()))
	}
	assert.Equal(t, "2025-03-01", entries[0].Date().String())
	assert.Equal(t, calendar.DayHalfDay, entries[len(entries)-1].Type())
}

func TestAugment_RejectsRecordOutsideMonth(t *testing.T) {
	records := []calendar.DayRecord{record("2025-04-01", calendar.DayLeave)}

	_, err := calendar.AugmentWithImplicitWorkingDays(records, month("2025-03"), nil)

	var ve *generic.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestAugment_RejectsDuplicateDates(t *testing.T) {
	records := []calendar.DayRecord{
		record("2025-03-03", calendar.DayLeave),
		record("2025-03-03", calendar.DayWorking),
	}

	_, err := calendar.AugmentWithImplicitWorkingDays(records, month("2025-03"), nil)
	assert.ErrorIs(t, err, generic.ErrConflict)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize_EffectiveDaysFormula(t *testing.T) {
	records := []calendar.DayRecord{
		record("2025-03-03", calendar.DayWorking),
		record("2025-03-04", calendar.DayWorking),
		record("2025-03-05", calendar.DayHalfDay),
		record("2025-03-06", calendar.DayHalfDay),
		record("2025-03-07", calendar.DayHalfDay),
		record("2025-03-08", calendar.DayExtraWorking),
		record("2025-03-10", calendar.DayLeave),
		record("2025-03-11", calendar.DayHoliday),
		record("2025-03-09", calendar.DayWeekend),
	}

	s := calendar.SummarizeRecords(records)

	assert.Equal(t, 2, s.Working)
	assert.Equal(t, 3, s.HalfDay)
	assert.Equal(t, 1, s.ExtraWorking)
	assert.Equal(t, 1, s.Leave)
	assert.Equal(t, 1, s.Holiday)
	assert.Equal(t, 1, s.Weekend)
	assert.Equal(t, 9, s.Total())
	assert.True(t, s.EffectiveWorkingDays.Equal(dec("4.5")), "got %s", s.EffectiveWorkingDays)
	assert.True(t, s.Billable(dec("100")).Equal(dec("450")))
}

func TestSummarize_InvariantUnderPermutation(t *testing.T) {
	entries, err := calendar.AugmentWithImplicitWorkingDays([]calendar.DayRecord{
		record("2025-06-02", calendar.DayHalfDay),
		record("2025-06-03", calendar.DayLeave),
		record("2025-06-07", calendar.DayExtraWorking),
	}, month("2025-06"), calendar.HolidaysForYear(2025))
	require.NoError(t, err)

	want := calendar.Summarize(entries)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]calendar.Entry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := calendar.Summarize(shuffled)
		assert.Equal(t, want.Working, got.Working)
		assert.Equal(t, want.HalfDay, got.HalfDay)
		assert.True(t, want.EffectiveWorkingDays.Equal(got.EffectiveWorkingDays))
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := calendar.Summarize(nil)
	assert.Equal(t, 0, s.Total())
	assert.True(t, s.EffectiveWorkingDays.IsZero())
}

// =============================================================================
// MONTH VIEW
// =============================================================================

func TestBuildMonth_May2025(t *testing.T) {
	// GIVEN: May 2025 with the real holiday calendar and one leave day
	// WHEN: Building the month view
	// THEN: Holidays listed in order, leave counted, implicit days filled

	view, err := calendar.BuildMonth(
		[]calendar.DayRecord{record("2025-05-02", calendar.DayLeave)},
		month("2025-05"),
		calendar.NewHolidays(),
	)
	require.NoError(t, err)

	require.Len(t, view.Holidays, 3)
	assert.Equal(t, "2025-05-01", view.Holidays[0].Date.String())
	assert.Equal(t, "2025-05-08", view.Holidays[1].Date.String())
	assert.Equal(t, "2025-05-29", view.Holidays[2].Date.String())

	assert.Equal(t, 18, view.Summary.Working)
	assert.Equal(t, 1, view.Summary.Leave)
}

func TestProjectedSummary_MatchesWorkingDays(t *testing.T) {
	cal := calendar.NewHolidays()
	ym := month("2025-05")

	s := calendar.ProjectedSummary(ym, cal)

	assert.Equal(t, 19, calendar.WorkingDaysIn(ym, cal))
	assert.Equal(t, 19, s.Working)
}
