package calendar

import (
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

var half = decimal.NewFromFloat(0.5)

// MonthSummary counts entries by type.
//
//	EffectiveWorkingDays = Working + ExtraWorking + 0.5 * HalfDay
//
// Leave, Holiday and Weekend never contribute to effective days.
type MonthSummary struct {
	Working              int
	Leave                int
	Holiday              int
	HalfDay              int
	ExtraWorking         int
	Weekend              int
	EffectiveWorkingDays decimal.Decimal
}

// Summarize tallies entries in a single pass. The result does not depend
// on the order of entries.
func Summarize(entries []Entry) MonthSummary {
	var s MonthSummary
	for _, e := range entries {
		s.count(e.Type())
	}
	s.EffectiveWorkingDays = s.effective()
	return s
}

// SummarizeRecords is Summarize over plain records (no implicit days).
func SummarizeRecords(records []DayRecord) MonthSummary {
	var s MonthSummary
	for _, r := range records {
		s.count(r.Type)
	}
	s.EffectiveWorkingDays = s.effective()
	return s
}

func (s *MonthSummary) count(t DayType) {
	switch t {
	case DayWorking:
		s.Working++
	case DayLeave:
		s.Leave++
	case DayHoliday:
		s.Holiday++
	case DayHalfDay:
		s.HalfDay++
	case DayExtraWorking:
		s.ExtraWorking++
	case DayWeekend:
		s.Weekend++
	}
}

func (s MonthSummary) effective() decimal.Decimal {
	full := decimal.NewFromInt(int64(s.Working + s.ExtraWorking))
	return full.Add(decimal.NewFromInt(int64(s.HalfDay)).Mul(half))
}

// Total is the number of classified days.
func (s MonthSummary) Total() int {
	return s.Working + s.Leave + s.Holiday + s.HalfDay + s.ExtraWorking + s.Weekend
}

// EffectiveDays returns EffectiveWorkingDays as an Amount.
func (s MonthSummary) EffectiveDays() generic.Amount {
	return generic.NewAmountFromDecimal(s.EffectiveWorkingDays, generic.UnitDays)
}

// Billable is EffectiveWorkingDays * dailyRate.
func (s MonthSummary) Billable(dailyRate decimal.Decimal) decimal.Decimal {
	return s.EffectiveWorkingDays.Mul(dailyRate)
}

// Add merges two summaries (e.g. across a quarter).
func (s MonthSummary) Add(o MonthSummary) MonthSummary {
	out := MonthSummary{
		Working:      s.Working + o.Working,
		Leave:        s.Leave + o.Leave,
		Holiday:      s.Holiday + o.Holiday,
		HalfDay:      s.HalfDay + o.HalfDay,
		ExtraWorking: s.ExtraWorking + o.ExtraWorking,
		Weekend:      s.Weekend + o.Weekend,
	}
	out.EffectiveWorkingDays = out.effective()
	return out
}
