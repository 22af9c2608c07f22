package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
)

var half = decimal.NewFromFloat(0.5)

// Balance is the leave position as of the end of Target.
type Balance struct {
	Target        generic.YearMonth
	MonthsElapsed int
	Accrued       generic.Amount
	LeaveTaken    int
	HalfDaysTaken int
	Remaining     generic.Amount // may be negative
}

// Used is LeaveTaken + 0.5 * HalfDaysTaken.
func (b Balance) Used() generic.Amount {
	return generic.NewAmountFromDecimal(usage(b.LeaveTaken, b.HalfDaysTaken), generic.UnitDays)
}

func usage(leave, halfDays int) decimal.Decimal {
	return decimal.NewFromInt(int64(leave)).Add(decimal.NewFromInt(int64(halfDays)).Mul(half))
}

// CalculateBalance returns the balance as of the last day of target.
//
// Every leave or half-day record dated on or before target.Last() counts,
// including records before the tracking start. Records after the cutoff
// are ignored. The result is never clamped.
func CalculateBalance(policy Policy, records []calendar.DayRecord, target generic.YearMonth) (Balance, error) {
	if err := policy.Validate(); err != nil {
		return Balance{}, err
	}
	if target.IsZero() {
		return Balance{}, &generic.ValidationError{Field: "month", Reason: "required"}
	}

	cutoff := target.Last()
	accrued := generic.SumAccruals(
		policy.Accrual().GenerateAccruals(policy.TrackingStart.First(), cutoff),
		generic.UnitDays,
	)

	b := Balance{
		Target:        target,
		MonthsElapsed: MonthsElapsed(policy.TrackingStart, target),
		Accrued:       accrued,
	}
	for _, r := range records {
		if r.Date.After(cutoff) {
			continue
		}
		switch r.Type {
		case calendar.DayLeave:
			b.LeaveTaken++
		case calendar.DayHalfDay:
			b.HalfDaysTaken++
		}
	}
	b.Remaining = accrued.Sub(b.Used())
	return b, nil
}

// =============================================================================
// STATEMENT - month-by-month running balance
// =============================================================================

// StatementLine is one month of a leave statement.
type StatementLine struct {
	Month    generic.YearMonth
	Accrued  generic.Amount // granted this month
	Used     generic.Amount // taken this month
	Balance  generic.Amount // running, end of month
	Leave    int
	HalfDays int
}

// Statement walks from the tracking start through target and reports the
// running balance at the end of each month. Records before the tracking
// start are folded into the opening balance of the first line.
func Statement(policy Policy, records []calendar.DayRecord, target generic.YearMonth) ([]StatementLine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	// The zero YearMonth collects records before the tracking start.
	type tally struct{ leave, half int }
	perMonth := make(map[generic.YearMonth]tally)
	for _, r := range records {
		if r.Type != calendar.DayLeave && r.Type != calendar.DayHalfDay {
			continue
		}
		key := r.Date.YearMonth()
		if key.After(target) {
			continue
		}
		if key.Before(policy.TrackingStart) {
			key = generic.YearMonth{}
		}
		t := perMonth[key]
		if r.Type == calendar.DayLeave {
			t.leave++
		} else {
			t.half++
		}
		perMonth[key] = t
	}

	before := perMonth[generic.YearMonth{}]
	running := generic.NewAmountFromDecimal(usage(before.leave, before.half).Neg(), generic.UnitDays)
	accrual := policy.Accrual()

	var lines []StatementLine
	for ym := policy.TrackingStart; !ym.After(target); ym = ym.Next() {
		granted := generic.SumAccruals(accrual.GenerateAccruals(ym.First(), ym.Last()), generic.UnitDays)
		t := perMonth[ym]
		used := generic.NewAmountFromDecimal(usage(t.leave, t.half), generic.UnitDays)
		running = running.Add(granted).Sub(used)
		lines = append(lines, StatementLine{
			Month:    ym,
			Accrued:  granted,
			Used:     used,
			Balance:  running,
			Leave:    t.leave,
			HalfDays: t.half,
		})
	}
	return lines, nil
}
