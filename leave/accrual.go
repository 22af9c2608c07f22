package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// MONTHLY ACCRUAL
// =============================================================================

// MonthlyAccrual grants LeavesPerMonth on the first of every month from
// Start onward.
type MonthlyAccrual struct {
	LeavesPerMonth decimal.Decimal
	Start          generic.YearMonth
}

var _ generic.AccrualSchedule = (*MonthlyAccrual)(nil)

func (ma *MonthlyAccrual) GenerateAccruals(from, to generic.Date) []generic.AccrualEvent {
	if to.Before(from) {
		return nil
	}

	current := from.YearMonth()
	if current.Before(ma.Start) {
		current = ma.Start
	}

	var events []generic.AccrualEvent
	for ; !current.After(to.YearMonth()); current = current.Next() {
		grant := current.First()
		if grant.Before(from) || grant.After(to) {
			continue
		}
		events = append(events, generic.AccrualEvent{
			At:     grant,
			Amount: generic.NewAmountFromDecimal(ma.LeavesPerMonth, generic.UnitDays),
			Reason: "monthly leave",
		})
	}
	return events
}

// MonthsElapsed counts months from start through target, both inclusive,
// by stepping one month at a time. Zero when target precedes start.
func MonthsElapsed(start, target generic.YearMonth) int {
	n := 0
	for current := start; !current.After(target); current = current.Next() {
		n++
	}
	return n
}
