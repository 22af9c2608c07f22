package generic

// =============================================================================
// ACCRUAL SCHEDULE - Interface for how quantities accumulate
// =============================================================================

// AccrualSchedule generates accrual events for a date range.
// Implementations define the business logic (monthly leave, yearly grants).
type AccrualSchedule interface {
	// GenerateAccruals returns accrual events in [from, to], in date order.
	GenerateAccruals(from, to Date) []AccrualEvent
}

// AccrualEvent represents a single accrual occurrence.
type AccrualEvent struct {
	At     Date
	Amount Amount
	Reason string
}

// SumAccruals adds up the events; the result carries unit.
func SumAccruals(events []AccrualEvent, unit Unit) Amount {
	total := NewAmountFromInt(0, unit)
	for _, e := range events {
		total = total.Add(e.Amount)
	}
	return total
}
