/*
Package leave computes a freelancer's leave balance.

PURPOSE:
  A freelancer grants themselves a fixed number of leave days per month
  from a tracking start month onward. The balance is what has accrued so
  far minus what has been taken, and it may go negative.

FORMULA:
  balance(target) = monthsElapsed(start, target) * leavesPerMonth
                  - count(leave days <= target.Last())
                  - 0.5 * count(half days <= target.Last())

ACCRUAL:
  MonthlyAccrual implements generic.AccrualSchedule: one event on the
  first of every month from the tracking start. Summing those events for
  [start.First(), target.Last()] gives the accrued amount, which is why
  monthsElapsed and the accrual sum always agree.

SEE ALSO:
  - calendar/day.go: DayRecord and DayType
  - generic/accrual.go: AccrualSchedule interface
*/
package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// Policy is the leave configuration. It is always passed explicitly.
type Policy struct {
	LeavesPerMonth      decimal.Decimal   `json:"leaves_per_month"`
	StandardWorkingDays int               `json:"standard_working_days"`
	TrackingStart       generic.YearMonth `json:"tracking_start"`
}

// DefaultPolicy is used until the user saves their own.
func DefaultPolicy(start generic.YearMonth) Policy {
	return Policy{
		LeavesPerMonth:      decimal.NewFromInt(2),
		StandardWorkingDays: 22,
		TrackingStart:       start,
	}
}

func (p Policy) Validate() error {
	if p.LeavesPerMonth.IsNegative() {
		return &generic.ValidationError{Field: "leaves_per_month", Value: p.LeavesPerMonth.String(), Reason: "must not be negative"}
	}
	if p.StandardWorkingDays < 0 || p.StandardWorkingDays > 31 {
		return &generic.ValidationError{Field: "standard_working_days", Reason: "must be between 0 and 31"}
	}
	if p.TrackingStart.IsZero() {
		return &generic.ValidationError{Field: "tracking_start", Reason: "required"}
	}
	return nil
}

// Accrual returns the policy's accrual schedule.
func (p Policy) Accrual() *MonthlyAccrual {
	return &MonthlyAccrual{LeavesPerMonth: p.LeavesPerMonth, Start: p.TrackingStart}
}
