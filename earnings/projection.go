package earnings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// INCOME PROJECTION
// =============================================================================

// ProjectionInput is everything ProjectIncome reads. Months must hold a
// summary for every remaining month of the financial year.
type ProjectionInput struct {
	FinancialYear generic.FinancialYear
	AsOf          generic.Date
	DailyRate     decimal.Decimal // invoice currency
	Paid          []PaidInvoice
	Months        map[generic.YearMonth]calendar.MonthSummary
}

// MonthProjection is the expected income of one remaining month.
type MonthProjection struct {
	Month         generic.YearMonth
	EffectiveDays decimal.Decimal
	Billed        decimal.Decimal // invoice currency
	Projected     decimal.Decimal // home currency, net of deductions
}

// Projection combines actual receipts with projected months.
type Projection struct {
	FinancialYear  generic.FinancialYear
	AsOf           generic.Date
	Rates          Rates
	Actual         decimal.Decimal // sum of Received for paid invoices in the year
	Months         []MonthProjection
	ProjectedTotal decimal.Decimal
}

// GrossReceipts is Actual + ProjectedTotal, the figure tax is computed on.
func (p Projection) GrossReceipts() decimal.Decimal {
	return p.Actual.Add(p.ProjectedTotal)
}

// RemainingMonths returns the months of fy from asOf's month (inclusive)
// through March. All twelve before the year starts, none after it ends.
func RemainingMonths(fy generic.FinancialYear, asOf generic.Date) []generic.YearMonth {
	var remaining []generic.YearMonth
	current := asOf.YearMonth()
	for _, m := range fy.Months() {
		if m.Before(current) {
			continue
		}
		remaining = append(remaining, m)
	}
	return remaining
}

// ProjectIncome projects each remaining month as
//
//	effectiveDays * dailyRate * avgConversionRate * (1 - avgDeductionFraction)
//
// where the averages come from the paid invoices of the financial year.
func ProjectIncome(in ProjectionInput) (Projection, error) {
	if in.DailyRate.IsNegative() {
		return Projection{}, &generic.ValidationError{Field: "daily_rate", Value: in.DailyRate.String(), Reason: "must not be negative"}
	}
	if in.AsOf.IsZero() {
		return Projection{}, &generic.ValidationError{Field: "as_of", Reason: "required"}
	}

	period := in.FinancialYear.Period()
	var inYear []PaidInvoice
	actual := decimal.Zero
	for _, p := range in.Paid {
		if !period.Contains(p.PaidOn) {
			continue
		}
		inYear = append(inYear, p)
		actual = actual.Add(p.Received)
	}

	rates := WeightedRates(inYear)
	factor := rates.NetFactor()

	proj := Projection{
		FinancialYear:  in.FinancialYear,
		AsOf:           in.AsOf,
		Rates:          rates,
		Actual:         actual,
		ProjectedTotal: decimal.Zero,
	}
	for _, m := range RemainingMonths(in.FinancialYear, in.AsOf) {
		summary, ok := in.Months[m]
		if !ok {
			return Projection{}, fmt.Errorf("%w: no month summary for %s", generic.ErrInvalidInput, m)
		}
		billed := summary.Billable(in.DailyRate)
		projected := billed.Mul(factor)
		proj.Months = append(proj.Months, MonthProjection{
			Month:         m,
			EffectiveDays: summary.EffectiveWorkingDays,
			Billed:        billed,
			Projected:     projected,
		})
		proj.ProjectedTotal = proj.ProjectedTotal.Add(projected)
	}
	return proj, nil
}
