package earnings_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func upTo(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got}, msgAndArgs...)...)
}

// fy2025 is the FY 2025-26 new regime.
func fy2025() earnings.TaxRegime {
	return earnings.TaxRegime{
		FinancialYear:   generic.FinancialYear{StartYear: 2025},
		PresumptiveRate: dec("0.5"),
		CessRate:        dec("0.04"),
		RebateCeiling:   dec("1200000"),
		RebateCap:       dec("60000"),
		Slabs: []earnings.Slab{
			{UpTo: upTo("400000"), Rate: dec("0")},
			{UpTo: upTo("800000"), Rate: dec("0.05")},
			{UpTo: upTo("1200000"), Rate: dec("0.10")},
			{UpTo: upTo("1600000"), Rate: dec("0.15")},
			{UpTo: upTo("2000000"), Rate: dec("0.20")},
			{UpTo: upTo("2400000"), Rate: dec("0.25")},
			{Rate: dec("0.30")},
		},
	}
}

// fy2024 is the FY 2024-25 new regime.
func fy2024() earnings.TaxRegime {
	return earnings.TaxRegime{
		FinancialYear:   generic.FinancialYear{StartYear: 2024},
		PresumptiveRate: dec("0.5"),
		CessRate:        dec("0.04"),
		RebateCeiling:   dec("700000"),
		RebateCap:       dec("25000"),
		Slabs: []earnings.Slab{
			{UpTo: upTo("300000"), Rate: dec("0")},
			{UpTo: upTo("700000"), Rate: dec("0.05")},
			{UpTo: upTo("1000000"), Rate: dec("0.10")},
			{UpTo: upTo("1200000"), Rate: dec("0.15")},
			{UpTo: upTo("1500000"), Rate: dec("0.20")},
			{Rate: dec("0.30")},
		},
	}
}

func summary(effective string) calendar.MonthSummary {
	return calendar.MonthSummary{EffectiveWorkingDays: dec(effective)}
}

// =============================================================================
// REGIME VALIDATION
// =============================================================================

func TestTaxRegime_Validate(t *testing.T) {
	require.NoError(t, fy2025().Validate())
	require.NoError(t, fy2024().Validate())

	openInMiddle := fy2025()
	openInMiddle.Slabs[2].UpTo = nil
	assert.ErrorIs(t, openInMiddle.Validate(), generic.ErrInvalidInput)

	closedLast := fy2025()
	closedLast.Slabs[6].UpTo = upTo("9999999")
	assert.ErrorIs(t, closedLast.Validate(), generic.ErrInvalidInput)

	descending := fy2025()
	descending.Slabs[1].UpTo = upTo("300000")
	assert.ErrorIs(t, descending.Validate(), generic.ErrInvalidInput)

	badRate := fy2025()
	badRate.Slabs[0].Rate = dec("1.5")
	assert.ErrorIs(t, badRate.Validate(), generic.ErrInvalidInput)
}

// =============================================================================
// TAX COMPUTATION
// =============================================================================

func TestComputeTax_TaxableIsHalfOfGross(t *testing.T) {
	b := earnings.ComputeTax(fy2025(), dec("3000000"))
	assertDec(t, "1500000", b.TaxableIncome)
}

func TestComputeTax_AtRebateCeilingBelowCap_ZeroTax(t *testing.T) {
	// GIVEN: FY 2024-25, taxable income exactly at the 7L ceiling
	// WHEN: Computing tax (slab tax 20000 < cap 25000)
	// THEN: The rebate wipes it out; no cess

	b := earnings.ComputeTax(fy2024(), dec("1400000"))

	assertDec(t, "700000", b.TaxableIncome)
	assertDec(t, "20000", b.SlabTax)
	assert.True(t, b.RebateEligible)
	assertDec(t, "20000", b.Rebate)
	assertDec(t, "0", b.TaxAfterRebate)
	assertDec(t, "0", b.Cess)
	assertDec(t, "0", b.Total)
}

func TestComputeTax_AtRebateCeiling_FY2025(t *testing.T) {
	b := earnings.ComputeTax(fy2025(), dec("2400000"))

	assertDec(t, "1200000", b.TaxableIncome)
	assertDec(t, "60000", b.SlabTax)
	assertDec(t, "60000", b.Rebate)
	assertDec(t, "0", b.Total)
}

func TestComputeTax_JustAboveCeiling_StepNotSmoothed(t *testing.T) {
	// GIVEN: Taxable income 10 rupees above the FY 2025-26 ceiling
	// WHEN: Computing tax
	// THEN: No rebate at all; the full slab tax plus cess is due

	b := earnings.ComputeTax(fy2025(), dec("2400020"))

	assertDec(t, "1200010", b.TaxableIncome)
	assert.False(t, b.RebateEligible)
	assertDec(t, "0", b.Rebate)
	assertDec(t, "60001.5", b.SlabTax)
	assertDec(t, "2400.06", b.Cess)
	assertDec(t, "62401.56", b.Total)
}

func TestComputeTax_SlabBoundary_NoContributionFromNextSlab(t *testing.T) {
	// GIVEN: Taxable income exactly 8L (boundary between 5% and 10%)
	// WHEN: Walking slabs
	// THEN: Tax is the full 0% and 5% slabs, nothing from the 10% slab

	b := earnings.ComputeTax(fy2025(), dec("1600000"))

	assertDec(t, "20000", b.SlabTax)
	require.Len(t, b.Lines, 2)
	assertDec(t, "400000", b.Lines[1].Taxable)
	assertDec(t, "20000", b.Lines[1].Tax)
}

func TestComputeTax_TopSlabUnbounded(t *testing.T) {
	b := earnings.ComputeTax(fy2025(), dec("6000000"))

	assertDec(t, "3000000", b.TaxableIncome)
	require.Len(t, b.Lines, 7)
	assert.Nil(t, b.Lines[6].UpTo)
	assertDec(t, "600000", b.Lines[6].Taxable)
	assertDec(t, "480000", b.SlabTax)
	assertDec(t, "19200", b.Cess)
	assertDec(t, "499200", b.Total)
	assertDec(t, "0.0832", b.EffectiveRate())
}

func TestComputeTax_ZeroAndNegativeReceipts(t *testing.T) {
	for _, gross := range []string{"0", "-100"} {
		b := earnings.ComputeTax(fy2025(), dec(gross))
		assertDec(t, "0", b.Total)
		assert.Empty(t, b.Lines)
		assertDec(t, "0", b.EffectiveRate())
	}
}

// =============================================================================
// WEIGHTED RATES
// =============================================================================

func paidInvoices() []earnings.PaidInvoice {
	return []earnings.PaidInvoice{
		{InvoiceID: "a", PaidOn: generic.MustParseDate("2025-05-10"), Total: dec("1000"), ConversionRate: dec("80"), Received: dec("79000"), Deductions: dec("1000")},
		{InvoiceID: "b", PaidOn: generic.MustParseDate("2025-11-03"), Total: dec("3000"), ConversionRate: dec("84"), Received: dec("249480"), Deductions: dec("2520")},
		{InvoiceID: "old", PaidOn: generic.MustParseDate("2025-03-30"), Total: dec("9000"), ConversionRate: dec("70"), Received: dec("600000"), Deductions: dec("30000")},
	}
}

func TestWeightedRates_WeightedByInvoiceTotal(t *testing.T) {
	r := earnings.WeightedRates(paidInvoices()[:2])

	assert.Equal(t, 2, r.Invoices)
	assertDec(t, "4000", r.Weight)
	assertDec(t, "83", r.ConversionRate)
	assertDec(t, "0.010625", r.DeductionFraction)
	assertDec(t, "82.118125", r.NetFactor())
}

func TestWeightedRates_NoInvoices_ZeroNotNaN(t *testing.T) {
	r := earnings.WeightedRates(nil)
	assertDec(t, "0", r.ConversionRate)
	assertDec(t, "0", r.DeductionFraction)

	zeroTotals := earnings.WeightedRates([]earnings.PaidInvoice{{Total: dec("0"), ConversionRate: dec("80")}})
	assertDec(t, "0", zeroTotals.ConversionRate)
}

func TestPaidInvoice_DeductionFractionZeroGross(t *testing.T) {
	p := earnings.PaidInvoice{Total: dec("100"), ConversionRate: dec("0"), Deductions: dec("5")}
	assertDec(t, "0", p.DeductionFraction())
}

// =============================================================================
// PROJECTION
// =============================================================================

func TestRemainingMonths(t *testing.T) {
	fy := generic.FinancialYear{StartYear: 2025}

	assert.Len(t, earnings.RemainingMonths(fy, generic.MustParseDate("2025-01-15")), 12)
	assert.Len(t, earnings.RemainingMonths(fy, generic.MustParseDate("2025-04-01")), 12)

	rest := earnings.RemainingMonths(fy, generic.MustParseDate("2026-01-10"))
	require.Len(t, rest, 3)
	assert.Equal(t, "2026-01", rest[0].String())
	assert.Equal(t, "2026-03", rest[2].String())

	assert.Empty(t, earnings.RemainingMonths(fy, generic.MustParseDate("2026-04-01")))
}

func TestProjectIncome_RemainingMonths(t *testing.T) {
	// GIVEN: Two paid invoices in FY 2025-26 (one from the previous year ignored)
	// WHEN: Projecting from 10 January 2026 at 500 per day
	// THEN: Jan-Mar are projected at days * 500 * 83 * (1 - 0.010625)

	proj, err := earnings.ProjectIncome(earnings.ProjectionInput{
		FinancialYear: generic.FinancialYear{StartYear: 2025},
		AsOf:          generic.MustParseDate("2026-01-10"),
		DailyRate:     dec("500"),
		Paid:          paidInvoices(),
		Months: map[generic.YearMonth]calendar.MonthSummary{
			generic.MustParseYearMonth("2026-01"): summary("20"),
			generic.MustParseYearMonth("2026-02"): summary("19"),
			generic.MustParseYearMonth("2026-03"): summary("21.5"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, proj.Rates.Invoices)
	assertDec(t, "328480", proj.Actual)

	require.Len(t, proj.Months, 3)
	assertDec(t, "10000", proj.Months[0].Billed)
	assertDec(t, "821181.25", proj.Months[0].Projected)
	assertDec(t, "780122.1875", proj.Months[1].Projected)
	assertDec(t, "882769.84375", proj.Months[2].Projected)
	assertDec(t, "2484073.28125", proj.ProjectedTotal)
	assertDec(t, "2812553.28125", proj.GrossReceipts())
}

func TestProjectIncome_NoPaidInvoices_ZeroProjection(t *testing.T) {
	months := map[generic.YearMonth]calendar.MonthSummary{}
	fy := generic.FinancialYear{StartYear: 2025}
	for _, m := range fy.Months() {
		months[m] = summary("20")
	}

	proj, err := earnings.ProjectIncome(earnings.ProjectionInput{
		FinancialYear: fy,
		AsOf:          generic.MustParseDate("2025-04-01"),
		DailyRate:     dec("500"),
		Months:        months,
	})
	require.NoError(t, err)

	require.Len(t, proj.Months, 12)
	assertDec(t, "0", proj.ProjectedTotal)
	assertDec(t, "0", proj.Actual)
}

func TestProjectIncome_MissingMonthSummary(t *testing.T) {
	_, err := earnings.ProjectIncome(earnings.ProjectionInput{
		FinancialYear: generic.FinancialYear{StartYear: 2025},
		AsOf:          generic.MustParseDate("2026-03-01"),
		DailyRate:     dec("500"),
	})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestProjectIncome_NegativeRateRejected(t *testing.T) {
	_, err := earnings.ProjectIncome(earnings.ProjectionInput{
		FinancialYear: generic.FinancialYear{StartYear: 2025},
		AsOf:          generic.MustParseDate("2026-03-01"),
		DailyRate:     dec("-1"),
	})
	var ve *generic.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "daily_rate", ve.Field)
}

// =============================================================================
// LIABILITY
// =============================================================================

func TestComputeLiability(t *testing.T) {
	fy := generic.FinancialYear{StartYear: 2025}
	b := earnings.ComputeTax(fy2025(), dec("6000000"))

	l := earnings.ComputeLiability(b, []earnings.TaxPayment{
		{FinancialYear: fy, Amount: dec("200000"), Kind: earnings.PaymentAdvance},
		{FinancialYear: fy, Amount: dec("50000"), Kind: earnings.PaymentTDS},
		{FinancialYear: generic.FinancialYear{StartYear: 2024}, Amount: dec("99999"), Kind: earnings.PaymentAdvance},
	})

	assertDec(t, "499200", l.Due)
	assertDec(t, "250000", l.Paid)
	assertDec(t, "249200", l.Outstanding)
	assertDec(t, "200000", l.PaidByKind[earnings.PaymentAdvance])
	assert.Equal(t, "2026-03-15", l.DueBy.String())
}

func TestTaxPayment_Validate(t *testing.T) {
	p := earnings.TaxPayment{
		FinancialYear: generic.FinancialYear{StartYear: 2025},
		PaidOn:        generic.MustParseDate("2025-12-15"),
		Amount:        dec("1000"),
		Kind:          earnings.PaymentAdvance,
	}
	require.NoError(t, p.Validate())

	p.Kind = "gift"
	assert.ErrorIs(t, p.Validate(), generic.ErrInvalidInput)
}
