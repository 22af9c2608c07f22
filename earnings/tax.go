/*
Package earnings projects a freelancer's income for the financial year and
computes presumptive tax on it.

PURPOSE:
  Income arrives as paid invoices in a foreign currency, converted at
  whatever rate the bank applied and reduced by bank charges. The rest of
  the year is projected from working days and a day rate, using the
  conversion rate and deduction share seen so far. Tax is then computed
  under Section 44ADA: half of gross receipts is deemed income, taxed in
  marginal slabs, with a rebate below a ceiling and a cess on top.

TAX PIPELINE:
  gross receipts
      -> taxable = presumptive rate * gross
      -> slab walk (ascending, last slab open-ended)
      -> rebate = min(tax, cap) if taxable <= ceiling, else 0
      -> cess = cess rate * (tax - rebate)
      -> total = tax - rebate + cess

  The rebate is a step: one rupee over the ceiling loses all of it.

CONFIGURATION:
  Slabs, rates, ceiling and cap live in TaxRegime, one per financial
  year. factory/ builds regimes from JSON.

SEE ALSO:
  - projection.go: Month-by-month income projection
  - factory/taxregime.go: Regime JSON and registry
*/
package earnings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// TAX REGIME - configuration for one financial year
// =============================================================================

// Slab is a marginal band. UpTo is the inclusive upper bound of taxable
// income; nil means unbounded and is only valid for the last slab.
type Slab struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// TaxRegime holds everything that changes between financial years.
type TaxRegime struct {
	FinancialYear   generic.FinancialYear
	PresumptiveRate decimal.Decimal
	Slabs           []Slab
	RebateCeiling   decimal.Decimal
	RebateCap       decimal.Decimal
	CessRate        decimal.Decimal
}

var one = decimal.NewFromInt(1)

// Validate checks that slabs ascend strictly, that exactly the last slab is
// open-ended, and that every rate is within [0, 1].
func (r TaxRegime) Validate() error {
	if r.FinancialYear.StartYear == 0 {
		return &generic.ValidationError{Field: "financial_year", Reason: "required"}
	}
	if err := checkRate("presumptive_rate", r.PresumptiveRate); err != nil {
		return err
	}
	if err := checkRate("cess_rate", r.CessRate); err != nil {
		return err
	}
	if r.RebateCeiling.IsNegative() || r.RebateCap.IsNegative() {
		return &generic.ValidationError{Field: "rebate", Reason: "must not be negative"}
	}
	if len(r.Slabs) == 0 {
		return &generic.ValidationError{Field: "slabs", Reason: "at least one slab required"}
	}

	lower := decimal.Zero
	for i, s := range r.Slabs {
		if err := checkRate(fmt.Sprintf("slabs[%d].rate", i), s.Rate); err != nil {
			return err
		}
		last := i == len(r.Slabs)-1
		if s.UpTo == nil {
			if !last {
				return &generic.ValidationError{Field: fmt.Sprintf("slabs[%d].up_to", i), Reason: "only the last slab may be open-ended"}
			}
			continue
		}
		if last {
			return &generic.ValidationError{Field: fmt.Sprintf("slabs[%d].up_to", i), Reason: "last slab must be open-ended"}
		}
		if !s.UpTo.GreaterThan(lower) {
			return &generic.ValidationError{Field: fmt.Sprintf("slabs[%d].up_to", i), Value: s.UpTo.String(), Reason: "slabs must ascend"}
		}
		lower = *s.UpTo
	}
	return nil
}

func checkRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(one) {
		return &generic.ValidationError{Field: field, Value: rate.String(), Reason: "must be between 0 and 1"}
	}
	return nil
}

// =============================================================================
// TAX COMPUTATION
// =============================================================================

// SlabLine is the tax attributed to one slab.
type SlabLine struct {
	From    decimal.Decimal
	UpTo    *decimal.Decimal
	Rate    decimal.Decimal
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// TaxBreakdown is the full computation for one gross receipts figure.
type TaxBreakdown struct {
	FinancialYear  generic.FinancialYear
	GrossReceipts  decimal.Decimal
	TaxableIncome  decimal.Decimal
	Lines          []SlabLine
	SlabTax        decimal.Decimal
	RebateEligible bool
	Rebate         decimal.Decimal
	TaxAfterRebate decimal.Decimal
	Cess           decimal.Decimal
	Total          decimal.Decimal
}

// EffectiveRate is Total / GrossReceipts, zero when there are no receipts.
func (b TaxBreakdown) EffectiveRate() decimal.Decimal {
	if b.GrossReceipts.IsZero() {
		return decimal.Zero
	}
	return b.Total.Div(b.GrossReceipts)
}

// ComputeTax applies regime to grossReceipts. Negative receipts are
// treated as zero. The regime is assumed valid.
func ComputeTax(regime TaxRegime, grossReceipts decimal.Decimal) TaxBreakdown {
	if grossReceipts.IsNegative() {
		grossReceipts = decimal.Zero
	}
	taxable := grossReceipts.Mul(regime.PresumptiveRate)

	b := TaxBreakdown{
		FinancialYear: regime.FinancialYear,
		GrossReceipts: grossReceipts,
		TaxableIncome: taxable,
	}
	b.Lines, b.SlabTax = walkSlabs(regime.Slabs, taxable)

	b.RebateEligible = taxable.LessThanOrEqual(regime.RebateCeiling)
	if b.RebateEligible {
		b.Rebate = decimal.Min(b.SlabTax, regime.RebateCap)
	} else {
		b.Rebate = decimal.Zero
	}

	b.TaxAfterRebate = b.SlabTax.Sub(b.Rebate)
	b.Cess = b.TaxAfterRebate.Mul(regime.CessRate)
	b.Total = b.TaxAfterRebate.Add(b.Cess)
	return b
}

// walkSlabs taxes income band by band in ascending order and stops as soon
// as nothing remains. Lines are only emitted for slabs that received income.
func walkSlabs(slabs []Slab, income decimal.Decimal) ([]SlabLine, decimal.Decimal) {
	var lines []SlabLine
	total := decimal.Zero
	remaining := income
	lower := decimal.Zero

	for _, s := range slabs {
		if !remaining.IsPositive() {
			break
		}
		inSlab := remaining
		if s.UpTo != nil {
			inSlab = decimal.Min(remaining, s.UpTo.Sub(lower))
		}
		tax := inSlab.Mul(s.Rate)
		lines = append(lines, SlabLine{From: lower, UpTo: s.UpTo, Rate: s.Rate, Taxable: inSlab, Tax: tax})

		total = total.Add(tax)
		remaining = remaining.Sub(inSlab)
		if s.UpTo != nil {
			lower = *s.UpTo
		}
	}
	return lines, total
}
