package earnings

import (
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// PaidInvoice is what the projection needs to know about a settled invoice.
// Total is in the invoice currency; Received and Deductions are in the home
// currency.
type PaidInvoice struct {
	InvoiceID      string
	PaidOn         generic.Date
	Total          decimal.Decimal
	ConversionRate decimal.Decimal
	Received       decimal.Decimal
	Deductions     decimal.Decimal
}

// Gross is Total converted at ConversionRate, before deductions.
func (p PaidInvoice) Gross() decimal.Decimal {
	return p.Total.Mul(p.ConversionRate)
}

// DeductionFraction is the share of Gross lost to deductions. Zero when
// Gross is zero.
func (p PaidInvoice) DeductionFraction() decimal.Decimal {
	gross := p.Gross()
	if gross.IsZero() {
		return decimal.Zero
	}
	return p.Deductions.Div(gross)
}

// Rates are invoice-total weighted averages over a set of paid invoices.
type Rates struct {
	ConversionRate    decimal.Decimal
	DeductionFraction decimal.Decimal
	Weight            decimal.Decimal // sum of invoice totals
	Invoices          int
}

// NetFactor is ConversionRate * (1 - DeductionFraction): home currency
// actually received per unit billed.
func (r Rates) NetFactor() decimal.Decimal {
	return r.ConversionRate.Mul(one.Sub(r.DeductionFraction))
}

// WeightedRates averages conversion rate and deduction fraction weighted
// by invoice total. With no invoices, or totals summing to zero, both
// averages are zero.
func WeightedRates(paid []PaidInvoice) Rates {
	weight := decimal.Zero
	rateSum := decimal.Zero
	fracSum := decimal.Zero
	for _, p := range paid {
		weight = weight.Add(p.Total)
		rateSum = rateSum.Add(p.Total.Mul(p.ConversionRate))
		fracSum = fracSum.Add(p.Total.Mul(p.DeductionFraction()))
	}

	r := Rates{Weight: weight, Invoices: len(paid)}
	if weight.IsZero() {
		r.ConversionRate = decimal.Zero
		r.DeductionFraction = decimal.Zero
		return r
	}
	r.ConversionRate = rateSum.Div(weight)
	r.DeductionFraction = fracSum.Div(weight)
	return r
}
