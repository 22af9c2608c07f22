package earnings

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// =============================================================================
// TAX PAYMENTS & LIABILITY
// =============================================================================

type PaymentKind string

const (
	PaymentAdvance        PaymentKind = "advance"
	PaymentSelfAssessment PaymentKind = "self_assessment"
	PaymentTDS            PaymentKind = "tds"
)

func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentAdvance, PaymentSelfAssessment, PaymentTDS:
		return true
	}
	return false
}

// TaxPayment is tax already paid or withheld for a financial year.
type TaxPayment struct {
	ID            string
	FinancialYear generic.FinancialYear
	PaidOn        generic.Date
	Amount        decimal.Decimal
	Kind          PaymentKind
	Reference     string
	CreatedAt     time.Time
}

func (p TaxPayment) Validate() error {
	if p.FinancialYear.StartYear == 0 {
		return &generic.ValidationError{Field: "financial_year", Reason: "required"}
	}
	if p.PaidOn.IsZero() {
		return &generic.ValidationError{Field: "paid_on", Reason: "required"}
	}
	if !p.Amount.IsPositive() {
		return &generic.ValidationError{Field: "amount", Value: p.Amount.String(), Reason: "must be positive"}
	}
	if !p.Kind.Valid() {
		return &generic.ValidationError{Field: "kind", Value: string(p.Kind), Reason: "unknown payment kind"}
	}
	return nil
}

// Liability compares tax due with what has been paid for the same year.
// Outstanding is negative when more was paid than is due.
type Liability struct {
	FinancialYear generic.FinancialYear
	Due           decimal.Decimal
	Paid          decimal.Decimal
	Outstanding   decimal.Decimal
	PaidByKind    map[PaymentKind]decimal.Decimal
	DueBy         generic.Date
}

// AdvanceTaxDueDate is the single advance-tax instalment date for
// presumptive taxpayers: 15 March of the year in which fy ends.
func AdvanceTaxDueDate(fy generic.FinancialYear) generic.Date {
	return generic.NewDate(fy.StartYear+1, time.March, 15)
}

// ComputeLiability sums payments recorded for the breakdown's financial
// year. Payments for other years are ignored.
func ComputeLiability(b TaxBreakdown, payments []TaxPayment) Liability {
	l := Liability{
		FinancialYear: b.FinancialYear,
		Due:           b.Total,
		Paid:          decimal.Zero,
		PaidByKind:    make(map[PaymentKind]decimal.Decimal),
		DueBy:         AdvanceTaxDueDate(b.FinancialYear),
	}
	for _, p := range payments {
		if p.FinancialYear != b.FinancialYear {
			continue
		}
		l.Paid = l.Paid.Add(p.Amount)
		l.PaidByKind[p.Kind] = l.PaidByKind[p.Kind].Add(p.Amount)
	}
	l.Outstanding = l.Due.Sub(l.Paid)
	return l
}
