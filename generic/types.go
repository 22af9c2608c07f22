/*
Package generic provides the primitives shared by the daybook engine.

PURPOSE:
  This package contains the domain-agnostic building blocks used by the
  calendar, leave and earnings packages: day-granular dates, year-months,
  financial-year periods, decimal quantities and the error vocabulary.
  Nothing here knows about invoices, leave or tax.

KEY CONCEPTS:
  - Amount: A quantity with a unit (e.g., 2.5 days, 3 months)
  - AccrualSchedule (accrual.go): Something that grants quantities over time

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so half days and rupees never drift
  2. Value types: Dates and amounts are comparable values, safe as map keys
  3. Explicit inputs: No ambient state, every calculation takes what it needs

USAGE:
  halfDay := generic.NewAmount(0.5, generic.UnitDays)
  total := generic.NewAmountFromInt(3, generic.UnitDays).Sub(halfDay)

SEE ALSO:
  - time.go: Date and YearMonth
  - period.go: Period and FinancialYear
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays   Unit = "days"
	UnitMonths Unit = "months"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// MustParseDecimal parses s, returning zero for malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Unit == b.Unit && a.Value.Equal(b.Value) }

func (a Amount) String() string { return a.Value.String() + " " + string(a.Unit) }
