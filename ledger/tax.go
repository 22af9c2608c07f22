package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// TAX PAYMENTS
// =============================================================================

func (s *Service) RecordTaxPayment(ctx context.Context, p earnings.TaxPayment) (earnings.TaxPayment, error) {
	if err := p.Validate(); err != nil {
		return earnings.TaxPayment{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = s.now()
	if err := s.store.SaveTaxPayment(ctx, p); err != nil {
		return earnings.TaxPayment{}, fmt.Errorf("save tax payment: %w", err)
	}
	s.logger.Info("tax payment recorded",
		slog.String("financial_year", p.FinancialYear.String()),
		slog.String("kind", string(p.Kind)),
		slog.String("amount", p.Amount.String()))
	return p, nil
}

func (s *Service) ListTaxPayments(ctx context.Context, fy generic.FinancialYear) ([]earnings.TaxPayment, error) {
	return s.store.ListTaxPayments(ctx, fy)
}

// =============================================================================
// TAX PROJECTION
// =============================================================================

// TaxReport is the full tax view of a financial year.
type TaxReport struct {
	Projection earnings.Projection
	Tax        earnings.TaxBreakdown
	Liability  earnings.Liability
	DailyRate  decimal.Decimal
}

// ComputeTax applies the regime of fy to grossReceipts.
func (s *Service) ComputeTax(fy generic.FinancialYear, grossReceipts decimal.Decimal) (earnings.TaxBreakdown, error) {
	regime, err := s.regimes.Lookup(fy)
	if err != nil {
		return earnings.TaxBreakdown{}, err
	}
	return earnings.ComputeTax(regime, grossReceipts), nil
}

// TaxProjection projects income for fy from today and computes the tax
// and outstanding liability on actual plus projected receipts.
//
// A zero dailyRate falls back to the rate of the most recently created
// active project.
func (s *Service) TaxProjection(ctx context.Context, fy generic.FinancialYear, dailyRate decimal.Decimal) (TaxReport, error) {
	regime, err := s.regimes.Lookup(fy)
	if err != nil {
		return TaxReport{}, err
	}
	if dailyRate.IsZero() {
		if dailyRate, err = s.defaultDailyRate(ctx); err != nil {
			return TaxReport{}, err
		}
	}

	period := fy.Period()
	invoices, err := s.store.ListInvoices(ctx, InvoiceFilter{
		Status:   billing.StatusPaid,
		PaidFrom: period.Start,
		PaidTo:   period.End,
	})
	if err != nil {
		return TaxReport{}, err
	}
	var paid []earnings.PaidInvoice
	for _, inv := range invoices {
		if p, ok := inv.Paid(); ok {
			paid = append(paid, p)
		}
	}

	asOf := s.Today()
	months, err := s.remainingSummaries(ctx, fy, asOf)
	if err != nil {
		return TaxReport{}, err
	}

	projection, err := earnings.ProjectIncome(earnings.ProjectionInput{
		FinancialYear: fy,
		AsOf:          asOf,
		DailyRate:     dailyRate,
		Paid:          paid,
		Months:        months,
	})
	if err != nil {
		return TaxReport{}, err
	}

	payments, err := s.store.ListTaxPayments(ctx, fy)
	if err != nil {
		return TaxReport{}, err
	}

	breakdown := earnings.ComputeTax(regime, projection.GrossReceipts())
	return TaxReport{
		Projection: projection,
		Tax:        breakdown,
		Liability:  earnings.ComputeLiability(breakdown, payments),
		DailyRate:  dailyRate,
	}, nil
}

// remainingSummaries builds a summary for every remaining month of fy,
// honouring leave already booked in the future.
func (s *Service) remainingSummaries(ctx context.Context, fy generic.FinancialYear, asOf generic.Date) (map[generic.YearMonth]calendar.MonthSummary, error) {
	remaining := earnings.RemainingMonths(fy, asOf)
	summaries := make(map[generic.YearMonth]calendar.MonthSummary, len(remaining))
	if len(remaining) == 0 {
		return summaries, nil
	}

	records, err := s.store.DaysBetween(ctx, remaining[0].First(), remaining[len(remaining)-1].Last())
	if err != nil {
		return nil, err
	}
	byMonth := make(map[generic.YearMonth][]calendar.DayRecord)
	for _, r := range records {
		byMonth[r.Date.YearMonth()] = append(byMonth[r.Date.YearMonth()], r)
	}

	for _, m := range remaining {
		view, err := calendar.BuildMonth(byMonth[m], m, s.holidays)
		if err != nil {
			return nil, err
		}
		summaries[m] = view.Summary
	}
	return summaries, nil
}

func (s *Service) defaultDailyRate(ctx context.Context) (decimal.Decimal, error) {
	projects, err := s.store.ListProjects(ctx, "")
	if err != nil {
		return decimal.Zero, err
	}
	var latest *billing.Project
	for i := range projects {
		p := &projects[i]
		if p.Active && (latest == nil || p.CreatedAt.After(latest.CreatedAt)) {
			latest = p
		}
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.DailyRate, nil
}
