package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// CLIENTS & PROJECTS
// =============================================================================

func (s *Service) CreateClient(ctx context.Context, name, email, currency, address string) (billing.Client, error) {
	c, err := billing.NewClient(name, email, currency, address, s.now())
	if err != nil {
		return billing.Client{}, err
	}
	if err := s.store.SaveClient(ctx, c); err != nil {
		return billing.Client{}, fmt.Errorf("save client: %w", err)
	}
	s.logger.Info("client created", slog.String("client_id", c.ID), slog.String("currency", c.Currency))
	return c, nil
}

func (s *Service) GetClient(ctx context.Context, id string) (billing.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return billing.Client{}, err
	}
	if c == nil {
		return billing.Client{}, &generic.NotFoundError{Kind: "client", ID: id}
	}
	return *c, nil
}

func (s *Service) ListClients(ctx context.Context) ([]billing.Client, error) {
	return s.store.ListClients(ctx)
}

func (s *Service) CreateProject(ctx context.Context, clientID, name string, dailyRate decimal.Decimal) (billing.Project, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return billing.Project{}, err
	}
	p, err := billing.NewProject(client, name, dailyRate, s.now())
	if err != nil {
		return billing.Project{}, err
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return billing.Project{}, fmt.Errorf("save project: %w", err)
	}
	s.logger.Info("project created", slog.String("project_id", p.ID), slog.String("client_id", clientID))
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (billing.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return billing.Project{}, err
	}
	if p == nil {
		return billing.Project{}, &generic.NotFoundError{Kind: "project", ID: id}
	}
	return *p, nil
}

func (s *Service) ListProjects(ctx context.Context, clientID string) ([]billing.Project, error) {
	return s.store.ListProjects(ctx, clientID)
}

// SetProjectActive archives or reactivates a project.
func (s *Service) SetProjectActive(ctx context.Context, id string, active bool) (billing.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return billing.Project{}, err
	}
	p.Active = active
	if err := s.store.SaveProject(ctx, p); err != nil {
		return billing.Project{}, err
	}
	return p, nil
}

// =============================================================================
// INVOICES
// =============================================================================

// DraftInvoice bills one month of a project. The billed days are the
// effective working days of the month's entries that belong to the
// project: records booked to it, plus implicit days and unassigned
// records when it is the only active project.
//
// A project can have one live (non-cancelled) invoice per month.
func (s *Service) DraftInvoice(ctx context.Context, projectID string, month generic.YearMonth, notes string) (billing.Invoice, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return billing.Invoice{}, err
	}
	if !project.Active {
		return billing.Invoice{}, &generic.StateError{Kind: "project", ID: project.ID, State: "inactive", Action: "invoice"}
	}

	existing, err := s.store.ListInvoices(ctx, InvoiceFilter{ProjectID: project.ID})
	if err != nil {
		return billing.Invoice{}, err
	}
	for _, inv := range existing {
		if inv.Status != billing.StatusCancelled && inv.Period.Start == month.First() {
			return billing.Invoice{}, fmt.Errorf("%w: %s already invoiced for %s as %s", generic.ErrConflict, project.Name, month, inv.Number)
		}
	}

	summary, err := s.projectSummary(ctx, project, month)
	if err != nil {
		return billing.Invoice{}, err
	}
	if summary.EffectiveWorkingDays.IsZero() {
		return billing.Invoice{}, &generic.ValidationError{Field: "month", Value: month.String(), Reason: "no billable days for project"}
	}

	today := s.Today()
	seq, err := s.store.NextInvoiceSequence(ctx, today.Year())
	if err != nil {
		return billing.Invoice{}, fmt.Errorf("next invoice number: %w", err)
	}

	period := generic.Period{Start: month.First(), End: month.Last()}
	inv, err := billing.NewDraft(billing.InvoiceNumber(today.Year(), seq), project, period, summary.EffectiveWorkingDays, s.now())
	if err != nil {
		return billing.Invoice{}, err
	}
	inv.Notes = notes

	if err := s.store.SaveInvoice(ctx, inv); err != nil {
		return billing.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	s.logger.Info("invoice drafted",
		slog.String("number", inv.Number),
		slog.String("project_id", project.ID),
		slog.String("days", inv.Days.String()),
		slog.String("total", inv.Total.String()))
	return inv, nil
}

func (s *Service) projectSummary(ctx context.Context, project billing.Project, month generic.YearMonth) (calendar.MonthSummary, error) {
	view, err := s.Month(ctx, month)
	if err != nil {
		return calendar.MonthSummary{}, err
	}

	sole, err := s.soleActiveProject(ctx, project.ID)
	if err != nil {
		return calendar.MonthSummary{}, err
	}

	var mine []calendar.Entry
	for _, e := range view.Entries {
		switch pid := calendar.ProjectOf(e); {
		case pid == project.ID:
			mine = append(mine, e)
		case pid == "" && sole:
			mine = append(mine, e)
		}
	}
	return calendar.Summarize(mine), nil
}

func (s *Service) soleActiveProject(ctx context.Context, projectID string) (bool, error) {
	projects, err := s.store.ListProjects(ctx, "")
	if err != nil {
		return false, err
	}
	for _, p := range projects {
		if p.Active && p.ID != projectID {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (billing.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return billing.Invoice{}, err
	}
	if inv == nil {
		return billing.Invoice{}, &generic.NotFoundError{Kind: "invoice", ID: id}
	}
	return *inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, f InvoiceFilter) ([]billing.Invoice, error) {
	return s.store.ListInvoices(ctx, f)
}

// SendInvoice issues a draft today, due after the configured number of days.
func (s *Service) SendInvoice(ctx context.Context, id string) (billing.Invoice, error) {
	return s.updateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.Send(s.Today(), s.dueDays, s.now())
	})
}

// RecordPayment marks a sent or overdue invoice paid and derives its
// deductions from what the bank credited.
func (s *Service) RecordPayment(ctx context.Context, id string, paidOn generic.Date, received, conversionRate decimal.Decimal) (billing.Invoice, error) {
	return s.updateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.Pay(paidOn, received, conversionRate, s.now())
	})
}

func (s *Service) CancelInvoice(ctx context.Context, id string) (billing.Invoice, error) {
	return s.updateInvoice(ctx, id, func(inv *billing.Invoice) error {
		return inv.Cancel(s.now())
	})
}

func (s *Service) updateInvoice(ctx context.Context, id string, change func(*billing.Invoice) error) (billing.Invoice, error) {
	inv, err := s.GetInvoice(ctx, id)
	if err != nil {
		return billing.Invoice{}, err
	}
	from := inv.Status
	if err := change(&inv); err != nil {
		return billing.Invoice{}, err
	}
	if err := s.store.SaveInvoice(ctx, inv); err != nil {
		return billing.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	s.logger.Info("invoice status changed",
		slog.String("number", inv.Number),
		slog.String("from", string(from)),
		slog.String("to", string(inv.Status)))
	return inv, nil
}

// SweepOverdue marks every sent invoice due before today as overdue and
// returns the invoices it changed.
func (s *Service) SweepOverdue(ctx context.Context, today generic.Date) ([]billing.Invoice, error) {
	sent, err := s.store.ListInvoices(ctx, InvoiceFilter{Status: billing.StatusSent})
	if err != nil {
		return nil, err
	}

	var changed []billing.Invoice
	for _, inv := range sent {
		if !inv.MarkOverdue(today, s.now()) {
			continue
		}
		if err := s.store.SaveInvoice(ctx, inv); err != nil {
			return changed, fmt.Errorf("save invoice %s: %w", inv.Number, err)
		}
		changed = append(changed, inv)
	}
	if len(changed) > 0 {
		s.logger.Info("invoices overdue", slog.Int("count", len(changed)), slog.String("as_of", today.String()))
	}
	return changed, nil
}
