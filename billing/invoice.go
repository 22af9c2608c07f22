package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusDraft:   {StatusSent, StatusCancelled},
	StatusSent:    {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue: {StatusPaid, StatusCancelled},
}

// CanTransition reports whether an invoice in from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", &generic.ValidationError{Field: "status", Value: s, Reason: "unknown invoice status"}
	}
	return st, nil
}

// =============================================================================
// INVOICE
// =============================================================================

type Invoice struct {
	ID        string
	Number    string
	ClientID  string
	ProjectID string
	Period    generic.Period
	Currency  string
	Days      decimal.Decimal
	DailyRate decimal.Decimal
	Total     decimal.Decimal
	Status    Status
	IssuedOn  generic.Date
	DueOn     generic.Date
	Notes     string

	// Set when paid.
	PaidOn         generic.Date
	ConversionRate decimal.Decimal
	Received       decimal.Decimal
	Deductions     decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceNumber formats the seq-th invoice of year as INV-2025-0007.
func InvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%04d-%04d", year, seq)
}

// NewDraft bills days of project over period. Total = days * rate.
func NewDraft(number string, project Project, period generic.Period, days decimal.Decimal, now time.Time) (Invoice, error) {
	if days.IsNegative() {
		return Invoice{}, &generic.ValidationError{Field: "days", Value: days.String(), Reason: "must not be negative"}
	}
	return Invoice{
		ID:        uuid.NewString(),
		Number:    number,
		ClientID:  project.ClientID,
		ProjectID: project.ID,
		Period:    period,
		Currency:  project.Currency,
		Days:      days,
		DailyRate: project.DailyRate,
		Total:     days.Mul(project.DailyRate),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (inv *Invoice) transition(to Status, action string, now time.Time) error {
	if !CanTransition(inv.Status, to) {
		return &generic.StateError{Kind: "invoice", ID: inv.Number, State: string(inv.Status), Action: action}
	}
	inv.Status = to
	inv.UpdatedAt = now
	return nil
}

// Send issues a draft on the given date, due dueDays later.
func (inv *Invoice) Send(issuedOn generic.Date, dueDays int, now time.Time) error {
	if dueDays < 0 {
		return &generic.ValidationError{Field: "due_days", Reason: "must not be negative"}
	}
	if err := inv.transition(StatusSent, "send", now); err != nil {
		return err
	}
	inv.IssuedOn = issuedOn
	inv.DueOn = issuedOn.AddDays(dueDays)
	return nil
}

// Pay reconciles a sent or overdue invoice against what the bank credited.
func (inv *Invoice) Pay(paidOn generic.Date, received, conversionRate decimal.Decimal, now time.Time) error {
	if paidOn.IsZero() {
		return &generic.ValidationError{Field: "paid_on", Reason: "required"}
	}
	if received.IsNegative() {
		return &generic.ValidationError{Field: "received", Value: received.String(), Reason: "must not be negative"}
	}
	if !conversionRate.IsPositive() {
		return &generic.ValidationError{Field: "conversion_rate", Value: conversionRate.String(), Reason: "must be positive"}
	}
	if err := inv.transition(StatusPaid, "pay", now); err != nil {
		return err
	}
	inv.PaidOn = paidOn
	inv.Received = received
	inv.ConversionRate = conversionRate
	inv.Deductions = decimal.Max(inv.Total.Mul(conversionRate).Sub(received), decimal.Zero)
	return nil
}

// MarkOverdue moves a sent invoice whose due date is before today to
// overdue. It reports whether the invoice changed.
func (inv *Invoice) MarkOverdue(today generic.Date, now time.Time) bool {
	if inv.Status != StatusSent || inv.DueOn.IsZero() || !inv.DueOn.Before(today) {
		return false
	}
	return inv.transition(StatusOverdue, "mark overdue", now) == nil
}

func (inv *Invoice) Cancel(now time.Time) error {
	return inv.transition(StatusCancelled, "cancel", now)
}

// Paid is the projection's view of a paid invoice.
func (inv Invoice) Paid() (earnings.PaidInvoice, bool) {
	if inv.Status != StatusPaid {
		return earnings.PaidInvoice{}, false
	}
	return earnings.PaidInvoice{
		InvoiceID:      inv.ID,
		PaidOn:         inv.PaidOn,
		Total:          inv.Total,
		ConversionRate: inv.ConversionRate,
		Received:       inv.Received,
		Deductions:     inv.Deductions,
	}, true
}
