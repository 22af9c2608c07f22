/*
Package billing holds the freelancer's clients, projects and invoices.

PURPOSE:
  Clients pay in their own currency. Each project has a daily rate in that
  currency. An invoice bills the effective working days of one month of
  one project and moves through a small state machine until it is paid
  in the home currency.

INVOICE LIFECYCLE:
  draft -> sent -> paid
             |       ^
             v       |
          overdue ---+
  draft, sent, overdue -> cancelled

  Paid and cancelled are terminal.

RECONCILIATION:
  On payment the bank credits Received in the home currency at some
  ConversionRate. Deductions = Total * ConversionRate - Received, floored
  at zero, is what was lost to charges and spread.

SEE ALSO:
  - earnings/invoice.go: PaidInvoice, the projection's view of a paid invoice
  - ledger/invoices.go: Drafting invoices from month summaries
*/
package billing

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/daybook/generic"
)

// DefaultCurrency is used when a client has none.
const DefaultCurrency = "USD"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCurrency upper-cases code and checks it is a three-letter ISO code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if !currencyPattern.MatchString(code) {
		return "", &generic.ValidationError{Field: "currency", Value: code, Reason: "expected ISO 4217 code"}
	}
	return code, nil
}

// =============================================================================
// CLIENT
// =============================================================================

type Client struct {
	ID        string
	Name      string
	Email     string
	Currency  string
	Address   string
	CreatedAt time.Time
}

// NewClient assigns an ID and normalizes the currency.
func NewClient(name, email, currency, address string, now time.Time) (Client, error) {
	c := Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Address:   address,
		CreatedAt: now,
	}
	var err error
	if c.Currency, err = NormalizeCurrency(currency); err != nil {
		return Client{}, err
	}
	if c.Name == "" {
		return Client{}, &generic.ValidationError{Field: "name", Reason: "required"}
	}
	return c, nil
}

// =============================================================================
// PROJECT
// =============================================================================

type Project struct {
	ID        string
	ClientID  string
	Name      string
	DailyRate decimal.Decimal
	Currency  string
	Active    bool
	CreatedAt time.Time
}

// NewProject creates an active project billed in the client's currency.
func NewProject(client Client, name string, dailyRate decimal.Decimal, now time.Time) (Project, error) {
	p := Project{
		ID:        uuid.NewString(),
		ClientID:  client.ID,
		Name:      strings.TrimSpace(name),
		DailyRate: dailyRate,
		Currency:  client.Currency,
		Active:    true,
		CreatedAt: now,
	}
	if p.Name == "" {
		return Project{}, &generic.ValidationError{Field: "name", Reason: "required"}
	}
	if dailyRate.IsNegative() {
		return Project{}, &generic.ValidationError{Field: "daily_rate", Value: dailyRate.String(), Reason: "must not be negative"}
	}
	return p, nil
}
