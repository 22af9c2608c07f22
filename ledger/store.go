package ledger

import (
	"context"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// STORAGE INTERFACES
// =============================================================================
//
// Lookups by ID return (nil, nil) when the record does not exist; the
// service turns that into a NotFoundError.

// DayStore persists explicit day records, at most one per date.
type DayStore interface {
	// UpsertDay inserts or replaces the record for r.Date.
	UpsertDay(ctx context.Context, r calendar.DayRecord) (calendar.DayRecord, error)

	// DeleteDay removes the record for date; false if there was none.
	DeleteDay(ctx context.Context, date generic.Date) (bool, error)

	GetDay(ctx context.Context, date generic.Date) (*calendar.DayRecord, error)

	// DaysBetween returns records in [from, to] ordered by date. A zero
	// bound is open.
	DaysBetween(ctx context.Context, from, to generic.Date) ([]calendar.DayRecord, error)
}

type ClientStore interface {
	SaveClient(ctx context.Context, c billing.Client) error
	GetClient(ctx context.Context, id string) (*billing.Client, error)
	ListClients(ctx context.Context) ([]billing.Client, error)
}

type ProjectStore interface {
	SaveProject(ctx context.Context, p billing.Project) error
	GetProject(ctx context.Context, id string) (*billing.Project, error)
	// ListProjects returns all projects, or one client's when clientID is set.
	ListProjects(ctx context.Context, clientID string) ([]billing.Project, error)
}

// InvoiceFilter narrows ListInvoices. Zero fields match everything.
type InvoiceFilter struct {
	Status    billing.Status
	ClientID  string
	ProjectID string
	PaidFrom  generic.Date
	PaidTo    generic.Date
}

type InvoiceStore interface {
	// SaveInvoice inserts or replaces by ID.
	SaveInvoice(ctx context.Context, inv billing.Invoice) error
	GetInvoice(ctx context.Context, id string) (*billing.Invoice, error)
	ListInvoices(ctx context.Context, f InvoiceFilter) ([]billing.Invoice, error)

	// NextInvoiceSequence atomically increments and returns the counter
	// for year, starting at 1.
	NextInvoiceSequence(ctx context.Context, year int) (int, error)
}

type TaxPaymentStore interface {
	SaveTaxPayment(ctx context.Context, p earnings.TaxPayment) error
	ListTaxPayments(ctx context.Context, fy generic.FinancialYear) ([]earnings.TaxPayment, error)
}

// SettingsStore holds JSON-encoded settings by key.
type SettingsStore interface {
	// GetSetting returns nil when the key is unset.
	GetSetting(ctx context.Context, key string) ([]byte, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// Store is everything the service needs.
type Store interface {
	DayStore
	ClientStore
	ProjectStore
	InvoiceStore
	TaxPaymentStore
	SettingsStore
}

// Setting keys.
const (
	SettingLeavePolicy  = "leave_policy"
	SettingHomeCurrency = "home_currency"
)
