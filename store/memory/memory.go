// Package memory provides an in-memory ledger.Store for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	nextDayID   int64
	days        map[generic.Date]calendar.DayRecord
	clients     map[string]billing.Client
	projects    map[string]billing.Project
	invoices    map[string]billing.Invoice
	counters    map[int]int
	taxPayments []earnings.TaxPayment
	settings    map[string][]byte
}

var _ ledger.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		days:     make(map[generic.Date]calendar.DayRecord),
		clients:  make(map[string]billing.Client),
		projects: make(map[string]billing.Project),
		invoices: make(map[string]billing.Invoice),
		counters: make(map[int]int),
		settings: make(map[string][]byte),
	}
}

// =============================================================================
// DAYS
// =============================================================================

func (m *Memory) UpsertDay(_ context.Context, r calendar.DayRecord) (calendar.DayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.days[r.Date]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		m.nextDayID++
		r.ID = m.nextDayID
	}
	m.days[r.Date] = r
	return r, nil
}

func (m *Memory) DeleteDay(_ context.Context, date generic.Date) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.days[date]; !ok {
		return false, nil
	}
	delete(m.days, date)
	return true, nil
}

func (m *Memory) GetDay(_ context.Context, date generic.Date) (*calendar.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.days[date]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) DaysBetween(_ context.Context, from, to generic.Date) ([]calendar.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []calendar.DayRecord
	for d, r := range m.days {
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && d.After(to) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// =============================================================================
// CLIENTS & PROJECTS
// =============================================================================

func (m *Memory) SaveClient(_ context.Context, c billing.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = c
	return nil
}

func (m *Memory) GetClient(_ context.Context, id string) (*billing.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) ListClients(_ context.Context) ([]billing.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]billing.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SaveProject(_ context.Context, p billing.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*billing.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) ListProjects(_ context.Context, clientID string) ([]billing.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []billing.Project
	for _, p := range m.projects {
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// INVOICES
// =============================================================================

// SaveInvoice rejects a number already used by another invoice, like the
// unique index in the SQLite store.
func (m *Memory) SaveInvoice(_ context.Context, inv billing.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, other := range m.invoices {
		if id != inv.ID && other.Number == inv.Number {
			return fmt.Errorf("%w: invoice number %s already used", generic.ErrConflict, inv.Number)
		}
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (*billing.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (m *Memory) ListInvoices(_ context.Context, f ledger.InvoiceFilter) ([]billing.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []billing.Invoice
	for _, inv := range m.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.ClientID != "" && inv.ClientID != f.ClientID {
			continue
		}
		if f.ProjectID != "" && inv.ProjectID != f.ProjectID {
			continue
		}
		if !f.PaidFrom.IsZero() && (inv.PaidOn.IsZero() || inv.PaidOn.Before(f.PaidFrom)) {
			continue
		}
		if !f.PaidTo.IsZero() && (inv.PaidOn.IsZero() || inv.PaidOn.After(f.PaidTo)) {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *Memory) NextInvoiceSequence(_ context.Context, year int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[year]++
	return m.counters[year], nil
}

// =============================================================================
// TAX PAYMENTS & SETTINGS
// =============================================================================

func (m *Memory) SaveTaxPayment(_ context.Context, p earnings.TaxPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taxPayments = append(m.taxPayments, p)
	return nil
}

func (m *Memory) ListTaxPayments(_ context.Context, fy generic.FinancialYear) ([]earnings.TaxPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []earnings.TaxPayment
	for _, p := range m.taxPayments {
		if p.FinancialYear == fy {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidOn.Before(out[j].PaidOn) })
	return out, nil
}

func (m *Memory) GetSetting(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) PutSetting(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = append([]byte(nil), value...)
	return nil
}
