package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/billing"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/ledger"
)

func TestDaysBetween_OpenBounds(t *testing.T) {
	ctx := context.Background()
	m := New()
	for _, d := range []string{"2025-12-03", "2025-11-28", "2026-01-05"} {
		_, err := m.UpsertDay(ctx, calendar.DayRecord{Date: generic.MustParseDate(d), Type: calendar.DayLeave})
		require.NoError(t, err)
	}

	all, err := m.DaysBetween(ctx, generic.Date{}, generic.Date{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-11-28", all[0].Date.String())
	assert.Equal(t, "2026-01-05", all[2].Date.String())

	upTo, err := m.DaysBetween(ctx, generic.Date{}, generic.MustParseDate("2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, upTo, 2)
}

func TestUpsertDay_KeepsIdentity(t *testing.T) {
	ctx := context.Background()
	m := New()
	date := generic.MustParseDate("2025-12-01")

	first, err := m.UpsertDay(ctx, calendar.DayRecord{Date: date, Type: calendar.DayLeave})
	require.NoError(t, err)
	second, err := m.UpsertDay(ctx, calendar.DayRecord{Date: date, Type: calendar.DayHalfDay})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	got, err := m.GetDay(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, calendar.DayHalfDay, got.Type)
}

func TestSaveInvoice_NumberIsUnique(t *testing.T) {
	ctx := context.Background()
	m := New()

	a := billing.Invoice{ID: "a", Number: "INV-2026-0001", Status: billing.StatusDraft, Total: decimal.NewFromInt(10)}
	require.NoError(t, m.SaveInvoice(ctx, a))

	// Re-saving the same invoice is an update.
	a.Status = billing.StatusSent
	require.NoError(t, m.SaveInvoice(ctx, a))

	err := m.SaveInvoice(ctx, billing.Invoice{ID: "b", Number: "INV-2026-0001"})
	assert.ErrorIs(t, err, generic.ErrConflict)
}

func TestListInvoices_PaidWindow(t *testing.T) {
	ctx := context.Background()
	m := New()
	require.NoError(t, m.SaveInvoice(ctx, billing.Invoice{ID: "1", Number: "INV-2025-0002", Status: billing.StatusPaid, PaidOn: generic.MustParseDate("2025-03-31")}))
	require.NoError(t, m.SaveInvoice(ctx, billing.Invoice{ID: "2", Number: "INV-2025-0003", Status: billing.StatusPaid, PaidOn: generic.MustParseDate("2025-04-01")}))
	require.NoError(t, m.SaveInvoice(ctx, billing.Invoice{ID: "3", Number: "INV-2025-0001", Status: billing.StatusSent}))

	fy := generic.FinancialYear{StartYear: 2025}.Period()
	paid, err := m.ListInvoices(ctx, ledger.InvoiceFilter{PaidFrom: fy.Start, PaidTo: fy.End})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "INV-2025-0003", paid[0].Number)

	all, err := m.ListInvoices(ctx, ledger.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "INV-2025-0001", all[0].Number)
}

func TestSequencesAndSettings(t *testing.T) {
	ctx := context.Background()
	m := New()

	for want := 1; want <= 3; want++ {
		got, err := m.NextInvoiceSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := m.NextInvoiceSequence(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	v, err := m.GetSetting(ctx, ledger.SettingLeavePolicy)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, m.PutSetting(ctx, ledger.SettingLeavePolicy, []byte(`{"x":1}`)))
	v, err = m.GetSetting(ctx, ledger.SettingLeavePolicy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(v))
}
