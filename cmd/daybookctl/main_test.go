package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/generic"
)

func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "daybook.db")
}

func TestHolidays(t *testing.T) {
	out, err := execute(t, ":memory:", "holidays", "2025")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 11)
	assert.Contains(t, out, "2025-04-21")
	assert.Contains(t, out, "Christmas Day")
}

func TestHolidays_BadYear(t *testing.T) {
	_, err := execute(t, ":memory:", "holidays", "twenty")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestDaySetThenMonth(t *testing.T) {
	db := tempDB(t)

	// GIVEN: a leave day recorded on the first Monday of December
	out, err := execute(t, db, "day", "set", "2025-12-01", "leave")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01 leave\n", out)

	// WHEN: the month is shown from a fresh process
	out, err = execute(t, db, "month", "2025-12")
	require.NoError(t, err)

	// THEN: the leave is counted and unrecorded weekdays are implicit
	assert.Contains(t, out, "working 21")
	assert.Contains(t, out, "leave 1")
	assert.Contains(t, out, "2025-12-02  Tue  working (implicit)")
	assert.Contains(t, out, "holiday: Christmas Day")
}

func TestDaySet_InvalidType(t *testing.T) {
	_, err := execute(t, tempDB(t), "day", "set", "2025-12-01", "vacation")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestDayDelete_Missing(t *testing.T) {
	_, err := execute(t, tempDB(t), "day", "delete", "2025-12-01")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestTaxCompute(t *testing.T) {
	// 1.5M taxable: 20000 + 40000 + 45000 slab tax, plus 4% cess
	out, err := execute(t, ":memory:", "tax", "compute", "2025-26", "3000000")
	require.NoError(t, err)

	assert.Contains(t, out, "1500000.00")
	assert.Contains(t, out, "105000.00")
	assert.Contains(t, out, "4200.00")
	assert.Contains(t, out, "109200.00")
}

func TestTaxCompute_UnknownYear(t *testing.T) {
	_, err := execute(t, ":memory:", "tax", "compute", "2015-16", "100")
	assert.ErrorIs(t, err, generic.ErrUnknownFinancialYear)
}

func TestTaxCompute_BadAmount(t *testing.T) {
	_, err := execute(t, ":memory:", "tax", "compute", "2025-26", "lots")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestTaxRegimes(t *testing.T) {
	out, err := execute(t, ":memory:", "tax", "regimes")
	require.NoError(t, err)
	assert.Equal(t, "2024-25\n2025-26\n", out)
}

func TestInvoiceList_Empty(t *testing.T) {
	out, err := execute(t, tempDB(t), "invoice", "list", "--status", "paid")
	require.NoError(t, err)
	assert.Equal(t, "NUMBER  ID  PERIOD  DAYS  TOTAL  STATUS  DUE\n", out)
}

func TestInvoiceList_BadStatus(t *testing.T) {
	_, err := execute(t, tempDB(t), "invoice", "list", "--status", "lost")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, db, "day", "set", "2025-12-01", "leave")
	require.NoError(t, err)

	_, err = execute(t, db, "reset")
	require.Error(t, err)

	_, err = execute(t, db, "reset", "--yes")
	require.NoError(t, err)

	_, err = execute(t, db, "day", "delete", "2025-12-01")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}
