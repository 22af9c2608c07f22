package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/factory"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// TAX REGIME PARSING
// =============================================================================

const fy2026JSON = `{
  "financial_year": "2026-27",
  "cess_rate": 0.04,
  "rebate_ceiling": 1300000,
  "rebate_cap": "65000",
  "slabs": [
    {"up_to": "500000", "rate": "0"},
    {"up_to": "1000000", "rate": "0.10"},
    {"rate": "0.30"}
  ]
}`

func TestParseTaxRegime_StringsAndNumbers(t *testing.T) {
	regime, err := factory.ParseTaxRegime([]byte(fy2026JSON))
	require.NoError(t, err)

	assert.Equal(t, 2026, regime.FinancialYear.StartYear)
	assert.True(t, regime.PresumptiveRate.Equal(decimal.NewFromFloat(0.5)), "defaults to 0.5")
	assert.True(t, regime.RebateCeiling.Equal(decimal.NewFromInt(1300000)))
	assert.True(t, regime.RebateCap.Equal(decimal.NewFromInt(65000)))
	require.Len(t, regime.Slabs, 3)
	assert.Nil(t, regime.Slabs[2].UpTo)
}

func TestParseTaxRegime_Rejects(t *testing.T) {
	cases := map[string]string{
		"malformed":       `{"financial_year":`,
		"bad year":        `{"financial_year":"2025-27","slabs":[{"rate":"0"}]}`,
		"no slabs":        `{"financial_year":"2025-26","slabs":[]}`,
		"open in middle":  `{"financial_year":"2025-26","slabs":[{"rate":"0"},{"rate":"0.1"}]}`,
		"closed last":     `{"financial_year":"2025-26","slabs":[{"up_to":"100","rate":"0"}]}`,
		"not ascending":   `{"financial_year":"2025-26","slabs":[{"up_to":"500","rate":"0"},{"up_to":"400","rate":"0.1"},{"rate":"0.3"}]}`,
		"rate above one":  `{"financial_year":"2025-26","slabs":[{"rate":"1.2"}]}`,
		"negative rebate": `{"financial_year":"2025-26","rebate_cap":"-1","slabs":[{"rate":"0.3"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := factory.ParseTaxRegime([]byte(doc))
			assert.ErrorIs(t, err, generic.ErrInvalidInput)
		})
	}
}

func TestToJSON_RoundTripsThroughParse(t *testing.T) {
	registry := factory.NewRegistry()
	regime, err := registry.Lookup(generic.FinancialYear{StartYear: 2025})
	require.NoError(t, err)

	again, err := factory.FromJSON(factory.ToJSON(regime))
	require.NoError(t, err)

	gross := decimal.NewFromInt(5000000)
	assert.True(t, earnings.ComputeTax(regime, gross).Total.Equal(earnings.ComputeTax(again, gross).Total))
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_BuiltinYears(t *testing.T) {
	registry := factory.NewRegistry()

	years := registry.Years()
	require.Len(t, years, 2)
	assert.Equal(t, "2024-25", years[0].String())
	assert.Equal(t, "2025-26", years[1].String())

	fy25, err := registry.Lookup(generic.FinancialYear{StartYear: 2025})
	require.NoError(t, err)
	assert.Len(t, fy25.Slabs, 7)
	assert.True(t, fy25.RebateCap.Equal(decimal.NewFromInt(60000)))

	fy24, err := registry.Lookup(generic.FinancialYear{StartYear: 2024})
	require.NoError(t, err)
	assert.Len(t, fy24.Slabs, 6)
	assert.True(t, fy24.RebateCeiling.Equal(decimal.NewFromInt(700000)))
}

func TestRegistry_UnknownYear(t *testing.T) {
	_, err := factory.NewRegistry().Lookup(generic.FinancialYear{StartYear: 2019})
	assert.ErrorIs(t, err, generic.ErrUnknownFinancialYear)
	assert.True(t, generic.IsClientError(err))
}

func TestRegistry_LoadDir(t *testing.T) {
	// GIVEN: A directory with one regime file and one unrelated file
	// WHEN: Loading it into the built-in registry
	// THEN: FY 2026-27 becomes available alongside the built-ins

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fy2026.json"), []byte(fy2026JSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	registry := factory.NewRegistry()
	n, err := registry.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = registry.Lookup(generic.FinancialYear{StartYear: 2026})
	assert.NoError(t, err)
	assert.Len(t, registry.Years(), 3)
}

func TestRegistry_LoadDirInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"financial_year":"x"}`), 0o644))

	_, err := factory.NewEmptyRegistry().LoadDir(dir)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestRegistry_LoadDirEmptyPath(t *testing.T) {
	n, err := factory.NewEmptyRegistry().LoadDir("")
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// LEAVE POLICY
// =============================================================================

func TestParseLeavePolicy(t *testing.T) {
	p, err := factory.ParseLeavePolicy([]byte(`{"leaves_per_month":"1.5","standard_working_days":21,"tracking_start":"2025-01"}`))
	require.NoError(t, err)

	assert.True(t, p.LeavesPerMonth.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, 21, p.StandardWorkingDays)
	assert.Equal(t, "2025-01", p.TrackingStart.String())

	data, err := factory.MarshalLeavePolicy(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"leaves_per_month":"1.5","standard_working_days":21,"tracking_start":"2025-01"}`, string(data))
}

func TestParseLeavePolicy_Rejects(t *testing.T) {
	_, err := factory.ParseLeavePolicy([]byte(`{"leaves_per_month":"1","tracking_start":"2025-13"}`))
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, err = factory.ParseLeavePolicy([]byte(`{"leaves_per_month":"-1","tracking_start":"2025-01"}`))
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}
