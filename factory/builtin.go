package factory

// New tax regime (Section 115BAC) as applied to presumptive income.
var builtinRegimes = []string{
	fy2024Regime,
	fy2025Regime,
}

const fy2024Regime = `{
  "financial_year": "2024-25",
  "presumptive_rate": "0.5",
  "cess_rate": "0.04",
  "rebate_ceiling": "700000",
  "rebate_cap": "25000",
  "slabs": [
    {"up_to": "300000",  "rate": "0"},
    {"up_to": "700000",  "rate": "0.05"},
    {"up_to": "1000000", "rate": "0.10"},
    {"up_to": "1200000", "rate": "0.15"},
    {"up_to": "1500000", "rate": "0.20"},
    {"up_to": null,      "rate": "0.30"}
  ]
}`

const fy2025Regime = `{
  "financial_year": "2025-26",
  "presumptive_rate": "0.5",
  "cess_rate": "0.04",
  "rebate_ceiling": "1200000",
  "rebate_cap": "60000",
  "slabs": [
    {"up_to": "400000",  "rate": "0"},
    {"up_to": "800000",  "rate": "0.05"},
    {"up_to": "1200000", "rate": "0.10"},
    {"up_to": "1600000", "rate": "0.15"},
    {"up_to": "2000000", "rate": "0.20"},
    {"up_to": "2400000", "rate": "0.25"},
    {"up_to": null,      "rate": "0.30"}
  ]
}`
