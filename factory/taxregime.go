/*
Package factory builds configuration objects from JSON.

PURPOSE:
  Tax law changes every year. Slabs, rates, the rebate ceiling and cap are
  data, so they are written as JSON documents, one per financial year, and
  converted here into earnings.TaxRegime. A new year means a new JSON file,
  not a code change.

JSON SCHEMA:
  {
    "financial_year": "2025-26",
    "presumptive_rate": "0.5",
    "cess_rate": "0.04",
    "rebate_ceiling": "1200000",
    "rebate_cap": "60000",
    "slabs": [
      {"up_to": "400000", "rate": "0"},
      {"up_to": "800000", "rate": "0.05"},
      {"up_to": null, "rate": "0.30"}
    ]
  }

  Amounts and rates may be JSON strings or numbers. The last slab must
  have "up_to": null (or omit it).

USAGE:
  registry := factory.NewRegistry()         // FY 2024-25 and 2025-26 built in
  registry.LoadDir(os.Getenv("TAX_REGIME_DIR"))
  regime, err := registry.Lookup(generic.FinancialYear{StartYear: 2025})

SEE ALSO:
  - earnings/tax.go: TaxRegime and ComputeTax
  - leavepolicy.go: Leave policy JSON
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/daybook/earnings"
	"github.com/warp/daybook/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TaxRegimeJSON is the JSON representation of a tax regime.
type TaxRegimeJSON struct {
	FinancialYear   string           `json:"financial_year"`
	PresumptiveRate *decimal.Decimal `json:"presumptive_rate,omitempty"` // default 0.5
	CessRate        decimal.Decimal  `json:"cess_rate"`
	RebateCeiling   decimal.Decimal  `json:"rebate_ceiling"`
	RebateCap       decimal.Decimal  `json:"rebate_cap"`
	Slabs           []SlabJSON       `json:"slabs"`
}

// SlabJSON is one marginal band.
type SlabJSON struct {
	UpTo *decimal.Decimal `json:"up_to"`
	Rate decimal.Decimal  `json:"rate"`
}

var defaultPresumptiveRate = decimal.NewFromFloat(0.5)

// ParseTaxRegime parses and validates a regime document.
func ParseTaxRegime(data []byte) (earnings.TaxRegime, error) {
	var rj TaxRegimeJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return earnings.TaxRegime{}, fmt.Errorf("%w: failed to parse tax regime JSON: %v", generic.ErrInvalidInput, err)
	}
	return FromJSON(rj)
}

// FromJSON converts TaxRegimeJSON to earnings.TaxRegime.
func FromJSON(rj TaxRegimeJSON) (earnings.TaxRegime, error) {
	fy, err := generic.ParseFinancialYear(rj.FinancialYear)
	if err != nil {
		return earnings.TaxRegime{}, err
	}

	regime := earnings.TaxRegime{
		FinancialYear:   fy,
		PresumptiveRate: defaultPresumptiveRate,
		CessRate:        rj.CessRate,
		RebateCeiling:   rj.RebateCeiling,
		RebateCap:       rj.RebateCap,
	}
	if rj.PresumptiveRate != nil {
		regime.PresumptiveRate = *rj.PresumptiveRate
	}
	for _, s := range rj.Slabs {
		regime.Slabs = append(regime.Slabs, earnings.Slab{UpTo: s.UpTo, Rate: s.Rate})
	}

	if err := regime.Validate(); err != nil {
		return earnings.TaxRegime{}, fmt.Errorf("tax regime %s: %w", rj.FinancialYear, err)
	}
	return regime, nil
}

// ToJSON is the inverse of FromJSON.
func ToJSON(r earnings.TaxRegime) TaxRegimeJSON {
	rate := r.PresumptiveRate
	rj := TaxRegimeJSON{
		FinancialYear:   r.FinancialYear.String(),
		PresumptiveRate: &rate,
		CessRate:        r.CessRate,
		RebateCeiling:   r.RebateCeiling,
		RebateCap:       r.RebateCap,
	}
	for _, s := range r.Slabs {
		rj.Slabs = append(rj.Slabs, SlabJSON{UpTo: s.UpTo, Rate: s.Rate})
	}
	return rj
}

// =============================================================================
// REGISTRY - regimes keyed by financial year
// =============================================================================

// Registry holds one regime per financial year. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	regimes map[generic.FinancialYear]earnings.TaxRegime
}

// NewRegistry returns a registry seeded with the built-in regimes.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, doc := range builtinRegimes {
		regime, err := ParseTaxRegime([]byte(doc))
		if err != nil {
			panic(fmt.Sprintf("factory: invalid built-in regime: %v", err))
		}
		r.regimes[regime.FinancialYear] = regime
	}
	return r
}

func NewEmptyRegistry() *Registry {
	return &Registry{regimes: make(map[generic.FinancialYear]earnings.TaxRegime)}
}

// Register adds or replaces the regime for its financial year.
func (r *Registry) Register(regime earnings.TaxRegime) error {
	if err := regime.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regimes[regime.FinancialYear] = regime
	return nil
}

// Lookup returns the regime for fy or ErrUnknownFinancialYear.
func (r *Registry) Lookup(fy generic.FinancialYear) (earnings.TaxRegime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regime, ok := r.regimes[fy]
	if !ok {
		return earnings.TaxRegime{}, fmt.Errorf("%w: %s", generic.ErrUnknownFinancialYear, fy)
	}
	return regime, nil
}

// Years lists registered financial years in ascending order.
func (r *Registry) Years() []generic.FinancialYear {
	r.mu.RLock()
	defer r.mu.RUnlock()
	years := make([]generic.FinancialYear, 0, len(r.regimes))
	for fy := range r.regimes {
		years = append(years, fy)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].StartYear < years[j].StartYear })
	return years
}

// LoadDir registers every *.json regime in dir and returns how many were
// loaded. An empty dir is a no-op. Files are loaded in name order, so a
// later file for the same year wins.
func (r *Registry) LoadDir(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(paths)

	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return i, fmt.Errorf("read %s: %w", path, err)
		}
		regime, err := ParseTaxRegime(data)
		if err != nil {
			return i, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if err := r.Register(regime); err != nil {
			return i, err
		}
	}
	return len(paths), nil
}
