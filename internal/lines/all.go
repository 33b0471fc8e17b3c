// SPDX-License-Identifier: Apache-2.0

package lines

import (
	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/policy"
)

// RootFunc computes one jurisdiction's total tax from the fact store.
type RootFunc func(store *facts.Store, pol policy.Policy, run *Run) (decimal.Decimal, error)

// StateRoots maps state codes to their total-tax roots, in fixed column
// order for the marginal tables.
type StateRoots struct {
	Codes []string
	Funcs map[string]RootFunc
}

// DefaultStateRoots returns the supported state jurisdictions.
func DefaultStateRoots() StateRoots {
	return StateRoots{
		Codes: []string{"NY"},
		Funcs: map[string]RootFunc{"NY": ComputeNYTotalTax},
	}
}

// Totals holds per-jurisdiction total tax amounts.
type Totals struct {
	Federal decimal.Decimal
	NY      decimal.Decimal
	Total   decimal.Decimal
}

// ComputeAllTaxes runs the federal and NY roots against the same store and
// sums them.
func ComputeAllTaxes(store *facts.Store, pol policy.Policy, run *Run) (Totals, error) {
	federal, err := ComputeFederalTotalTax(store, pol, run)
	if err != nil {
		return Totals{}, err
	}
	ny, err := ComputeNYTotalTax(store, pol, run)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Federal: federal,
		NY:      ny,
		Total:   federal.Add(ny),
	}, nil
}
