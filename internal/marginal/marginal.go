// SPDX-License-Identifier: Apache-2.0

// Package marginal estimates marginal tax rates by numerical differentiation:
// each input amount (or tag) is perturbed by +delta and -delta on copies of
// the fact store, the jurisdiction roots are recomputed on each copy, and the
// central difference (T(+delta) - T(-delta)) / 2*delta approximates the rate.
// The original store is never mutated.
package marginal

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/lines"
	"github.com/returnproj/returncalc/internal/policy"
)

// DefaultDelta is the perturbation size used when the caller does not choose
// one. Small enough to stay inside a bracket for typical returns, large
// enough to dominate dollar rounding noise.
var DefaultDelta = decimal.NewFromInt(1000)

var errNonPositiveDelta = errors.New("delta must be positive")

type rates struct {
	federal decimal.Decimal
	states  []decimal.Decimal
	total   decimal.Decimal
}

// computeRates runs every jurisdiction root on the perturbed stores and forms
// the central differences. Roots run without a checker or tracer: perturbed
// stores would never match a filed return's expected values.
func computeRates(plus, minus *facts.Store, pol policy.Policy, delta decimal.Decimal, roots lines.StateRoots) (rates, error) {
	twoDelta := delta.Mul(decimal.NewFromInt(2))

	federalPlus, err := lines.ComputeFederalTotalTax(plus, pol, nil)
	if err != nil {
		return rates{}, err
	}
	federalMinus, err := lines.ComputeFederalTotalTax(minus, pol, nil)
	if err != nil {
		return rates{}, err
	}
	r := rates{federal: federalPlus.Sub(federalMinus).Div(twoDelta)}

	r.total = r.federal
	for _, code := range roots.Codes {
		statePlus, err := roots.Funcs[code](plus, pol, nil)
		if err != nil {
			return rates{}, err
		}
		stateMinus, err := roots.Funcs[code](minus, pol, nil)
		if err != nil {
			return rates{}, err
		}
		stateRate := statePlus.Sub(stateMinus).Div(twoDelta)
		r.states = append(r.states, stateRate)
		r.total = r.total.Add(stateRate)
	}
	return r, nil
}

func headerRow(first []string, roots lines.StateRoots) string {
	cols := append([]string{}, first...)
	cols = append(cols, "Marginal Federal")
	for _, code := range roots.Codes {
		cols = append(cols, "Marginal "+code)
	}
	cols = append(cols, "Marginal Total")
	return strings.Join(cols, "|")
}

func rateColumns(r rates) []string {
	cols := []string{r.federal.String()}
	for _, s := range r.states {
		cols = append(cols, s.String())
	}
	return append(cols, r.total.String())
}

// TableByInput returns a pipe-delimited table with one row per fact record,
// in store order, estimating how the total tax responds to that record's
// amount.
func TableByInput(store *facts.Store, pol policy.Policy, delta decimal.Decimal) (string, error) {
	if !delta.IsPositive() {
		return "", errNonPositiveDelta
	}
	roots := lines.DefaultStateRoots()
	rows := []string{headerRow([]string{"Source", "Path", "Tags", "Explanation", "Amount"}, roots)}

	for _, source := range store.Sources() {
		filename := filepath.Base(source)
		for i, rec := range store.Records(source) {
			plus := store.WithShiftedAmount(source, i, delta)
			minus := store.WithShiftedAmount(source, i, delta.Neg())
			r, err := computeRates(plus, minus, pol, delta, roots)
			if err != nil {
				return "", err
			}
			cols := []string{
				filename,
				strings.TrimSpace(rec.Path),
				strings.Join(rec.Tags, " - "),
				rec.Explanation,
				rec.Amount.String(),
			}
			cols = append(cols, rateColumns(r)...)
			rows = append(rows, strings.Join(cols, "|"))
		}
	}
	return strings.Join(rows, "\n"), nil
}

// TableByTag returns a pipe-delimited table with one row per tag, sorted by
// tag name. Each tag is perturbed through a synthetic one-tag record so that
// amounts shared with other tags on the same record stay untouched.
func TableByTag(store *facts.Store, pol policy.Policy, delta decimal.Decimal) (string, error) {
	if !delta.IsPositive() {
		return "", errNonPositiveDelta
	}
	roots := lines.DefaultStateRoots()
	rows := []string{headerRow([]string{"Tag", "Num Inputs", "Sources+Paths", "Amount"}, roots)}

	for _, tag := range store.Tags() {
		total, refs := store.TagTotal(tag)

		parts := make([]string, 0, len(refs))
		for _, ref := range refs {
			filename := filepath.Base(ref.Source)
			path := strings.TrimSpace(ref.Record.Path)
			if path == "" {
				parts = append(parts, filename)
			} else {
				parts = append(parts, filename+": "+path)
			}
		}

		plus := store.WithShock(tag, delta)
		minus := store.WithShock(tag, delta.Neg())
		r, err := computeRates(plus, minus, pol, delta, roots)
		if err != nil {
			return "", err
		}
		cols := []string{
			tag,
			strconv.Itoa(len(refs)),
			strings.Join(parts, " - "),
			total.String(),
		}
		cols = append(cols, rateColumns(r)...)
		rows = append(rows, strings.Join(cols, "|"))
	}
	return strings.Join(rows, "\n"), nil
}
