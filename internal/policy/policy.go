// SPDX-License-Identifier: Apache-2.0

// Package policy provides the year-specific parameter tree (rates, thresholds,
// bases) that line calculations read instead of embedding law numbers. Reads
// are strict: an absent key is a fatal error carrying its dotted path, never a
// silent default.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy is a nested mapping from jurisdiction/topic to named numeric
// parameters, as decoded from a per-year policy document.
type Policy map[string]any

// MissingParamError reports a policy key a line calculation needed but the
// policy document does not define.
type MissingParamError struct {
	Path string
}

func (e *MissingParamError) Error() string {
	return "missing policy parameter: " + e.Path
}

// WorksheetRow is one bracket of a tax computation worksheet: tax is
// income*rate - subtract within [Min, Max]. Max nil means unbounded.
type WorksheetRow struct {
	Min      decimal.Decimal
	Max      *decimal.Decimal
	Rate     decimal.Decimal
	Subtract decimal.Decimal
}

// ScheduleRow is one bracket of a base-plus-rate schedule: tax is
// base + (income-Min)*rate within [Min, Max]. Max nil means unbounded.
type ScheduleRow struct {
	Min     decimal.Decimal
	Max     *decimal.Decimal
	BaseTax decimal.Decimal
	Rate    decimal.Decimal
}

// FundPercentage is one fund's U.S. government obligation percentage.
type FundPercentage struct {
	Fund    string
	Percent decimal.Decimal
}

// Amount returns the exact decimal at the given nested path.
func (p Policy) Amount(path ...string) (decimal.Decimal, error) {
	node, err := p.lookup(path...)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := toDecimal(node)
	if err != nil {
		return decimal.Zero, fmt.Errorf("policy parameter %s: %w", strings.Join(path, "."), err)
	}
	return d, nil
}

// WorksheetRows returns the bracket list at the given path, in document order.
func (p Policy) WorksheetRows(path ...string) ([]WorksheetRow, error) {
	items, err := p.rows(path...)
	if err != nil {
		return nil, err
	}
	dotted := strings.Join(path, ".")
	rows := make([]WorksheetRow, 0, len(items))
	for i, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("policy parameter %s[%d]: not a mapping", dotted, i)
		}
		var wr WorksheetRow
		if wr.Min, err = fieldDecimal(row, "min", dotted, i); err != nil {
			return nil, err
		}
		if wr.Max, err = optionalFieldDecimal(row, "max", dotted, i); err != nil {
			return nil, err
		}
		if wr.Rate, err = fieldDecimal(row, "rate", dotted, i); err != nil {
			return nil, err
		}
		if wr.Subtract, err = fieldDecimal(row, "subtract_amount", dotted, i); err != nil {
			return nil, err
		}
		rows = append(rows, wr)
	}
	return rows, nil
}

// ScheduleRows returns the base-plus-rate schedule at the given path.
func (p Policy) ScheduleRows(path ...string) ([]ScheduleRow, error) {
	items, err := p.rows(path...)
	if err != nil {
		return nil, err
	}
	dotted := strings.Join(path, ".")
	rows := make([]ScheduleRow, 0, len(items))
	for i, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("policy parameter %s[%d]: not a mapping", dotted, i)
		}
		var sr ScheduleRow
		if sr.Min, err = fieldDecimal(row, "min", dotted, i); err != nil {
			return nil, err
		}
		if sr.Max, err = optionalFieldDecimal(row, "max", dotted, i); err != nil {
			return nil, err
		}
		if sr.BaseTax, err = fieldDecimal(row, "base_tax", dotted, i); err != nil {
			return nil, err
		}
		if sr.Rate, err = fieldDecimal(row, "rate", dotted, i); err != nil {
			return nil, err
		}
		rows = append(rows, sr)
	}
	return rows, nil
}

// FundPercentages returns the fund percentage table at the given path, sorted
// by fund key for deterministic iteration. The table may be empty (no eligible
// funds is a legitimate state) but the key itself must exist.
func (p Policy) FundPercentages(path ...string) ([]FundPercentage, error) {
	node, err := p.lookup(path...)
	if err != nil {
		return nil, err
	}
	table, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("policy parameter %s: not a mapping", strings.Join(path, "."))
	}
	funds := make([]string, 0, len(table))
	for fund := range table {
		funds = append(funds, fund)
	}
	sort.Strings(funds)
	out := make([]FundPercentage, 0, len(funds))
	for _, fund := range funds {
		pct, err := toDecimal(table[fund])
		if err != nil {
			return nil, fmt.Errorf("policy parameter %s.%s: %w", strings.Join(path, "."), fund, err)
		}
		out = append(out, FundPercentage{Fund: fund, Percent: pct})
	}
	return out, nil
}

func (p Policy) rows(path ...string) ([]any, error) {
	node, err := p.lookup(path...)
	if err != nil {
		return nil, err
	}
	items, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("policy parameter %s: not a list", strings.Join(path, "."))
	}
	return items, nil
}

func (p Policy) lookup(path ...string) (any, error) {
	var node any = map[string]any(p)
	for i, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, &MissingParamError{Path: strings.Join(path[:i+1], ".")}
		}
		node, ok = m[key]
		if !ok {
			return nil, &MissingParamError{Path: strings.Join(path[:i+1], ".")}
		}
	}
	return node, nil
}

func fieldDecimal(row map[string]any, key, dotted string, index int) (decimal.Decimal, error) {
	v, ok := row[key]
	if !ok {
		return decimal.Zero, &MissingParamError{Path: fmt.Sprintf("%s[%d].%s", dotted, index, key)}
	}
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("policy parameter %s[%d].%s: %w", dotted, index, key, err)
	}
	return d, nil
}

func optionalFieldDecimal(row map[string]any, key, dotted string, index int) (*decimal.Decimal, error) {
	v, ok := row[key]
	if !ok || v == nil {
		return nil, nil
	}
	d, err := toDecimal(v)
	if err != nil {
		return nil, fmt.Errorf("policy parameter %s[%d].%s: %w", dotted, index, key, err)
	}
	return &d, nil
}

// toDecimal accepts the value shapes a YAML/JSON decode produces. Strings are
// preferred in policy documents because they stay exact.
func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case string:
		return decimal.NewFromString(n)
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint64:
		return decimal.NewFromUint64(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("value %v (%T) is not a number", v, v)
	}
}
