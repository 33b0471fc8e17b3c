// SPDX-License-Identifier: Apache-2.0

// Package check validates freshly computed line values against an expected
// value tree sourced from the filed return. A nil Checker disables validation,
// so callers thread one *Checker through a computation and the same code path
// serves both plain and checked execution.
package check

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tree is a nested mapping mirroring the return's form/line hierarchy. Leaves
// are exact decimal values taken from the filed documents. The tree is an
// input to validation only; line calculations never read from it.
type Tree map[string]any

// Lookup returns the leaf at the dotted label, and whether the label is
// registered. An intermediate node at the label is not a leaf.
func (t Tree) Lookup(label string) (decimal.Decimal, bool) {
	var node any = map[string]any(t)
	for _, key := range strings.Split(label, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return decimal.Zero, false
		}
		node, ok = m[key]
		if !ok {
			return decimal.Zero, false
		}
	}
	switch v := node.(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint64:
		return decimal.NewFromUint64(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Zero, false
	}
}

// MismatchError reports a checkpoint whose computed value disagrees with the
// filed value. It carries the values verbatim; comparison is exact, never
// tolerance-based.
type MismatchError struct {
	Context  string
	Label    string
	Computed decimal.Decimal
	Expected decimal.Decimal
}

func (e *MismatchError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("[%s] %s: computed %s, expected %s", e.Context, e.Label, e.Computed, e.Expected)
	}
	return fmt.Sprintf("%s: computed %s, expected %s", e.Label, e.Computed, e.Expected)
}

// Checker compares computed checkpoint values against an expected tree.
// Context names the invocation (a year, a scenario) for error messages.
type Checker struct {
	Expected Tree
	Context  string
}

// Check compares value against the registered leaf for label. A nil receiver
// or an unregistered label is a no-op; checking is scoped to the call that
// carries the Checker, never process-wide.
func (c *Checker) Check(label string, value decimal.Decimal) error {
	if c == nil {
		return nil
	}
	expected, ok := c.Expected.Lookup(label)
	if !ok {
		return nil
	}
	if !value.Equal(expected) {
		return &MismatchError{Context: c.Context, Label: label, Computed: value, Expected: expected}
	}
	return nil
}
