// SPDX-License-Identifier: Apache-2.0

package check_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/check"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testTree() check.Tree {
	return check.Tree{
		"federal": map[string]any{
			"form_1040": map[string]any{
				"line_24_total_tax": "18321",
				"line_11_agi":       185000,
			},
			"compute_total_tax": "18321",
		},
		"ny": map[string]any{
			"it_201": map[string]any{
				"line_62_total_taxes": "11402",
			},
		},
	}
}

func TestLookup(t *testing.T) {
	tree := testTree()

	tests := []struct {
		name   string
		label  string
		want   string
		wantOK bool
	}{
		{name: "string leaf", label: "federal.form_1040.line_24_total_tax", want: "18321", wantOK: true},
		{name: "integer leaf", label: "federal.form_1040.line_11_agi", want: "185000", wantOK: true},
		{name: "top-level leaf", label: "federal.compute_total_tax", want: "18321", wantOK: true},
		{name: "unregistered label", label: "federal.form_1040.line_99", wantOK: false},
		{name: "intermediate node is not a leaf", label: "federal.form_1040", wantOK: false},
		{name: "missing branch", label: "ca.form_540.line_1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.Lookup(tt.label)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, dec(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}

func TestCheckerMatchAndMismatch(t *testing.T) {
	c := &check.Checker{Expected: testTree(), Context: "2024 filed return"}

	require.NoError(t, c.Check("federal.form_1040.line_24_total_tax", dec("18321")))

	err := c.Check("ny.it_201.line_62_total_taxes", dec("11400"))
	require.Error(t, err)
	var mismatch *check.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "ny.it_201.line_62_total_taxes", mismatch.Label)
	assert.True(t, dec("11400").Equal(mismatch.Computed))
	assert.True(t, dec("11402").Equal(mismatch.Expected))
	assert.Equal(t, "[2024 filed return] ny.it_201.line_62_total_taxes: computed 11400, expected 11402", err.Error())
}

func TestCheckerExactNotTolerant(t *testing.T) {
	c := &check.Checker{Expected: check.Tree{"x": "100"}}
	assert.Error(t, c.Check("x", dec("100.01")))
	assert.NoError(t, c.Check("x", dec("100.00")), "100 and 100.00 are the same exact value")
}

func TestNilCheckerIsNoOp(t *testing.T) {
	var c *check.Checker
	assert.NoError(t, c.Check("anything", dec("1")))
}

func TestUnregisteredLabelIsNoOp(t *testing.T) {
	c := &check.Checker{Expected: testTree()}
	assert.NoError(t, c.Check("federal.form_1040.line_not_filed", dec("123")))
}
