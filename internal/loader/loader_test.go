// SPDX-License-Identifier: Apache-2.0

package loader_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/loader"
)

const factsYAML = `
w2_acme.yaml:
  - amount: "50000"
    explanation: Box 1 wages
    tags:
      - form_1040_line_1z_wages
      - w2_box_5_medicare_wages
    path: Box 1
    checked: true
k1_partnership.yaml:
  - amount: "100000.25"
    tags:
      - schedule_se_k1_box_14a_self_employment_earnings
    path: Box 14A
brokerage_1099.yaml:
  - amount: "-250"
    tags:
      - section_1256_contracts
`

func TestFactsPreservesSourceOrder(t *testing.T) {
	store, err := loader.Facts([]byte(factsYAML))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"w2_acme.yaml", "k1_partnership.yaml", "brokerage_1099.yaml"},
		store.Sources())
	require.Equal(t, 3, store.Len())

	recs := store.Records("w2_acme.yaml")
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "Box 1 wages", recs[0].Explanation)
	assert.Equal(t, "Box 1", recs[0].Path)
	require.NotNil(t, recs[0].Checked)
	assert.True(t, *recs[0].Checked)

	k1 := store.Records("k1_partnership.yaml")
	require.Len(t, k1, 1)
	assert.True(t, k1[0].Amount.Equal(decimal.RequireFromString("100000.25")))
	assert.Nil(t, k1[0].Checked)
}

func TestFactsMalformedAmountIsFatal(t *testing.T) {
	doc := `
w2_acme.yaml:
  - amount: "50,000"
    tags: [form_1040_line_1z_wages]
`
	_, err := loader.Facts([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"w2_acme.yaml"`)
	assert.Contains(t, err.Error(), "record 0")
}

func TestFactsRejectsInvalidYAML(t *testing.T) {
	_, err := loader.Facts([]byte("w2: [unterminated"))
	require.Error(t, err)
}

func TestPolicyDoc(t *testing.T) {
	doc := `
standard_deduction: "29200"
self_employment_tax:
  earnings_factor: "0.9235"
tax_computation_worksheet:
  min_income: "100000"
  sections:
    - min: "0"
      max: "100000"
      rate: "0.22"
      subtract_amount: "9894"
`
	pol, err := loader.PolicyDoc([]byte(doc))
	require.NoError(t, err)

	std, err := pol.Amount("standard_deduction")
	require.NoError(t, err)
	assert.True(t, std.Equal(decimal.NewFromInt(29200)))

	factor, err := pol.Amount("self_employment_tax", "earnings_factor")
	require.NoError(t, err)
	assert.True(t, factor.Equal(decimal.RequireFromString("0.9235")))

	rows, err := pol.WorksheetRows("tax_computation_worksheet", "sections")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Rate.Equal(decimal.RequireFromString("0.22")))
}

func TestExpected(t *testing.T) {
	doc := `
federal:
  form_1040:
    line_24_total_tax: "36716"
`
	tree, err := loader.Expected([]byte(doc))
	require.NoError(t, err)

	got, ok := tree.Lookup("federal.form_1040.line_24_total_tax")
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(36716)))

	_, ok = tree.Lookup("federal.form_1040.line_99_unknown")
	assert.False(t, ok)
}
