// SPDX-License-Identifier: Apache-2.0

package lines_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/check"
	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/lines"
	"github.com/returnproj/returncalc/internal/trace"
)

func TestComputeFederalTotalTaxWagesOnly(t *testing.T) {
	store := wagesOnlyStore(t)

	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "5000", got)
}

func TestComputeFederalTotalTaxWithSelfEmployment(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("k1_partnership.yaml", facts.Record{
		Amount:      decimal.NewFromInt(100000),
		Explanation: "Ordinary business income",
		Tags: []string{
			"schedule_se_k1_box_14a_self_employment_earnings",
			"mctmt_base_ordinary_income",
		},
		Path: "Box 14A",
	})

	// SE earnings 92350, SE tax 11451 + 2678 = 14129, half deductible 7065.
	// Taxable income 142935, ordinary tax 22587, total 22587 + 14129.
	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "36716", got)
}

func TestComputeFederalTotalTaxWithInvestmentIncome(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("brokerage_1099.yaml",
		facts.Record{
			Amount: decimal.NewFromInt(2000),
			Tags:   []string{"schedule_b_interest"},
			Path:   "Box 1",
		},
		facts.Record{
			Amount: decimal.NewFromInt(3000),
			Tags:   []string{"schedule_b_ordinary_dividends"},
			Path:   "Box 1a",
		},
		facts.Record{
			Amount: decimal.NewFromInt(1500),
			Tags:   []string{"form_1040_line_3a_qualified_dividends"},
			Path:   "Box 1b",
		},
		facts.Record{
			Amount: decimal.NewFromInt(10000),
			Tags:   []string{"section_1256_contracts"},
			Path:   "Box 11",
		},
	)

	// Form 6781 splits 10000 into 4000 short-term and 6000 long-term; total
	// income 65000. With a zero-rate threshold of zero the preferential
	// computation loses to the 20% bracket tax of 7000.
	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "7000", got)
}

func TestComputeFederalTotalTaxFiledOverrides(t *testing.T) {
	store := facts.NewStore()
	store.Add("form_1040.yaml",
		facts.Record{
			Amount: decimal.NewFromInt(100000),
			Tags:   []string{"form_1040_line_11_adjusted_gross_income"},
			Path:   "Line 11",
		},
		facts.Record{
			Amount: decimal.NewFromInt(20000),
			Tags:   []string{"form_1040_line_12_deductions"},
			Path:   "Schedule A",
		},
		facts.Record{
			Amount: decimal.NewFromInt(12000),
			Tags:   []string{"form_1040_line_16_tax"},
			Path:   "Line 16",
		},
	)

	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "12000", got)
}

func TestComputeFederalTotalTaxCredits(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("form_8812.yaml", facts.Record{
		Amount: decimal.NewFromInt(2000),
		Tags:   []string{"form_1040_line_19_child_tax_credit"},
	})
	store.Add("form_1116.yaml", facts.Record{
		Amount: decimal.NewFromInt(500),
		Tags:   []string{"form_1116_foreign_taxes_paid"},
	})

	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "2500", got)
}

func TestComputeFederalTotalTaxCheckMode(t *testing.T) {
	store := wagesOnlyStore(t)
	run := &lines.Run{Checker: &check.Checker{
		Context: "form_1040.yaml",
		Expected: check.Tree{
			"federal": map[string]any{
				"form_1040": map[string]any{
					"line_1z_wages":     "50000",
					"line_24_total_tax": "5000",
				},
				"compute_total_tax": "5000",
			},
		},
	}}

	got, err := lines.ComputeFederalTotalTax(store, flatPolicy(), run)
	require.NoError(t, err)
	assertAmount(t, "5000", got)
}

func TestComputeFederalTotalTaxCheckMismatch(t *testing.T) {
	store := wagesOnlyStore(t)
	run := &lines.Run{Checker: &check.Checker{
		Context: "form_1040.yaml",
		Expected: check.Tree{
			"federal": map[string]any{
				"form_1040": map[string]any{"line_24_total_tax": "4999"},
			},
		},
	}}

	_, err := lines.ComputeFederalTotalTax(store, flatPolicy(), run)
	require.Error(t, err)
	var mismatch *check.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "federal.form_1040.line_24_total_tax", mismatch.Label)
}

func TestComputeFederalTotalTaxTrace(t *testing.T) {
	store := wagesOnlyStore(t)
	rec := &trace.Recorder{}

	_, err := lines.ComputeFederalTotalTax(store, flatPolicy(), &lines.Run{Tracer: rec, Year: 2024})
	require.NoError(t, err)

	nodes := rec.Nodes()
	require.NotEmpty(t, nodes)
	assert.Equal(t, "federal.schedule_se.line_2_schedule_c_and_k1_profit", nodes[0].Label)

	byLabel := map[string]trace.Node{}
	for _, n := range nodes {
		byLabel[n.Label] = n
	}
	wages, ok := byLabel["federal.form_1040.line_1z_wages"]
	require.True(t, ok)
	assert.Equal(t, []string{"w2_acme.yaml"}, wages.Sources)
	assert.Equal(t, 2024, wages.Year)

	total, ok := byLabel["federal.form_1040.line_24_total_tax"]
	require.True(t, ok)
	assertAmount(t, "5000", total.Value)
	assert.Contains(t, total.DependsOn, "federal.form_1040.line_22_tax_after_credits")
}

func TestFederalForm8959SharedThreshold(t *testing.T) {
	pol := flatPolicy()

	// Wages consume 150000 of the 200000 threshold; SE earnings use the
	// remaining 50000.
	got, err := lines.FederalForm8959Line18AdditionalMedicareTax(
		decimal.NewFromInt(250000), decimal.NewFromInt(100000), pol)
	require.NoError(t, err)
	// 50000 * 0.009 on wages, 100000 * 0.009 on SE income over the exhausted
	// threshold.
	assertAmount(t, "1350", got)

	got, err = lines.FederalForm8959Line18AdditionalMedicareTax(
		decimal.NewFromInt(150000), decimal.NewFromInt(100000), pol)
	require.NoError(t, err)
	assertAmount(t, "450", got)
}
