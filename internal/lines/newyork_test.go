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
)

func TestComputeNYTotalTaxWagesOnly(t *testing.T) {
	store := wagesOnlyStore(t)

	// NYS 2500 at 5%, NYC 1500 at 3%.
	got, err := lines.ComputeNYTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "4000", got)
}

func TestComputeNYTotalTaxAdditionsAndExemptions(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("w2_acme_ny.yaml",
		facts.Record{
			Amount: decimal.NewFromInt(1000),
			Tags:   []string{"ny_it_201_line_21_public_employee_414h"},
			Path:   "Box 14",
		},
		facts.Record{
			Amount: decimal.NewFromInt(500),
			Tags:   []string{"ny_it_201_line_22_ny_529_distributions"},
		},
	)
	store.Add("it_225.yaml",
		facts.Record{
			Amount: decimal.NewFromInt(250),
			Tags:   []string{"ny_it_201_att_line_12_amount"},
		},
		facts.Record{
			Amount: decimal.NewFromInt(250),
			Tags:   []string{"ny_it_225_line_5a_addition"},
		},
	)
	store.Add("dependents.yaml", facts.Record{
		Amount: decimal.NewFromInt(2),
		Tags:   []string{"ny_dependents_count"},
	})

	// NY total income 52000, dependent exemptions 2000, taxable 50000.
	got, err := lines.ComputeNYTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "4000", got)
}

func TestComputeNYTotalTaxResidentCredit(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("it_112_r.yaml",
		facts.Record{
			Amount: decimal.NewFromInt(10000),
			Tags:   []string{"ny_it_112_r_line_22_other_state_income"},
		},
		facts.Record{
			Amount: decimal.NewFromInt(600),
			Tags:   []string{"ny_it_112_r_line_24_other_state_tax"},
		},
	)

	// Ratio 0.2000, NY tax times ratio 500, smaller of 600 and 500 is 500.
	// NYS after credit 2000 plus NYC 1500.
	got, err := lines.ComputeNYTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "3500", got)
}

func TestComputeNYTotalTaxUBTCredit(t *testing.T) {
	store := wagesOnlyStore(t)
	store.Add("k1_ubt.yaml", facts.Record{
		Amount: decimal.NewFromInt(1000),
		Tags:   []string{"ny_it_219_line_7_ubt_credit"},
	})

	// Income factor at 50000 interpolates to 0.6125; credit 613 against NYC
	// tax of 1500.
	got, err := lines.ComputeNYTotalTax(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "3387", got)
}

func TestComputeNYTotalTaxMCTMT(t *testing.T) {
	pol := flatPolicy()
	pol["ny_mctmt"] = map[string]any{"earnings_factor": "1"}
	pol["ny_mctmt_rates"] = map[string]any{"zone_1": "0.01"}

	store := facts.NewStore()
	store.Add("k1_partnership.yaml", facts.Record{
		Amount: decimal.NewFromInt(100000),
		Tags:   []string{"mctmt_base_ordinary_income"},
		Path:   "Box 1",
	})

	// Partnership income flows to line 38 via Schedule E (100000): NYS 5000,
	// NYC 3000, MCTMT 1000.
	got, err := lines.ComputeNYTotalTax(store, pol, nil)
	require.NoError(t, err)
	assertAmount(t, "9000", got)
}

func TestComputeNYTotalTaxUSGovBondSubtraction(t *testing.T) {
	pol := flatPolicy()
	pol["ny_us_gov_bond_interest_percentages"] = map[string]any{
		"treasury_fund": "0.50",
	}

	store := wagesOnlyStore(t)
	store.Add("div_1099.yaml", facts.Record{
		Amount: decimal.NewFromInt(4000),
		Tags:   []string{"ny_it_201_line_28_us_gov_bond_interest_items_treasury_fund"},
		Path:   "Box 1a",
	})

	// Subtraction 2000, taxable 48000: NYS 2400, NYC 1440.
	got, err := lines.ComputeNYTotalTax(store, pol, nil)
	require.NoError(t, err)
	assertAmount(t, "3840", got)
}

func TestComputeNYTotalTaxCheckMode(t *testing.T) {
	store := wagesOnlyStore(t)
	run := &lines.Run{Checker: &check.Checker{
		Context: "it_201.yaml",
		Expected: check.Tree{
			"ny": map[string]any{
				"it_201": map[string]any{
					"line_38_ny_taxable_income": "50000",
					"line_62_total_taxes":       "4000",
				},
				"compute_total_tax": "4000",
			},
		},
	}}

	got, err := lines.ComputeNYTotalTax(store, flatPolicy(), run)
	require.NoError(t, err)
	assertAmount(t, "4000", got)

	run.Checker.Expected = check.Tree{
		"ny": map[string]any{
			"it_201": map[string]any{"line_39_nys_tax_on_line_38": "9999"},
		},
	}
	_, err = lines.ComputeNYTotalTax(store, flatPolicy(), run)
	require.Error(t, err)
	var mismatch *check.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "ny.it_201.line_39_nys_tax_on_line_38", mismatch.Label)
}

func TestNYIT219Line10IncomeFactorBands(t *testing.T) {
	pol := flatPolicy()

	tests := []struct {
		name   string
		income string
		want   string
	}{
		{name: "at or below lower threshold", income: "42500", want: "0.65"},
		{name: "at or above upper threshold", income: "142500", want: "0.15"},
		{name: "interpolated", income: "50000", want: "0.6125"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lines.NYIT219Line10IncomeFactor(decimal.RequireFromString(tt.income), pol)
			require.NoError(t, err)
			assertAmount(t, tt.want, got)
		})
	}
}

func TestNYIT112RLine26RatioZeroIncome(t *testing.T) {
	got := lines.NYIT112RLine26Ratio(decimal.Zero, decimal.NewFromInt(1000))
	assertAmount(t, "0", got)

	got = lines.NYIT112RLine26Ratio(decimal.NewFromInt(30000), decimal.NewFromInt(10000))
	assertAmount(t, "0.3333", got)
}

func TestNYRefundableCreditsChain(t *testing.T) {
	store := facts.NewStore()
	store.Add("it_201_att.yaml", facts.Record{
		Amount: decimal.NewFromInt(250),
		Tags:   []string{"ny_it_201_att_line_12_amount"},
	})

	line12, _ := lines.NYIT201ATTLine12OtherRefundableCredits(store)
	line13 := lines.NYIT201ATTLine13TotalRefundableCredits(line12)
	line14 := lines.NYIT201ATTLine14TotalRefundableCredits(line13)
	line18 := lines.NYIT201ATTLine18TotalOtherRefundableCredits(line14)
	line71 := lines.NYIT201Line71OtherRefundableCredits(line18)
	assertAmount(t, "250", line71)
}

func TestNYScheduleTaxNoRowMatched(t *testing.T) {
	pol := flatPolicy()
	pol["ny_nys_tax_rate_schedule"] = []any{
		map[string]any{"min": "0", "max": "1000", "base_tax": "0", "rate": "0.05"},
	}

	_, err := lines.NYIT201Statement2Line3TaxFromRateSchedule(decimal.NewFromInt(5000), pol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no NYS tax schedule row matched")
}
