// SPDX-License-Identifier: Apache-2.0

package lines_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/policy"
)

// flatPolicy is a small parameter tree with simple round-number brackets so
// expected values can be verified by hand: federal 10% up to 60000 and 20%
// above, NYS flat 5%, NYC flat 3%.
func flatPolicy() policy.Policy {
	return policy.Policy{
		"self_employment_tax": map[string]any{
			"earnings_factor":           "0.9235",
			"social_security_wage_base": "168600",
			"social_security_rate":      "0.124",
			"medicare_rate":             "0.029",
		},
		"additional_medicare_tax": map[string]any{
			"rate":      "0.009",
			"threshold": "200000",
		},
		"net_investment_income_tax": map[string]any{
			"rate":      "0.038",
			"threshold": "200000",
		},
		"state_local_tax_deduction": map[string]any{"cap": "10000"},
		"section_1256": map[string]any{
			"short_term_rate": "0.40",
			"long_term_rate":  "0.60",
		},
		"standard_deduction": "0",
		"tax_computation_worksheet": map[string]any{
			"min_income": "0",
			"sections": []any{
				map[string]any{"min": "0", "max": "60000", "rate": "0.10", "subtract_amount": "0"},
				map[string]any{"min": "60000", "max": nil, "rate": "0.20", "subtract_amount": "6000"},
			},
		},
		"capital_gains": map[string]any{
			"zero_rate_threshold":   "0",
			"twenty_rate_threshold": "0",
			"rate_15":               "0.15",
			"rate_20":               "0.20",
		},
		"ny_nys_tax_rate_schedule": []any{
			map[string]any{"min": "0", "max": nil, "base_tax": "0", "rate": "0.05"},
		},
		"nyc_resident_tax_rate_schedule": []any{
			map[string]any{"min": "0", "max": nil, "base_tax": "0", "rate": "0.03"},
		},
		"ny_tax_computation_worksheet_4": map[string]any{
			"recapture_base_amount":       "0",
			"incremental_benefit_addback": "0",
		},
		"ny_us_gov_bond_interest_percentages": map[string]any{},
		"ny_it219_income_factor": map[string]any{
			"lower_threshold": "42500",
			"upper_threshold": "142500",
			"lower_factor":    "0.65",
			"upper_factor":    "0.15",
		},
		"ny_dependent_exemption_amount": "1000",
		"ny_standard_deduction":         "0",
		"ny_mctmt":                      map[string]any{"earnings_factor": "0.9235"},
		"ny_mctmt_rates":                map[string]any{"zone_1": "0"},
	}
}

// wagesOnlyStore holds a single W-2 with box 1 and box 5 wages of 50000.
func wagesOnlyStore(t *testing.T) *facts.Store {
	t.Helper()
	store := facts.NewStore()
	store.Add("w2_acme.yaml", facts.Record{
		Amount:      decimal.NewFromInt(50000),
		Explanation: "Box 1 wages",
		Tags:        []string{"form_1040_line_1z_wages", "w2_box_5_medicare_wages"},
		Path:        "Box 1",
	})
	return store
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "got %s, want %s", got, want)
}
