// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/loader"
	"github.com/returnproj/returncalc/internal/marginal"
)

// MetadataMarginalRateTable describes the marginal_rate_table tool.
var MetadataMarginalRateTable = &mcp.Tool{
	Name: "marginal_rate_table",
	Description: "Estimate marginal tax rates by numerical differentiation: each input amount " +
		"(mode \"input\") or each tag (mode \"tag\") is perturbed by +/-delta, the federal and " +
		"state totals are recomputed, and the central difference approximates the rate. " +
		"Returns a pipe-delimited table with federal, per-state, and combined marginal columns.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"facts_yaml", "policy_yaml"},
		"properties": map[string]interface{}{
			"facts_yaml": map[string]interface{}{
				"type":        "string",
				"description": "YAML facts document: mapping of source document name to its list of tagged amount records.",
			},
			"policy_yaml": map[string]interface{}{
				"type":        "string",
				"description": "YAML policy document with the year's rates, thresholds, and bracket tables.",
			},
			"by": map[string]interface{}{
				"type":        "string",
				"description": "Perturbation mode. \"input\" perturbs each record; \"tag\" shocks each tag through a synthetic record. Defaults to \"tag\".",
				"enum":        []string{"input", "tag"},
			},
			"delta": map[string]interface{}{
				"type":        "string",
				"description": "Perturbation size as an exact decimal string. Must be positive. Defaults to 1000.",
			},
		},
	},
}

// InputMarginalRateTable is the input for the MarginalRateTable tool.
type InputMarginalRateTable struct {
	FactsYAML  string `json:"facts_yaml"`
	PolicyYAML string `json:"policy_yaml"`
	By         string `json:"by"`
	Delta      string `json:"delta"`
}

// OutputMarginalRateTable is the output for the MarginalRateTable tool.
type OutputMarginalRateTable struct {
	// Table is the pipe-delimited marginal rate table.
	Table string `json:"table"`
	// By echoes the perturbation mode used.
	By string `json:"by"`
	// Delta echoes the perturbation size used.
	Delta string `json:"delta"`
}

// MarginalRateTable builds the requested marginal rate table.
func MarginalRateTable(_ context.Context, _ *mcp.CallToolRequest, input InputMarginalRateTable) (*mcp.CallToolResult, OutputMarginalRateTable, error) {
	if input.FactsYAML == "" {
		return nil, OutputMarginalRateTable{}, fmt.Errorf("facts_yaml is required")
	}
	if input.PolicyYAML == "" {
		return nil, OutputMarginalRateTable{}, fmt.Errorf("policy_yaml is required")
	}

	store, err := loader.Facts([]byte(input.FactsYAML))
	if err != nil {
		return nil, OutputMarginalRateTable{}, err
	}
	pol, err := loader.PolicyDoc([]byte(input.PolicyYAML))
	if err != nil {
		return nil, OutputMarginalRateTable{}, err
	}

	delta := marginal.DefaultDelta
	if input.Delta != "" {
		delta, err = decimal.NewFromString(input.Delta)
		if err != nil {
			return nil, OutputMarginalRateTable{}, fmt.Errorf("invalid delta %q", input.Delta)
		}
	}

	by := input.By
	if by == "" {
		by = "tag"
	}
	var table string
	switch by {
	case "input":
		table, err = marginal.TableByInput(store, pol, delta)
	case "tag":
		table, err = marginal.TableByTag(store, pol, delta)
	default:
		return nil, OutputMarginalRateTable{}, fmt.Errorf("by must be %q or %q, got %q", "input", "tag", by)
	}
	if err != nil {
		return nil, OutputMarginalRateTable{}, err
	}

	return nil, OutputMarginalRateTable{Table: table, By: by, Delta: delta.String()}, nil
}
