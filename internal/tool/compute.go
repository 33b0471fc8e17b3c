// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/returnproj/returncalc/internal/check"
	"github.com/returnproj/returncalc/internal/lines"
	"github.com/returnproj/returncalc/internal/loader"
	"github.com/returnproj/returncalc/internal/trace"
)

// MetadataComputeReturnTotals describes the compute_return_totals tool.
var MetadataComputeReturnTotals = &mcp.Tool{
	Name: "compute_return_totals",
	Description: "Compute federal (Form 1040 line 24) and New York (IT-201 line 62) total tax " +
		"from extracted return facts and a per-year policy document. " +
		"When expected values are provided, every intermediate line is verified against them " +
		"and the first mismatch fails the computation with the line label, computed value, and " +
		"expected value. Optionally records a per-line computation trace.",
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
			"expected_yaml": map[string]interface{}{
				"type":        "string",
				"description": "Optional YAML tree of expected line values. If provided, computation runs in checked mode.",
			},
			"trace": map[string]interface{}{
				"type":        "boolean",
				"description": "If true, include a per-line computation trace in the output.",
			},
			"year": map[string]interface{}{
				"type":        "integer",
				"description": "Tax year, echoed into trace nodes.",
			},
		},
	},
}

// InputComputeReturnTotals is the input for the ComputeReturnTotals tool.
type InputComputeReturnTotals struct {
	FactsYAML    string `json:"facts_yaml"`
	PolicyYAML   string `json:"policy_yaml"`
	ExpectedYAML string `json:"expected_yaml"`
	Trace        bool   `json:"trace"`
	Year         int    `json:"year"`
}

// TraceNode is one traced line computation in tool output form.
type TraceNode struct {
	Label     string   `json:"label"`
	Year      int      `json:"year,omitempty"`
	Value     string   `json:"value"`
	Formula   string   `json:"formula,omitempty"`
	DependsOn []string `json:"depends_on,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// OutputComputeReturnTotals is the output for the ComputeReturnTotals tool.
type OutputComputeReturnTotals struct {
	// Federal is Form 1040 line 24 total tax.
	Federal string `json:"federal"`
	// NY is IT-201 line 62 total tax.
	NY string `json:"ny"`
	// Total is the combined federal and NY tax.
	Total string `json:"total"`
	// Checked reports whether expected values were supplied and all lines matched.
	Checked bool `json:"checked"`
	// Trace is the per-line computation trace, present when requested.
	Trace []TraceNode `json:"trace,omitempty"`
}

// ComputeReturnTotals runs the federal and NY computation chains over the
// provided documents.
func ComputeReturnTotals(_ context.Context, _ *mcp.CallToolRequest, input InputComputeReturnTotals) (*mcp.CallToolResult, OutputComputeReturnTotals, error) {
	if input.FactsYAML == "" {
		return nil, OutputComputeReturnTotals{}, fmt.Errorf("facts_yaml is required")
	}
	if input.PolicyYAML == "" {
		return nil, OutputComputeReturnTotals{}, fmt.Errorf("policy_yaml is required")
	}

	store, err := loader.Facts([]byte(input.FactsYAML))
	if err != nil {
		return nil, OutputComputeReturnTotals{}, err
	}
	pol, err := loader.PolicyDoc([]byte(input.PolicyYAML))
	if err != nil {
		return nil, OutputComputeReturnTotals{}, err
	}

	run := &lines.Run{Year: input.Year}
	if input.ExpectedYAML != "" {
		expected, err := loader.Expected([]byte(input.ExpectedYAML))
		if err != nil {
			return nil, OutputComputeReturnTotals{}, err
		}
		run.Checker = &check.Checker{Expected: expected, Context: "expected_values"}
	}
	var rec *trace.Recorder
	if input.Trace {
		rec = &trace.Recorder{}
		run.Tracer = rec
	}

	totals, err := lines.ComputeAllTaxes(store, pol, run)
	if err != nil {
		return nil, OutputComputeReturnTotals{}, err
	}

	out := OutputComputeReturnTotals{
		Federal: totals.Federal.String(),
		NY:      totals.NY.String(),
		Total:   totals.Total.String(),
		Checked: run.Checker != nil,
	}
	for _, n := range rec.Nodes() {
		out.Trace = append(out.Trace, TraceNode{
			Label:     n.Label,
			Year:      n.Year,
			Value:     n.Value.String(),
			Formula:   n.Formula,
			DependsOn: n.DependsOn,
			Sources:   n.Sources,
		})
	}
	return nil, out, nil
}
