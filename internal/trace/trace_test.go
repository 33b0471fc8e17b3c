// SPDX-License-Identifier: Apache-2.0

package trace_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/trace"
)

func TestRecorderKeepsComputationOrder(t *testing.T) {
	r := &trace.Recorder{}
	r.Record(trace.Node{Label: "federal.form_1040.line_1z_wages", Value: decimal.NewFromInt(50000)})
	r.Record(trace.Node{
		Label:     "federal.form_1040.line_9_total_income",
		Value:     decimal.NewFromInt(50000),
		Formula:   "line 1z + line 2b + line 3b + line 7 + line 8",
		DependsOn: []string{"federal.form_1040.line_1z_wages"},
	})

	nodes := r.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "federal.form_1040.line_1z_wages", nodes[0].Label)
	assert.Equal(t, []string{"federal.form_1040.line_1z_wages"}, nodes[1].DependsOn)
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *trace.Recorder
	r.Record(trace.Node{Label: "x"})
	assert.Nil(t, r.Nodes())
}
