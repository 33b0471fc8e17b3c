// SPDX-License-Identifier: Apache-2.0

// Package trace records structured explanations of line computations. The
// recorder is opt-in per invocation: a nil *Recorder disables collection, so
// the common path stays allocation-light. Recording is observational only and
// never alters a computed value.
package trace

import "github.com/shopspring/decimal"

// Input is one named concrete value a line computation consumed.
type Input struct {
	Name  string
	Value decimal.Decimal
}

// Node explains one computed line: the formula applied, the concrete inputs
// used, the labels of upstream nodes it depends on, and the source documents
// behind its fact inputs. Ordering within the slices follows computation
// order, so a node renders deterministically.
type Node struct {
	Label     string
	Year      int
	Value     decimal.Decimal
	Formula   string
	Inputs    []Input
	DependsOn []string
	Sources   []string
}

// Recorder accumulates nodes in computation order. The caller that requested
// tracing owns the recorder and its nodes; the computation graph never
// retains one.
type Recorder struct {
	nodes []Node
}

// Record appends a node. Nil receiver is a no-op.
func (r *Recorder) Record(n Node) {
	if r == nil {
		return
	}
	r.nodes = append(r.nodes, n)
}

// Nodes returns the recorded nodes in computation order.
func (r *Recorder) Nodes() []Node {
	if r == nil {
		return nil
	}
	return r.nodes
}
