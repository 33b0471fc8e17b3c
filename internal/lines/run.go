// SPDX-License-Identifier: Apache-2.0

// Package lines implements the return's line calculations as pure functions
// composed into two jurisdiction roots (federal Form 1040 line 24 and NY
// IT-201 line 62). Every fact is read through the tag aggregator; every rate
// and threshold comes from the policy tree. Validation and tracing are
// threaded per invocation through Run so nested computations, such as the
// perturbed runs of the marginal engine, never share mode state.
package lines

import (
	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/check"
	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/trace"
)

// Run carries the optional collaborators for one root invocation. A nil Run,
// nil Checker, or nil Tracer disables the corresponding behavior.
type Run struct {
	Checker *check.Checker
	Tracer  *trace.Recorder
	Year    int
}

func (r *Run) checker() *check.Checker {
	if r == nil {
		return nil
	}
	return r.Checker
}

func (r *Run) tracer() *trace.Recorder {
	if r == nil {
		return nil
	}
	return r.Tracer
}

func (r *Run) year() int {
	if r == nil {
		return 0
	}
	return r.Year
}

type observation struct {
	label   string
	value   decimal.Decimal
	formula string
	deps    []string
	sources []string
}

// observer batches the per-line observations a root makes while it computes,
// then replays them: every label is checked against the expected tree in
// computation order (first mismatch aborts the root) and, when tracing is on,
// emitted as a trace node.
type observer struct {
	run  *Run
	list []observation
}

func newObserver(run *Run) *observer {
	return &observer{run: run}
}

func (o *observer) note(label string, value decimal.Decimal, formula string, deps ...string) {
	o.list = append(o.list, observation{label: label, value: value, formula: formula, deps: deps})
}

func (o *observer) noteFacts(label string, value decimal.Decimal, formula string, refs []facts.RecordRef) {
	sources := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Source]; ok {
			continue
		}
		seen[ref.Source] = struct{}{}
		sources = append(sources, ref.Source)
	}
	o.list = append(o.list, observation{label: label, value: value, formula: formula, sources: sources})
}

func (o *observer) flush() error {
	checker := o.run.checker()
	for _, ob := range o.list {
		if err := checker.Check(ob.label, ob.value); err != nil {
			return err
		}
	}
	tracer := o.run.tracer()
	if tracer == nil {
		return nil
	}
	year := o.run.year()
	for _, ob := range o.list {
		tracer.Record(trace.Node{
			Label:     ob.label,
			Year:      year,
			Value:     ob.value,
			Formula:   ob.formula,
			DependsOn: ob.deps,
			Sources:   ob.sources,
		})
	}
	return nil
}
