// SPDX-License-Identifier: Apache-2.0

// Package loader decodes the YAML documents the engine consumes: extracted
// facts, the per-year policy tree, and expected line values. Decoding is the
// trust boundary; everything past it works with exact decimals.
package loader

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/check"
	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/policy"
)

type recordDoc struct {
	Amount      string   `yaml:"amount"`
	Explanation string   `yaml:"explanation"`
	Tags        []string `yaml:"tags"`
	Path        string   `yaml:"path"`
	Checked     *bool    `yaml:"checked"`
}

// Facts decodes a facts document: a mapping from source document name to its
// list of extracted records. Source order in the YAML is preserved in the
// store. Amounts must parse exactly; a malformed amount is fatal and names
// the source and record index.
func Facts(data []byte) (*facts.Store, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing facts document: %w", err)
	}

	store := facts.NewStore()
	for _, entry := range doc {
		source, ok := entry.Key.(string)
		if !ok {
			return nil, fmt.Errorf("facts document: source key %v is not a string", entry.Key)
		}
		raw, err := yaml.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("facts source %q: %w", source, err)
		}
		var recs []recordDoc
		if err := yaml.Unmarshal(raw, &recs); err != nil {
			return nil, fmt.Errorf("facts source %q: %w", source, err)
		}
		for i, rd := range recs {
			amount, err := decimal.NewFromString(rd.Amount)
			if err != nil {
				return nil, fmt.Errorf("facts source %q record %d: invalid amount %q", source, i, rd.Amount)
			}
			store.Add(source, facts.Record{
				Amount:      amount,
				Explanation: rd.Explanation,
				Tags:        rd.Tags,
				Path:        rd.Path,
				Checked:     rd.Checked,
			})
		}
	}
	return store, nil
}

// PolicyDoc decodes a per-year policy document.
func PolicyDoc(data []byte) (policy.Policy, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing policy document: %w", err)
	}
	return policy.Policy(tree), nil
}

// Expected decodes an expected-values document for checked computation.
func Expected(data []byte) (check.Tree, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing expected values document: %w", err)
	}
	return check.Tree(tree), nil
}
