// SPDX-License-Identifier: Apache-2.0

// Package facts holds the in-memory store of sourced factual inputs: every
// number the engine consumes, grouped by source document, selected exclusively
// through semantic tags. The store is treated as immutable by all consumers;
// perturbation builds fresh copies.
package facts

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/money"
)

// Sentinel source identifiers. SourceDerived marks a temporary placeholder
// value not yet traced to a document; SourceUnknown marks a fact whose
// originating document has not been identified.
const (
	SourceUnknown = "UNKNOWN"
	SourceDerived = "DERIVED"
)

// shockSource names the synthetic source appended by WithShock. The suffix
// loop in WithShock keeps it from colliding with a real source.
const shockSource = "__MARGINAL_SHOCK__"

// Record is one sourced factual input. Tags are the only field calculations
// may select on; Path documents where in the source document the value was
// read and must never influence a computed result. Checked is a tri-state
// verification flag (nil = unreviewed).
type Record struct {
	Amount      decimal.Decimal
	Explanation string
	Tags        []string
	Path        string
	Checked     *bool
}

// HasTag reports whether the record carries the tag (string-exact match).
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RecordRef identifies a contributing record by its position in the store.
type RecordRef struct {
	Source string
	Index  int
	Record Record
}

// Store maps source identifiers to ordered record lists. Sources iterate in
// insertion order so that aggregation output is deterministic across runs.
type Store struct {
	order   []string
	records map[string][]Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string][]Record)}
}

// Add appends records under the given source, creating the source on first
// use. Record identity is positional within its source group.
func (s *Store) Add(source string, recs ...Record) {
	if _, ok := s.records[source]; !ok {
		s.order = append(s.order, source)
	}
	s.records[source] = append(s.records[source], recs...)
}

// Sources returns the source identifiers in insertion order.
func (s *Store) Sources() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Records returns the record list for one source, in insertion order.
func (s *Store) Records(source string) []Record {
	return s.records[source]
}

// Len returns the total number of records across all sources.
func (s *Store) Len() int {
	n := 0
	for _, recs := range s.records {
		n += len(recs)
	}
	return n
}

// TagTotal sums the amounts of every record whose tag set contains tag, and
// returns the ordered contributor list. Zero contributors is a valid zero, not
// an error: by convention only non-zero facts are stored. Callers that must
// distinguish "no such fact" from "fact is zero" use HasTag.
func (s *Store) TagTotal(tag string) (decimal.Decimal, []RecordRef) {
	return s.total(func(r Record) bool { return r.HasTag(tag) }, false)
}

// TagSum is TagTotal without the contributor list.
func (s *Store) TagSum(tag string) decimal.Decimal {
	sum, _ := s.TagTotal(tag)
	return sum
}

// TagTotalAny sums records whose tag set intersects the requested tags. A
// record matching several requested tags contributes once.
func (s *Store) TagTotalAny(tags ...string) (decimal.Decimal, []RecordRef) {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}
	return s.total(func(r Record) bool {
		for _, t := range r.Tags {
			if _, ok := want[t]; ok {
				return true
			}
		}
		return false
	}, false)
}

// TagTotalRoundedEach sums with each contribution rounded to whole dollars
// first, for lines whose form instructions total per-document rounded values.
func (s *Store) TagTotalRoundedEach(tag string) (decimal.Decimal, []RecordRef) {
	return s.total(func(r Record) bool { return r.HasTag(tag) }, true)
}

func (s *Store) total(match func(Record) bool, roundEach bool) (decimal.Decimal, []RecordRef) {
	sum := money.Zero
	var refs []RecordRef
	for _, source := range s.order {
		for i, rec := range s.records[source] {
			if !match(rec) {
				continue
			}
			amount := rec.Amount
			if roundEach {
				amount = money.RoundToDollar(amount)
			}
			sum = sum.Add(amount)
			refs = append(refs, RecordRef{Source: source, Index: i, Record: rec})
		}
	}
	return sum, refs
}

// HasTag reports whether any record in the store carries the tag.
func (s *Store) HasTag(tag string) bool {
	for _, recs := range s.records {
		for _, rec := range recs {
			if rec.HasTag(tag) {
				return true
			}
		}
	}
	return false
}

// Tags returns every distinct tag in the store, sorted.
func (s *Store) Tags() []string {
	seen := make(map[string]struct{})
	for _, recs := range s.records {
		for _, rec := range recs {
			for _, t := range rec.Tags {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy: mutating the copy (tags included) never touches
// the receiver. Amounts are immutable values and copy by assignment.
func (s *Store) Clone() *Store {
	out := NewStore()
	for _, source := range s.order {
		recs := s.records[source]
		cp := make([]Record, len(recs))
		for i, rec := range recs {
			cp[i] = rec
			cp[i].Tags = append([]string(nil), rec.Tags...)
			if rec.Checked != nil {
				v := *rec.Checked
				cp[i].Checked = &v
			}
		}
		out.order = append(out.order, source)
		out.records[source] = cp
	}
	return out
}

// WithShiftedAmount returns a clone in which exactly one record's amount is
// shifted by delta. The receiver is untouched.
func (s *Store) WithShiftedAmount(source string, index int, delta decimal.Decimal) *Store {
	out := s.Clone()
	recs := out.records[source]
	recs[index].Amount = recs[index].Amount.Add(delta)
	return out
}

// WithShock returns a clone with one synthetic, single-purpose record carrying
// exactly the given tag and amount, appended under a fresh source. Existing
// records — including multi-tag records that carry the target tag — are left
// untouched, so shocking one tag never perturbs totals that share a record
// with other tags.
func (s *Store) WithShock(tag string, amount decimal.Decimal) *Store {
	out := s.Clone()
	source := shockSource
	for {
		if _, taken := out.records[source]; !taken {
			break
		}
		source += "_X"
	}
	sign := "+delta"
	if amount.IsNegative() {
		sign = "-delta"
	}
	out.Add(source, Record{
		Amount:      amount,
		Explanation: "synthetic record for tag marginal calculation",
		Tags:        []string{tag},
		Path:        "synthetic marginal shock (" + sign + ")",
	})
	return out
}
