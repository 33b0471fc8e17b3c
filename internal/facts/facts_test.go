// SPDX-License-Identifier: Apache-2.0

package facts_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/facts"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testStore() *facts.Store {
	s := facts.NewStore()
	s.Add("w2_acme.pdf",
		facts.Record{Amount: dec("50000.00"), Tags: []string{"wages", "medicare_wages"}, Path: "box 1 / box 5"},
	)
	s.Add("1099_int_bank.pdf",
		facts.Record{Amount: dec("210.55"), Tags: []string{"interest"}, Path: "box 1"},
		facts.Record{Amount: dec("89.45"), Tags: []string{"interest"}, Path: "box 3"},
	)
	s.Add(facts.SourceDerived,
		facts.Record{Amount: dec("1200"), Tags: []string{"retirement"}, Explanation: "4 quarterly contributions of 300"},
	)
	return s
}

func TestTagTotal(t *testing.T) {
	s := testStore()

	tests := []struct {
		name     string
		tag      string
		wantSum  string
		wantRefs int
	}{
		{name: "single contributor", tag: "wages", wantSum: "50000.00", wantRefs: 1},
		{name: "multiple contributors", tag: "interest", wantSum: "300.00", wantRefs: 2},
		{name: "tag shared with another on one record", tag: "medicare_wages", wantSum: "50000.00", wantRefs: 1},
		{name: "absent tag is a valid zero", tag: "royalties", wantSum: "0", wantRefs: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, refs := s.TagTotal(tt.tag)
			assert.True(t, dec(tt.wantSum).Equal(sum), "sum = %s, want %s", sum, tt.wantSum)
			assert.Len(t, refs, tt.wantRefs)
		})
	}
}

func TestTagTotalContributorOrderDeterministic(t *testing.T) {
	s := testStore()
	_, first := s.TagTotal("interest")
	_, second := s.TagTotal("interest")
	require.Equal(t, first, second)
	require.Equal(t, "1099_int_bank.pdf", first[0].Source)
	require.Equal(t, 0, first[0].Index)
	require.Equal(t, 1, first[1].Index)
}

func TestTagTotalInvariantUnderSourceReordering(t *testing.T) {
	a := facts.NewStore()
	a.Add("s1", facts.Record{Amount: dec("10"), Tags: []string{"t"}})
	a.Add("s2", facts.Record{Amount: dec("32"), Tags: []string{"t"}})

	b := facts.NewStore()
	b.Add("s2", facts.Record{Amount: dec("32"), Tags: []string{"t"}})
	b.Add("s1", facts.Record{Amount: dec("10"), Tags: []string{"t"}})

	sumA, refsA := a.TagTotal("t")
	sumB, refsB := b.TagTotal("t")
	assert.True(t, sumA.Equal(sumB))
	assert.Len(t, refsA, 2)
	assert.Len(t, refsB, 2)
}

func TestTagTotalAnyCountsSharedRecordOnce(t *testing.T) {
	s := testStore()
	sum, refs := s.TagTotalAny("wages", "medicare_wages")
	assert.True(t, dec("50000.00").Equal(sum))
	assert.Len(t, refs, 1)
}

func TestTagTotalRoundedEach(t *testing.T) {
	s := facts.NewStore()
	s.Add("a", facts.Record{Amount: dec("10.50"), Tags: []string{"w"}})
	s.Add("b", facts.Record{Amount: dec("10.50"), Tags: []string{"w"}})

	sum, _ := s.TagTotalRoundedEach("w")
	assert.True(t, dec("22").Equal(sum), "per-record rounding should give 11+11, got %s", sum)

	exact, _ := s.TagTotal("w")
	assert.True(t, dec("21.00").Equal(exact))
}

func TestHasTagDistinguishesAbsenceFromZero(t *testing.T) {
	s := facts.NewStore()
	s.Add("a", facts.Record{Amount: dec("0"), Tags: []string{"present_zero"}})

	assert.True(t, s.HasTag("present_zero"))
	assert.False(t, s.HasTag("absent"))

	sum, refs := s.TagTotal("present_zero")
	assert.True(t, sum.IsZero())
	assert.Len(t, refs, 1)
}

func TestTagsSortedDistinct(t *testing.T) {
	s := testStore()
	assert.Equal(t, []string{"interest", "medicare_wages", "retirement", "wages"}, s.Tags())
}

func TestCloneIsIndependent(t *testing.T) {
	s := testStore()
	c := s.Clone()
	c.Records("w2_acme.pdf")[0].Amount = dec("1")
	c.Records("w2_acme.pdf")[0].Tags[0] = "mutated"

	sum, _ := s.TagTotal("wages")
	assert.True(t, dec("50000.00").Equal(sum), "clone mutation leaked into original")
}

func TestWithShiftedAmountLeavesOriginalUntouched(t *testing.T) {
	s := testStore()
	shifted := s.WithShiftedAmount("1099_int_bank.pdf", 1, dec("1000"))

	sum, _ := shifted.TagTotal("interest")
	assert.True(t, dec("1300.00").Equal(sum))

	orig, _ := s.TagTotal("interest")
	assert.True(t, dec("300.00").Equal(orig))
}

func TestWithShockAddsSyntheticSingleTagRecord(t *testing.T) {
	s := testStore()
	shocked := s.WithShock("wages", dec("1000"))

	sum, refs := shocked.TagTotal("wages")
	assert.True(t, dec("51000.00").Equal(sum))
	assert.Len(t, refs, 2)

	// The shared record must be untouched so medicare_wages is not perturbed.
	med, medRefs := shocked.TagTotal("medicare_wages")
	assert.True(t, dec("50000.00").Equal(med))
	assert.Len(t, medRefs, 1)

	// Shock source is fresh and single-purpose.
	synthetic := refs[1]
	assert.NotEqual(t, "w2_acme.pdf", synthetic.Source)
	assert.Equal(t, []string{"wages"}, synthetic.Record.Tags)

	orig, _ := s.TagTotal("wages")
	assert.True(t, dec("50000.00").Equal(orig))
}

func TestWithShockAvoidsSourceCollision(t *testing.T) {
	s := facts.NewStore()
	s.Add("__MARGINAL_SHOCK__", facts.Record{Amount: dec("5"), Tags: []string{"x"}})

	shocked := s.WithShock("x", dec("1000"))
	sum, refs := shocked.TagTotal("x")
	assert.True(t, dec("1005").Equal(sum))
	assert.Len(t, refs, 2)
	assert.NotEqual(t, refs[0].Source, refs[1].Source)
}

func TestDerivedReplacementKeepsTagTotal(t *testing.T) {
	s := facts.NewStore()
	s.Add(facts.SourceDerived, facts.Record{Amount: dec("900"), Tags: []string{"dividends"}})
	before, _ := s.TagTotal("dividends")

	// Decompose the placeholder into source-backed facts carrying the same tag.
	replaced := facts.NewStore()
	replaced.Add("1099_div_a.pdf", facts.Record{Amount: dec("650"), Tags: []string{"dividends"}})
	replaced.Add("1099_div_b.pdf", facts.Record{Amount: dec("250"), Tags: []string{"dividends"}})
	after, _ := replaced.TagTotal("dividends")

	assert.True(t, before.Equal(after))
}
