// SPDX-License-Identifier: Apache-2.0

package lines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/returnproj/returncalc/internal/lines"
)

func TestComputeAllTaxes(t *testing.T) {
	store := wagesOnlyStore(t)

	got, err := lines.ComputeAllTaxes(store, flatPolicy(), nil)
	require.NoError(t, err)
	assertAmount(t, "5000", got.Federal)
	assertAmount(t, "4000", got.NY)
	assertAmount(t, "9000", got.Total)
}

func TestDefaultStateRoots(t *testing.T) {
	roots := lines.DefaultStateRoots()
	assert.Equal(t, []string{"NY"}, roots.Codes)
	require.Contains(t, roots.Funcs, "NY")
	require.NotNil(t, roots.Funcs["NY"])
}
