package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bipartiteFromDomains(t *testing.T, maxValue int, domains ...[]int) (*bipartite, []int) {
	t.Helper()
	model := NewModel()
	vars := make([]*Variable, len(domains))
	for i, values := range domains {
		vars[i] = model.NewVariable(NewBitSetDomainFromValues(maxValue, values))
	}
	c, err := NewAllDifferent(vars)
	require.NoError(t, err)
	st := NewStore(model)
	return buildBipartite(st, c.varIDs, c.valIndex, len(c.pvals)), c.pvals
}

func TestBuildBipartiteEdgeCounts(t *testing.T) {
	g, pvals := bipartiteFromDomains(t, 9,
		[]int{5},
		[]int{1, 2, 3},
		[]int{2, 9},
	)

	assert.Equal(t, 3, g.n)
	assert.Equal(t, []int{1, 2, 3, 5, 9}, pvals)
	assert.Equal(t, 5, g.m)

	// Edge count per variable equals its remaining domain size.
	assert.Len(t, g.adj[0], 1)
	assert.Len(t, g.adj[1], 3)
	assert.Len(t, g.adj[2], 2)
}

func TestMaximumMatchingComplete(t *testing.T) {
	g, _ := bipartiteFromDomains(t, 3,
		[]int{1, 2},
		[]int{2, 3},
		[]int{1, 3},
	)

	m := maximumMatching(g)
	assert.Equal(t, 3, m.size)

	// The matching is injective: no value carries two variables.
	used := make(map[int]bool)
	for vi, vali := range m.varToVal {
		require.NotEqual(t, -1, vali, "variable %d unmatched", vi)
		assert.False(t, used[vali], "value index %d matched twice", vali)
		used[vali] = true
		assert.Equal(t, vi, m.valToVar[vali])
	}
}

func TestMaximumMatchingDeficient(t *testing.T) {
	// Three variables drawing on two values: pigeonhole.
	g, _ := bipartiteFromDomains(t, 2,
		[]int{1, 2},
		[]int{1, 2},
		[]int{1, 2},
	)

	m := maximumMatching(g)
	assert.Equal(t, 2, m.size)
}

func TestMaximumMatchingReassignsViaAugmentingPath(t *testing.T) {
	// Variable 0 can only take 1; variables below must shift off it.
	g, _ := bipartiteFromDomains(t, 3,
		[]int{1},
		[]int{1, 2},
		[]int{2, 3},
	)

	m := maximumMatching(g)
	require.Equal(t, 3, m.size)
	assert.Equal(t, 0, m.varToVal[0], "singleton variable must hold its sole value")
}

func TestMaximumMatchingSingletonConflict(t *testing.T) {
	// Two singletons forced onto the same value: only one can be matched.
	g, _ := bipartiteFromDomains(t, 3,
		[]int{2},
		[]int{2},
	)

	m := maximumMatching(g)
	assert.Equal(t, 1, m.size)
}
