package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResidualOrientation(t *testing.T) {
	// Domains {1,2}, {1,2}: values equal variables, no sink.
	g, _ := bipartiteFromDomains(t, 2,
		[]int{1, 2},
		[]int{1, 2},
	)
	m := maximumMatching(g)
	require.Equal(t, 2, m.size)

	r := buildResidual(g, m)
	assert.Equal(t, -1, r.sink)
	assert.Equal(t, 4, r.nodes)
	// One oriented edge per bipartite edge.
	assert.Len(t, r.edgeFrom, 4)

	// Matched edges leave the variable, unmatched edges leave the value.
	for e := range r.edgeFrom {
		u, w := r.edgeFrom[e], r.edgeTo[e]
		if u < g.n {
			assert.Equal(t, m.varToVal[u], w-g.n, "variable-sourced edge must be its matching edge")
		} else {
			assert.Less(t, w, g.n, "value-sourced edge must point at a variable")
			assert.NotEqual(t, m.varToVal[w], u-g.n, "matching edge oriented backwards")
		}
	}
}

func TestBuildResidualSinkFoldsSurplusValues(t *testing.T) {
	// Two variables over three values: one value stays unmatched, so the
	// sink appears and every value connects through it.
	g, _ := bipartiteFromDomains(t, 3,
		[]int{1, 2},
		[]int{1, 2, 3},
	)
	m := maximumMatching(g)
	require.Equal(t, 2, m.size)

	r := buildResidual(g, m)
	require.NotEqual(t, -1, r.sink)
	assert.Equal(t, g.n+g.m+1, r.nodes)

	sinkOut := 0
	sinkIn := 0
	for e := range r.edgeFrom {
		if r.edgeFrom[e] == r.sink {
			sinkOut++
		}
		if r.edgeTo[e] == r.sink {
			sinkIn++
		}
	}
	assert.Equal(t, 1, sinkOut, "one unmatched value")
	assert.Equal(t, 2, sinkIn, "two matched values")
}

func TestStronglyConnectedPartition(t *testing.T) {
	// Hand-built residual: 0→1→2→0 is a cycle, 3 hangs off it.
	r := &residual{nodes: 4, sink: -1, adj: make([][]int, 4)}
	r.addEdge(0, 1)
	r.addEdge(1, 2)
	r.addEdge(2, 0)
	r.addEdge(2, 3)

	component := stronglyConnected(r)

	assert.Equal(t, component[0], component[1])
	assert.Equal(t, component[1], component[2])
	assert.NotEqual(t, component[0], component[3])
}

func TestStronglyConnectedMutualReachability(t *testing.T) {
	// Domains {1,2}, {1,2}: the alternating cycle x0-1-x1-2-x0 puts all
	// four nodes in one component, so nothing is filterable.
	g, _ := bipartiteFromDomains(t, 2,
		[]int{1, 2},
		[]int{1, 2},
	)
	m := maximumMatching(g)
	r := buildResidual(g, m)

	component := stronglyConnected(r)
	for node := 1; node < r.nodes; node++ {
		assert.Equal(t, component[0], component[node])
	}
}

func TestStronglyConnectedWithSink(t *testing.T) {
	// Domains {1,2}, {1,2,3}: the surplus value 3 reaches the matched
	// values through variable 1 and the sink, folding everything into a
	// single component; no value may be pruned.
	g, _ := bipartiteFromDomains(t, 3,
		[]int{1, 2},
		[]int{1, 2, 3},
	)
	m := maximumMatching(g)
	r := buildResidual(g, m)

	component := stronglyConnected(r)
	for node := 1; node < r.nodes; node++ {
		assert.Equal(t, component[0], component[node])
	}
}
