package fd

// matching.go: bipartite value graph construction and maximum matching.
//
// The graph is transient: rebuilt from the current store snapshot on every
// propagation call and discarded on return. Nodes are index-addressed
// (variables by scope position, values by position in the constraint's
// value universe) so the matching and SCC stages work on plain int arrays.

import "sort"

// bipartite is the variable/value incidence graph of one all-different
// scope. adj[i] lists the value indices still in variable i's domain.
type bipartite struct {
	n   int     // number of scope variables
	m   int     // number of distinct values in the universe
	adj [][]int // variable position -> value indices
}

// buildBipartite reads the current domains of the scope variables from the
// store. A fixed variable contributes a single edge to its sole value.
// Total edge count equals the sum of remaining domain sizes.
func buildBipartite(st *Store, varIDs []int, valIndex map[int]int, m int) *bipartite {
	g := &bipartite{
		n:   len(varIDs),
		m:   m,
		adj: make([][]int, len(varIDs)),
	}
	for i, id := range varIDs {
		edges := make([]int, 0, st.Size(id))
		st.IterateValues(id, func(val int) {
			if vi, ok := valIndex[val]; ok {
				edges = append(edges, vi)
			}
		})
		g.adj[i] = edges
	}
	return g
}

// matching holds an injective partial map from scope variables to value
// indices, together with its inverse.
type matching struct {
	varToVal []int // variable position -> value index, -1 if unmatched
	valToVar []int // value index -> variable position, -1 if unmatched
	size     int
}

// maximumMatching computes a maximum-cardinality matching over the
// bipartite graph with an augmenting-path DFS. Singleton variables are
// seeded first, then remaining variables are tried smallest-domain-first;
// the visited array is token-stamped so it never needs clearing between
// augmentations.
func maximumMatching(g *bipartite) *matching {
	m := &matching{
		varToVal: make([]int, g.n),
		valToVar: make([]int, g.m),
	}
	for i := range m.varToVal {
		m.varToVal[i] = -1
	}
	for i := range m.valToVar {
		m.valToVar[i] = -1
	}

	order := make([]int, g.n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := len(g.adj[order[a]]), len(g.adj[order[b]])
		if da == 1 && db != 1 {
			return true
		}
		if db == 1 && da != 1 {
			return false
		}
		return da < db
	})

	// Seed: deterministic assignment for singleton variables.
	for _, vi := range order {
		if len(g.adj[vi]) == 1 {
			vali := g.adj[vi][0]
			if m.valToVar[vali] == -1 {
				m.valToVar[vali] = vi
				m.varToVal[vi] = vali
				m.size++
			}
		}
	}

	seen := make([]int, g.m)
	token := 0

	var augment func(vi int) bool
	augment = func(vi int) bool {
		for _, vali := range g.adj[vi] {
			if seen[vali] == token {
				continue
			}
			seen[vali] = token
			if m.valToVar[vali] == -1 || augment(m.valToVar[vali]) {
				m.valToVar[vali] = vi
				m.varToVal[vi] = vali
				return true
			}
		}
		return false
	}

	for _, vi := range order {
		if m.varToVal[vi] != -1 {
			continue
		}
		token++
		if augment(vi) {
			m.size++
		}
	}

	return m
}
