package fd

// scc.go: residual graph orientation and strongly-connected-component
// analysis (the Régin decomposition).
//
// Node numbering over one scope: variables occupy 0..n-1 by scope
// position, values occupy n..n+m-1 by value index, and the optional sink
// is node n+m. Edges are recorded in parallel endpoint arrays so the
// filtering stage can replay exactly the edges that were oriented.

// residual is the directed graph derived from the bipartite graph and a
// maximum matching, per Berge's lemma:
//
//   - matched edge (covers fixed variables): variable -> value
//   - unmatched edge: value -> variable
//
// When the universe holds more values than variables, every value unused
// by the matching is interchangeable with any used one in some alternative
// maximum matching. A single sink node folds them into one connectivity
// class: sink -> unused value, used value -> sink.
type residual struct {
	nodes    int
	sink     int // sink node id, or -1 when |values| == |variables|
	adj      [][]int
	edgeFrom []int
	edgeTo   []int
}

func (r *residual) addEdge(from, to int) {
	r.adj[from] = append(r.adj[from], to)
	r.edgeFrom = append(r.edgeFrom, from)
	r.edgeTo = append(r.edgeTo, to)
}

// buildResidual orients every bipartite edge and wires the sink.
func buildResidual(g *bipartite, m *matching) *residual {
	nodes := g.n + g.m
	sink := -1
	if g.m > g.n {
		sink = nodes
		nodes++
	}

	r := &residual{
		nodes:    nodes,
		sink:     sink,
		adj:      make([][]int, nodes),
		edgeFrom: make([]int, 0, g.n*2),
		edgeTo:   make([]int, 0, g.n*2),
	}

	for vi := 0; vi < g.n; vi++ {
		for _, vali := range g.adj[vi] {
			valNode := g.n + vali
			if m.varToVal[vi] == vali {
				r.addEdge(vi, valNode)
			} else {
				r.addEdge(valNode, vi)
			}
		}
	}

	if sink != -1 {
		for vali := 0; vali < g.m; vali++ {
			valNode := g.n + vali
			if m.valToVar[vali] == -1 {
				r.addEdge(sink, valNode)
			} else {
				r.addEdge(valNode, sink)
			}
		}
	}

	return r
}

// stronglyConnected partitions the residual graph with Tarjan's algorithm.
// Returns component[node] = component id; two nodes share an id iff they
// are mutually reachable. Linear in nodes plus edges.
func stronglyConnected(r *residual) []int {
	component := make([]int, r.nodes)
	indices := make([]int, r.nodes)
	lowlink := make([]int, r.nodes)
	onStack := make([]bool, r.nodes)
	for i := range indices {
		indices[i] = -1
		component[i] = -1
	}

	index := 0
	count := 0
	stack := make([]int, 0, r.nodes)

	var strongconnect func(v int)
	strongconnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range r.adj[v] {
			if indices[w] == -1 {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component[w] = count
				if w == v {
					break
				}
			}
			count++
		}
	}

	for v := 0; v < r.nodes; v++ {
		if indices[v] == -1 {
			strongconnect(v)
		}
	}

	return component
}
