package fd

// propagate.go: the propagation scheduling loop.
//
// Individual propagators perform one bounded pass per call and rely on
// this loop to re-invoke them until quiescent. Quiescence is detected via
// the store's revision counter rather than by comparing domains.

// Propagator is a constraint that actively prunes domains. Propagate must
// return false iff the constraint is infeasible under the store's current
// domains; it mutates the store in place on every narrowing and must never
// signal infeasibility by panicking.
type Propagator interface {
	Constraint

	Propagate(st *Store, logsEnabled bool) bool
}

// Propagators filters the model's constraints down to those that can
// propagate.
func Propagators(m *Model) []Propagator {
	props := make([]Propagator, 0, len(m.Constraints()))
	for _, c := range m.Constraints() {
		if p, ok := c.(Propagator); ok {
			props = append(props, p)
		}
	}
	return props
}

// RunPropagation re-invokes every propagator until a full pass leaves the
// store revision unchanged, or a propagator reports infeasibility.
// Returns false iff infeasible. maxIterations bounds the number of full
// passes; a propagator that keeps reporting changes beyond the bound is
// treated as quiescent rather than looping forever.
func RunPropagation(st *Store, propagators []Propagator, logsEnabled bool, maxIterations int) bool {
	if maxIterations <= 0 {
		maxIterations = DefaultSolverConfig().MaxPropagationIterations
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		before := st.Revision()
		for _, p := range propagators {
			if !p.Propagate(st, logsEnabled) {
				return false
			}
		}
		if st.Revision() == before {
			return true
		}
	}
	return true
}
