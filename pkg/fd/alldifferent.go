// Package fd provides finite-domain constraint filtering.
// This file implements the all-different constraint with Régin's
// arc-consistency algorithm: forward checking, maximum bipartite matching,
// and SCC analysis of the residual graph.
package fd

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// AllDifferent constrains its scope variables to pairwise distinct values.
//
// Propagation runs Régin's algorithm: a maximum matching over the
// variable/value graph proves or refutes feasibility, and the strongly
// connected components of the matching-oriented residual graph identify
// every value that appears in no maximum matching. Those values are
// removed from the store. This prunes strictly more than pairwise
// disequality:
//
//	X,Y,Z ∈ {1,2} with AllDifferent(X,Y,Z) fails immediately
//	(3 variables, 2 values), where pairwise X≠Y, Y≠Z, X≠Z would only
//	fail after search tries assignments.
//
// A single Propagate call performs one bounded pass and no internal
// fixpoint: consequences of domains it reduces to singletons are picked up
// when the propagation loop re-invokes the constraint.
type AllDifferent struct {
	variables []*Variable
	varIDs    []int
	pvals     []int       // distinct admissible values, fixed at construction
	valIndex  map[int]int // value -> position in pvals
}

// NewAllDifferent creates an all-different constraint over the given
// variables. The union of all initially admissible values is captured once
// here and never recomputed during propagation. The constructor performs
// no propagation.
//
// Returns an error for an empty scope or a repeated variable.
func NewAllDifferent(variables []*Variable) (*AllDifferent, error) {
	if len(variables) == 0 {
		return nil, errors.New("AllDifferent requires at least one variable")
	}

	varsCopy := make([]*Variable, len(variables))
	copy(varsCopy, variables)

	varIDs := make([]int, len(varsCopy))
	seen := make(map[int]bool, len(varsCopy))
	for i, v := range varsCopy {
		if seen[v.ID()] {
			return nil, errors.Errorf("AllDifferent scope repeats variable %d", v.ID())
		}
		seen[v.ID()] = true
		varIDs[i] = v.ID()
	}

	all := make([]int, 0, len(varsCopy)*4)
	for _, v := range varsCopy {
		v.Domain().IterateValues(func(val int) {
			all = append(all, val)
		})
	}
	pvals := lo.Uniq(all)
	sort.Ints(pvals)

	valIndex := make(map[int]int, len(pvals))
	for i, val := range pvals {
		valIndex[val] = i
	}

	return &AllDifferent{
		variables: varsCopy,
		varIDs:    varIDs,
		pvals:     pvals,
		valIndex:  valIndex,
	}, nil
}

// Variables returns the constraint's scope. Implements Constraint.
func (c *AllDifferent) Variables() []*Variable {
	return c.variables
}

// Type returns the constraint type identifier. Implements Constraint.
func (c *AllDifferent) Type() string {
	return "AllDifferent"
}

// String returns a human-readable representation. Implements Constraint.
func (c *AllDifferent) String() string {
	return fmt.Sprintf("AllDifferent(%v)", c.varIDs)
}

// Propagate runs the full filtering pipeline against the store: forward
// checking, then matching and SCC-based pruning. It returns false iff the
// constraint is infeasible under the current domains; domains are narrowed
// in place on the way.
//
// When logsEnabled is set, one advisory line identifies the failure cause
// (duplicate fixed value, matching deficiency, or a domain emptied during
// filtering). The line is informational only and never affects results.
// Implements Propagator.
func (c *AllDifferent) Propagate(st *Store, logsEnabled bool) bool {
	done, feasible := c.forwardCheck(st, logsEnabled)
	if done {
		return feasible
	}

	g := buildBipartite(st, c.varIDs, c.valIndex, len(c.pvals))
	m := maximumMatching(g)
	if m.size < len(c.varIDs) {
		if logsEnabled {
			st.logger.WithFields(logrus.Fields{
				"constraint": c.String(),
				"matched":    m.size,
				"needed":     len(c.varIDs),
			}).Debug("all-different: no complete matching")
		}
		return false
	}

	r := buildResidual(g, m)
	component := stronglyConnected(r)

	// Every cross-component edge that is neither a matching edge nor a
	// sink edge witnesses a value supported by no maximum matching.
	for e := range r.edgeFrom {
		u, w := r.edgeFrom[e], r.edgeTo[e]
		if u == r.sink || w == r.sink {
			continue
		}
		if component[u] == component[w] {
			continue
		}

		var vi, vali int
		if u < g.n {
			vi, vali = u, w-g.n
		} else {
			vi, vali = w, u-g.n
		}
		if m.varToVal[vi] == vali {
			continue
		}

		if !st.Remove(c.varIDs[vi], c.pvals[vali]) {
			if logsEnabled {
				st.logger.WithFields(logrus.Fields{
					"constraint": c.String(),
					"variable":   c.varIDs[vi],
					"value":      c.pvals[vali],
				}).Debug("all-different: domain exhausted during filtering")
			}
			return false
		}
	}

	return true
}

// forwardCheck eliminates already-fixed values from the other scope
// variables. The first return value reports whether the pipeline is done
// (either proven infeasible, or fully satisfied with no graph needed); the
// second is the feasibility verdict when done.
//
// The scan is a single forward pass: a variable reduced to a singleton
// here extends the fixed set for variables later in the scope order, but
// earlier variables are not revisited. Re-running the constraint until
// quiescence is the propagation loop's job.
func (c *AllDifferent) forwardCheck(st *Store, logsEnabled bool) (done bool, feasible bool) {
	fixed := make(map[int]bool, len(c.varIDs))
	fixedCount := 0
	unfixed := make([]int, 0, len(c.varIDs))

	for _, id := range c.varIDs {
		if st.IsFixed(id) {
			fixed[st.Value(id)] = true
			fixedCount++
		} else {
			unfixed = append(unfixed, id)
		}
	}

	if len(fixed) < fixedCount {
		if logsEnabled {
			st.logger.WithField("constraint", c.String()).
				Debug("all-different: two variables fixed to the same value")
		}
		return true, false
	}

	var toRemove []int
	for _, id := range unfixed {
		toRemove = toRemove[:0]
		st.IterateValues(id, func(val int) {
			if fixed[val] {
				toRemove = append(toRemove, val)
			}
		})
		for _, val := range toRemove {
			if !st.Remove(id, val) {
				if logsEnabled {
					st.logger.WithFields(logrus.Fields{
						"constraint": c.String(),
						"variable":   id,
						"value":      val,
					}).Debug("all-different: domain exhausted by fixed values")
				}
				return true, false
			}
		}
		if st.Size(id) == 1 {
			fixed[st.Value(id)] = true
		}
	}

	if len(fixed) == len(c.varIDs) {
		return true, true
	}
	return false, true
}

// StaysFeasible reports whether assigning value to the variable with the
// given store index could still satisfy the constraint: it fails only when
// some other scope variable is already fixed to that exact value. O(arity),
// no graph construction, no domain mutation.
func (c *AllDifferent) StaysFeasible(st *Store, value, index int) bool {
	for _, id := range c.varIDs {
		if id == index {
			continue
		}
		if st.IsFixed(id) && st.Value(id) == value {
			return false
		}
	}
	return true
}
