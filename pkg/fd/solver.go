// Package fd provides finite-domain constraint filtering.
// This file implements backtracking search over a Store. The search is the
// outer loop the filtering algorithm relies on: it re-runs propagation
// after every branching decision and undoes trail changes on backtrack.
package fd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Solver performs depth-first backtracking search with constraint
// propagation at every node.
//
// The solver owns one Store per Solve call; the model is only read.
// Solver instances are not safe for concurrent use. Parallel search means
// one solver per worker over the shared model.
type Solver struct {
	model       *Model
	config      *SolverConfig
	monitor     *Monitor
	propagators []Propagator
	logger      logrus.FieldLogger
}

// NewSolver creates a solver using the model's configuration.
func NewSolver(model *Model) *Solver {
	return NewSolverWithConfig(model, nil)
}

// NewSolverWithConfig creates a solver with a configuration overriding the
// model's.
func NewSolverWithConfig(model *Model, config *SolverConfig) *Solver {
	if config == nil {
		config = model.Config()
	}
	return &Solver{
		model:       model,
		config:      config,
		propagators: Propagators(model),
		logger:      logrus.StandardLogger(),
	}
}

// SetMonitor enables statistics collection during solving.
func (s *Solver) SetMonitor(monitor *Monitor) {
	s.monitor = monitor
}

// SetLogger injects the logger handed to the store for advisory
// propagation diagnostics.
func (s *Solver) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		s.logger = logger
	}
}

// Solve finds up to maxSolutions solutions, or all of them if
// maxSolutions <= 0. Solutions are value slices indexed by variable ID.
// The context cancels search between nodes; propagation itself always runs
// to completion once started.
func (s *Solver) Solve(ctx context.Context, maxSolutions int) ([][]int, error) {
	if err := s.model.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if s.monitor != nil {
		defer s.monitor.FinishSearch()
	}

	st := NewStore(s.model)
	st.SetLogger(s.logger)

	// Root propagation: an inconsistency here means no solutions exist.
	if !s.runPropagation(st) {
		return [][]int{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	solutions := make([][]int, 0)

	if st.Assigned() {
		solutions = append(solutions, st.Solution())
		if s.monitor != nil {
			s.monitor.RecordSolution()
		}
		return solutions, nil
	}

	s.search(ctx, st, &solutions, maxSolutions)
	return solutions, ctx.Err()
}

// search runs iterative backtracking with an explicit frame stack and
// trail-mark undo.
func (s *Solver) search(ctx context.Context, st *Store, solutions *[][]int, maxSolutions int) {
	type frame struct {
		varID  int
		values []int
		idx    int
		mark   int // trail mark to rewind to before each attempt
	}

	varID, values := s.selectVariable(st)
	if varID == -1 {
		return
	}

	stack := make([]frame, 0, 64)
	stack = append(stack, frame{varID: varID, values: values, mark: st.Snapshot()})

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		f := &stack[len(stack)-1]

		// Roll back whatever the previous attempt at this depth did.
		st.UndoTo(f.mark)

		if f.idx >= len(f.values) {
			stack = stack[:len(stack)-1]
			if s.monitor != nil {
				s.monitor.RecordBacktrack()
			}
			continue
		}

		value := f.values[f.idx]
		f.idx++

		if s.monitor != nil {
			s.monitor.RecordNode()
			s.monitor.RecordDepth(len(stack))
		}

		domain := st.Domain(f.varID)
		st.SetDomain(f.varID, NewBitSetDomainFromValues(domain.MaxValue(), []int{value}))

		if !s.runPropagation(st) {
			continue
		}

		if st.Assigned() {
			*solutions = append(*solutions, st.Solution())
			if s.monitor != nil {
				s.monitor.RecordSolution()
			}
			if maxSolutions > 0 && len(*solutions) >= maxSolutions {
				return
			}
			continue
		}

		nextVar, nextValues := s.selectVariable(st)
		if nextVar == -1 {
			continue
		}
		stack = append(stack, frame{varID: nextVar, values: nextValues, mark: st.Snapshot()})
	}
}

// runPropagation drives the fixpoint loop and records statistics.
func (s *Solver) runPropagation(st *Store) bool {
	if s.monitor != nil {
		s.monitor.StartPropagation()
	}
	before := st.Snapshot()

	ok := RunPropagation(st, s.propagators, s.config.LogsEnabled, s.config.MaxPropagationIterations)

	if s.monitor != nil {
		s.monitor.RecordPruned(st.Snapshot() - before)
		s.monitor.RecordTrailSize(st.PeakTrailSize())
		s.monitor.EndPropagation()
	}
	return ok
}

// selectVariable picks the next branching variable per the configured
// heuristic and returns its candidate values in heuristic order.
// Returns (-1, nil) when every variable is fixed.
func (s *Solver) selectVariable(st *Store) (int, []int) {
	bestVar := -1
	bestScore := 0.0

	for i := 0; i < s.model.VariableCount(); i++ {
		domain := st.Domain(i)
		if domain.IsSingleton() {
			continue
		}

		score := s.variableScore(i, domain)
		if bestVar == -1 || score < bestScore {
			bestVar = i
			bestScore = score
		}
	}

	if bestVar == -1 {
		return -1, nil
	}

	values := make([]int, 0, st.Size(bestVar))
	st.IterateValues(bestVar, func(v int) {
		values = append(values, v)
	})
	if s.config.ValueHeuristic == ValueOrderDesc {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}
	}

	return bestVar, values
}

// variableScore computes the branching score; lower is selected first.
func (s *Solver) variableScore(varID int, domain Domain) float64 {
	switch s.config.VariableHeuristic {
	case HeuristicDom:
		return float64(domain.Count())

	case HeuristicDomDeg:
		return float64(domain.Count()) / float64(1+s.variableDegree(varID))

	case HeuristicDeg:
		return -float64(s.variableDegree(varID))

	case HeuristicLex:
		return float64(varID)

	default:
		return float64(domain.Count())
	}
}

// variableDegree counts the constraints whose scope contains the variable.
func (s *Solver) variableDegree(varID int) int {
	degree := 0
	for _, constraint := range s.model.Constraints() {
		for _, v := range constraint.Variables() {
			if v.ID() == varID {
				degree++
				break
			}
		}
	}
	return degree
}
