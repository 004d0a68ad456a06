package fd

// config.go: solver configuration and search heuristics.

// VariableHeuristic selects how the solver picks the next branching
// variable.
type VariableHeuristic int

const (
	// HeuristicDom picks the variable with the smallest remaining domain.
	HeuristicDom VariableHeuristic = iota

	// HeuristicDomDeg picks the variable minimizing domain size divided by
	// constraint degree.
	HeuristicDomDeg

	// HeuristicDeg picks the variable involved in the most constraints.
	HeuristicDeg

	// HeuristicLex picks variables in ID order.
	HeuristicLex
)

// ValueHeuristic selects the order in which a variable's values are tried.
type ValueHeuristic int

const (
	// ValueOrderAsc tries values in ascending order.
	ValueOrderAsc ValueHeuristic = iota

	// ValueOrderDesc tries values in descending order.
	ValueOrderDesc
)

// SolverConfig holds search heuristics and propagation limits.
type SolverConfig struct {
	// VariableHeuristic controls branching variable selection.
	VariableHeuristic VariableHeuristic

	// ValueHeuristic controls value ordering within a branch.
	ValueHeuristic ValueHeuristic

	// MaxPropagationIterations bounds the fixpoint loop: each iteration
	// runs every propagator once. Guards against a propagator that keeps
	// reporting changes.
	MaxPropagationIterations int

	// LogsEnabled turns on advisory diagnostics from propagators.
	// Purely informational; no caller may depend on log content.
	LogsEnabled bool
}

// DefaultSolverConfig returns the configuration used when none is given.
func DefaultSolverConfig() *SolverConfig {
	return &SolverConfig{
		VariableHeuristic:        HeuristicDomDeg,
		ValueHeuristic:           ValueOrderAsc,
		MaxPropagationIterations: 1000,
	}
}
