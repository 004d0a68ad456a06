// Package fd provides finite-domain constraint filtering.
// This file defines the Model abstraction for declaratively building
// constraint satisfaction problems.
package fd

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Model represents a constraint satisfaction problem: variables with
// initial domains, constraints over them, and solver configuration.
//
// Models are built incrementally and become effectively immutable once a
// Store is created from them; stores and solvers only read the model.
//
// Thread safety: safe for concurrent reads during solving, construction
// must be sequential.
type Model struct {
	variables     []*Variable
	constraints   []Constraint
	variableIndex map[int]*Variable
	maxDomainSize int
	config        *SolverConfig

	mu sync.RWMutex
}

// Constraint is a relation over model variables. Constraints that also
// implement Propagator take part in the propagation loop; the rest only
// restrict which assignments count as solutions.
type Constraint interface {
	// Variables returns the variables in the constraint's scope.
	Variables() []*Variable

	// Type returns a short identifier for the constraint kind.
	Type() string

	// String returns a human-readable representation.
	String() string
}

// NewModel creates an empty model with default configuration.
func NewModel() *Model {
	return NewModelWithConfig(nil)
}

// NewModelWithConfig creates a model with custom solver configuration.
func NewModelWithConfig(config *SolverConfig) *Model {
	if config == nil {
		config = DefaultSolverConfig()
	}
	return &Model{
		variables:     make([]*Variable, 0),
		constraints:   make([]Constraint, 0),
		variableIndex: make(map[int]*Variable),
		config:        config,
	}
}

// NewVariable adds a variable with the given initial domain and returns it.
func (m *Model) NewVariable(domain Domain) *Variable {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.variables)
	v := NewVariable(id, domain)
	m.addVariableLocked(v, domain)
	return v
}

// NewVariableWithName adds a named variable for easier debugging.
func (m *Model) NewVariableWithName(domain Domain, name string) *Variable {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := len(m.variables)
	v := NewVariableWithName(id, domain, name)
	m.addVariableLocked(v, domain)
	return v
}

func (m *Model) addVariableLocked(v *Variable, domain Domain) {
	m.variables = append(m.variables, v)
	m.variableIndex[v.ID()] = v
	if domain.MaxValue() > m.maxDomainSize {
		m.maxDomainSize = domain.MaxValue()
	}
}

// NewVariables adds count variables sharing the same initial domain.
func (m *Model) NewVariables(count int, domain Domain) []*Variable {
	variables := make([]*Variable, count)
	for i := 0; i < count; i++ {
		variables[i] = m.NewVariable(domain)
	}
	return variables
}

// GetVariable retrieves a variable by ID, or nil if absent.
func (m *Model) GetVariable(id int) *Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variableIndex[id]
}

// Variables returns all variables. The slice must not be modified.
func (m *Model) Variables() []*Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variables
}

// VariableCount returns the number of variables.
func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}

// AddConstraint posts a constraint to the model.
func (m *Model) AddConstraint(constraint Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints = append(m.constraints, constraint)
}

// Constraints returns all constraints. The slice must not be modified.
func (m *Model) Constraints() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.constraints
}

// Config returns the solver configuration.
func (m *Model) Config() *SolverConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig replaces the solver configuration. Call before solving.
func (m *Model) SetConfig(config *SolverConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if config != nil {
		m.config = config
	}
}

// MaxDomainSize returns the largest domain bound across all variables.
func (m *Model) MaxDomainSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxDomainSize
}

// String summarizes the model.
func (m *Model) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("Model{variables: %d, constraints: %d, maxDomain: %d}",
		len(m.variables), len(m.constraints), m.maxDomainSize)
}

// Validate checks that the model is well-formed: no variable has an empty
// initial domain and every constraint references known variables.
func (m *Model) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.variables {
		if v.Domain().Count() == 0 {
			return errors.Errorf("variable %s has empty domain", v.Name())
		}
	}

	for _, c := range m.constraints {
		for _, v := range c.Variables() {
			if m.variableIndex[v.ID()] == nil {
				return errors.Errorf("constraint %s references unknown variable %d", c.Type(), v.ID())
			}
		}
	}

	return nil
}
