// Package fd provides finite-domain constraint filtering.
// This file defines the Variable type: an identity plus an initial domain.
package fd

import "fmt"

// Variable is a decision variable of a constraint model. A variable holds
// only its stable ID and its initial domain; the current domain during
// propagation and search lives in the Store, keyed by that ID.
type Variable struct {
	id     int
	domain Domain
	name   string
}

// NewVariable creates a variable with the given ID and initial domain.
func NewVariable(id int, domain Domain) *Variable {
	return &Variable{
		id:     id,
		domain: domain,
		name:   fmt.Sprintf("v%d", id),
	}
}

// NewVariableWithName creates a named variable for easier debugging.
func NewVariableWithName(id int, domain Domain, name string) *Variable {
	return &Variable{
		id:     id,
		domain: domain,
		name:   name,
	}
}

// ID returns the variable's stable index into the store.
func (v *Variable) ID() int {
	return v.id
}

// Domain returns the variable's initial domain.
func (v *Variable) Domain() Domain {
	return v.domain
}

// Name returns the variable's name for diagnostics.
func (v *Variable) Name() string {
	return v.name
}

// SetDomain replaces the initial domain. Must only be called during model
// construction, never while a store built from the model is live.
func (v *Variable) SetDomain(domain Domain) {
	v.domain = domain
}

// String renders the variable with its initial domain.
func (v *Variable) String() string {
	return fmt.Sprintf("%s:%s", v.name, v.domain.String())
}
