// Package fd provides finite-domain constraint filtering.
// This file implements the Store: the mutable domain snapshot that
// propagation and search operate on.
package fd

import (
	"github.com/sirupsen/logrus"
)

// change records a single domain replacement for the undo trail.
type change struct {
	varID  int
	domain Domain
}

// Store holds the current domain of every model variable. A store is the
// solver state threaded explicitly through every propagation call; there is
// no hidden global. Constraints mutate domains only through Remove and
// SetDomain, both of which trail the old domain so search can backtrack
// with UndoTo.
//
// The revision counter increments on every effective domain change; the
// propagation loop uses it to detect quiescence without comparing domains.
//
// Stores are not safe for concurrent use. Parallel search requires one
// store per worker, each built from the shared read-only model.
type Store struct {
	model     *Model
	domains   []Domain
	trail     []change
	revision  uint64
	peakTrail int
	logger    logrus.FieldLogger
}

// NewStore builds a store from the model's initial domains.
func NewStore(model *Model) *Store {
	vars := model.Variables()
	domains := make([]Domain, len(vars))
	for i, v := range vars {
		domains[i] = v.Domain()
	}
	return &Store{
		model:   model,
		domains: domains,
		trail:   make([]change, 0, 1024),
		logger:  logrus.StandardLogger(),
	}
}

// SetLogger injects the logger used for advisory propagation diagnostics.
// A nil logger restores the standard one.
func (s *Store) SetLogger(logger logrus.FieldLogger) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s.logger = logger
}

// Model returns the model this store was built from.
func (s *Store) Model() *Model {
	return s.model
}

// Revision returns the change counter. Any effective domain mutation bumps
// it, so equal revisions before and after a call mean nothing changed.
func (s *Store) Revision() uint64 {
	return s.revision
}

// Domain returns the current domain of the variable.
func (s *Store) Domain(varID int) Domain {
	return s.domains[varID]
}

// IsFixed reports whether the variable's domain is a singleton.
func (s *Store) IsFixed(varID int) bool {
	return s.domains[varID].IsSingleton()
}

// Value returns the value of a fixed variable. Defined only if IsFixed.
func (s *Store) Value(varID int) int {
	return s.domains[varID].SingletonValue()
}

// Size returns the number of values remaining for the variable.
func (s *Store) Size(varID int) int {
	return s.domains[varID].Count()
}

// Contains reports whether the value is still in the variable's domain.
func (s *Store) Contains(varID, value int) bool {
	return s.domains[varID].Has(value)
}

// IterateValues calls f for each remaining value in ascending order.
func (s *Store) IterateValues(varID int, f func(value int)) {
	s.domains[varID].IterateValues(f)
}

// Remove deletes a value from the variable's domain. It returns false iff
// the removal emptied the domain, signalling infeasibility to the caller;
// the removal itself is still applied and trailed so UndoTo restores it.
// Removing an absent value is a no-op returning true.
func (s *Store) Remove(varID, value int) bool {
	dom := s.domains[varID]
	if !dom.Has(value) {
		return true
	}
	s.record(varID, dom)
	s.domains[varID] = dom.Remove(value)
	return s.domains[varID].Count() > 0
}

// SetDomain replaces the variable's domain, trailing the old one. Used by
// search when branching. Replacing with an equal domain is a no-op.
func (s *Store) SetDomain(varID int, domain Domain) {
	if s.domains[varID].Equal(domain) {
		return
	}
	s.record(varID, s.domains[varID])
	s.domains[varID] = domain
}

func (s *Store) record(varID int, old Domain) {
	s.trail = append(s.trail, change{varID: varID, domain: old})
	if len(s.trail) > s.peakTrail {
		s.peakTrail = len(s.trail)
	}
	s.revision++
}

// Snapshot returns a mark for the current trail position.
func (s *Store) Snapshot() int {
	return len(s.trail)
}

// UndoTo rewinds all domain changes made after the snapshot.
func (s *Store) UndoTo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		ch := s.trail[i]
		s.domains[ch.varID] = ch.domain
	}
	s.trail = s.trail[:mark]
	s.revision++
}

// PeakTrailSize returns the largest trail length seen, for statistics.
func (s *Store) PeakTrailSize() int {
	return s.peakTrail
}

// Assigned reports whether every variable is fixed.
func (s *Store) Assigned() bool {
	for _, d := range s.domains {
		if !d.IsSingleton() {
			return false
		}
	}
	return true
}

// Solution extracts the assignment of a fully fixed store, one value per
// variable in ID order. Unfixed variables yield 0.
func (s *Store) Solution() []int {
	solution := make([]int, len(s.domains))
	for i, d := range s.domains {
		if d.IsSingleton() {
			solution[i] = d.SingletonValue()
		}
	}
	return solution
}
