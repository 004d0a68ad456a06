package fd

// monitor.go: monitoring and statistics for the solver.

import (
	"fmt"
	"sync"
	"time"
)

// Stats holds statistics about one solving run.
type Stats struct {
	// Search statistics
	NodesExplored  int           // search nodes explored
	Backtracks     int           // backtracks performed
	SolutionsFound int           // solutions found
	SearchTime     time.Duration // wall time spent searching
	MaxDepth       int           // maximum search depth reached

	// Propagation statistics
	PropagationCount int           // fixpoint runs
	PropagationTime  time.Duration // time spent propagating
	ValuesPruned     int           // domain values removed by filtering

	// Memory statistics
	PeakTrailSize int // peak size of the undo trail
}

// Monitor collects statistics during solving. All methods are safe for
// concurrent use so future parallel workers can share one monitor.
type Monitor struct {
	mu        sync.Mutex
	stats     *Stats
	startTime time.Time
	propStart time.Time
}

// NewMonitor creates a monitor; its clock starts immediately.
func NewMonitor() *Monitor {
	return &Monitor{
		stats:     &Stats{},
		startTime: time.Now(),
	}
}

// GetStats returns a copy of the current statistics.
func (m *Monitor) GetStats() *Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := *m.stats
	return &stats
}

// StartPropagation marks the beginning of a fixpoint run.
func (m *Monitor) StartPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.propStart = time.Now()
}

// EndPropagation marks the end of a fixpoint run.
func (m *Monitor) EndPropagation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.propStart.IsZero() {
		m.stats.PropagationTime += time.Since(m.propStart)
		m.stats.PropagationCount++
		m.propStart = time.Time{}
	}
}

// RecordBacktrack records a backtrack.
func (m *Monitor) RecordBacktrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Backtracks++
}

// RecordNode records exploring a search node.
func (m *Monitor) RecordNode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.NodesExplored++
}

// RecordSolution records finding a solution.
func (m *Monitor) RecordSolution() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SolutionsFound++
}

// RecordDepth records the current search depth.
func (m *Monitor) RecordDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if depth > m.stats.MaxDepth {
		m.stats.MaxDepth = depth
	}
}

// RecordPruned records values removed by constraint filtering.
func (m *Monitor) RecordPruned(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.ValuesPruned += count
}

// RecordTrailSize records the store's peak trail size.
func (m *Monitor) RecordTrailSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if size > m.stats.PeakTrailSize {
		m.stats.PeakTrailSize = size
	}
}

// FinishSearch marks the end of the search process.
func (m *Monitor) FinishSearch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SearchTime = time.Since(m.startTime)
}

// String returns a formatted representation of the statistics.
func (s *Stats) String() string {
	return fmt.Sprintf(
		"Solver Statistics:\n"+
			"  Search: %d nodes, %d backtracks, %d solutions, %v time, max depth %d\n"+
			"  Propagation: %d runs, %v time, %d values pruned\n"+
			"  Memory: peak trail %d",
		s.NodesExplored, s.Backtracks, s.SolutionsFound, s.SearchTime, s.MaxDepth,
		s.PropagationCount, s.PropagationTime, s.ValuesPruned,
		s.PeakTrailSize,
	)
}
