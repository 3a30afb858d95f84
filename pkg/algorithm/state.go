package algorithm

import (
	"sync/atomic"
)

const (
	MinClusters = 2
	MaxClusters = 4
)

// iterationState is shared by every algorithm. Only toContinue is read across
// goroutines.
type iterationState struct {
	maxIterations  int
	updateInterval int
	current        int
	toContinue     atomic.Bool
}

func (s *iterationState) setup(maxIterations, updateInterval int) {
	s.maxIterations = maxIterations
	s.updateInterval = updateInterval
	s.current = 0
	s.toContinue.Store(true)
}

func (s *iterationState) CanContinue() bool     { return s.toContinue.Load() }
func (s *iterationState) CurrentIteration() int { return s.current }
func (s *iterationState) MaxIterations() int    { return s.maxIterations }
func (s *iterationState) UpdateInterval() int   { return s.updateInterval }

func (s *iterationState) active() bool {
	return s.current < s.maxIterations && s.toContinue.Load()
}

// runBatch calls once up to updateInterval times.
func (s *iterationState) runBatch(once func()) {
	for i := 0; i < s.updateInterval && s.active(); i++ {
		once()
	}
}

func (s *iterationState) runAll(once func()) {
	s.current = 0
	for s.active() {
		once()
	}
}

// ClampClusters forces a cluster count into [MinClusters, MaxClusters].
func ClampClusters(n int) int {
	if n < MinClusters {
		return MinClusters
	}
	if n > MaxClusters {
		return MaxClusters
	}
	return n
}
