package algorithm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"datavision/internal/domain"
)

// scriptedSource replays fixed draws so tests can pin seeding and coin flips.
type scriptedSource struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}

type instance struct {
	name, label string
	x, y        float64
}

func newDataSet(t *testing.T, instances ...instance) *domain.DataSet {
	t.Helper()
	ds := domain.NewDataSet()
	for _, in := range instances {
		require.NoError(t, ds.AddInstance(in.name, in.label, domain.Point{X: in.x, Y: in.y}))
	}
	return ds
}

// twoPairs is a set of two well separated pairs of points.
func twoPairs(t *testing.T) *domain.DataSet {
	return newDataSet(t,
		instance{"@a", "x", 0, 0},
		instance{"@b", "x", 0, 1},
		instance{"@c", "y", 10, 0},
		instance{"@d", "y", 10, 1},
	)
}

func requireKeyParity(t *testing.T, ds *domain.DataSet) {
	t.Helper()
	labels, points := ds.Labels(), ds.Points()
	require.Len(t, labels, len(points))
	for name := range points {
		_, ok := labels[name]
		require.True(t, ok, "label missing for %s", name)
	}
}
