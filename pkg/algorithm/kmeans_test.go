package algorithm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"datavision/internal/domain"
	"datavision/pkg/algorithm"
)

func TestKMeans_ClampsNumberOfClusters(t *testing.T) {
	cases := map[int]int{-3: 2, 0: 2, 1: 2, 2: 2, 3: 3, 4: 4, 5: 4, 100: 4}
	for requested, effective := range cases {
		k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), twoPairs(t), 10, 1, requested, algorithm.NewSource(1))
		assert.Equal(t, effective, k.NumberOfClusters(), "requested %d", requested)
	}
}

// TestKMeans_ConvergesOnSeparatedPairs seeds one centroid in each pair and
// expects convergence on the second iteration, well before exhaustion.
func TestKMeans_ConvergesOnSeparatedPairs(t *testing.T) {
	ds := twoPairs(t)
	src := &scriptedSource{ints: []int{0, 2}}
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 50, 1, 2, src)

	for k.CanContinue() {
		k.RunOnce()
		requireKeyParity(t, ds)
	}

	require.Equal(t, 2, k.CurrentIteration())
	require.Less(t, k.CurrentIteration(), k.MaxIterations())

	a, _ := ds.Label("@a")
	b, _ := ds.Label("@b")
	c, _ := ds.Label("@c")
	d, _ := ds.Label("@d")
	assert.Equal(t, a, b)
	assert.Equal(t, c, d)
	assert.NotEqual(t, a, c)

	assert.Equal(t, []domain.Point{{X: 0, Y: 0.5}, {X: 10, Y: 0.5}}, k.Centroids())
}

func TestKMeans_RandomSeedingAlwaysConverges(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		ds := twoPairs(t)
		k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 50, 1, 2, algorithm.NewSource(seed))
		k.Run()

		require.False(t, k.CanContinue(), "seed %d", seed)
		require.Less(t, k.CurrentIteration(), 50, "seed %d", seed)
		require.Equal(t, 2, ds.NumLabels(), "seed %d", seed)
		requireKeyParity(t, ds)
	}
}

func TestKMeans_TieGoesToLowestIndex(t *testing.T) {
	ds := newDataSet(t,
		instance{"@left", "null", 0, 0},
		instance{"@right", "null", 2, 0},
		instance{"@middle", "null", 1, 0},
	)
	src := &scriptedSource{ints: []int{0, 1}}
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 10, 1, 2, src)

	k.RunOnce()

	label, _ := ds.Label("@middle")
	assert.Equal(t, "0", label)
}

func TestKMeans_EmptyClusterKeepsCentroid(t *testing.T) {
	ds := newDataSet(t,
		instance{"@a", "null", 0, 0},
		instance{"@b", "null", 0, 0},
		instance{"@c", "null", 5, 5},
	)
	src := &scriptedSource{ints: []int{0, 1}}
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 10, 1, 2, src)

	// Both seeds share a location, so every point ties onto cluster 0.
	k.RunOnce()

	centroids := k.Centroids()
	require.Len(t, centroids, 2)
	assert.Equal(t, domain.Point{X: 0, Y: 0}, centroids[1])
	assert.False(t, math.IsNaN(centroids[0].X))
	assert.InDelta(t, 5.0/3, centroids[0].X, 1e-12)
	assert.True(t, k.CanContinue())

	k.Run()
	assert.False(t, k.CanContinue())
	a, _ := ds.Label("@a")
	c, _ := ds.Label("@c")
	assert.NotEqual(t, a, c)
}

func TestKMeans_NotEnoughInstancesStops(t *testing.T) {
	ds := newDataSet(t, instance{"@only", "null", 1, 1})
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 10, 1, 2, algorithm.NewSource(3))

	k.RunOnce()

	assert.False(t, k.CanContinue())
	assert.Equal(t, 0, k.CurrentIteration())
	assert.Nil(t, k.Centroids())
}

func TestKMeans_ExhaustionClearsFlag(t *testing.T) {
	ds := twoPairs(t)
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 1, 5, 2, &scriptedSource{ints: []int{0, 2}})

	k.RunUpdateInterval()

	assert.Equal(t, 1, k.CurrentIteration())
	assert.False(t, k.CanContinue())
}

func TestKMeans_OutputIsACopy(t *testing.T) {
	ds := twoPairs(t)
	k := algorithm.NewKMeansClusterer(zaptest.NewLogger(t), ds, 10, 1, 2, &scriptedSource{ints: []int{0, 2}})
	k.RunOnce()

	out := k.Output()
	require.NotNil(t, out.DataSet)
	require.Nil(t, out.Line)
	require.NoError(t, out.DataSet.UpdateLabel("@a", "changed"))

	label, _ := ds.Label("@a")
	assert.NotEqual(t, "changed", label)
}
