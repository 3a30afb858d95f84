package algorithm

import (
	"math"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"datavision/internal/domain"
)

// KMeansClusterer implements Lloyd's algorithm over a DataSet. Centroids are
// seeded lazily on the first iteration from distinct instances.
type KMeansClusterer struct {
	clusterer
	centroids   []domain.Point
	initialized bool
	names       []string
	assignment  []int // centroid index of names[i]
}

func NewKMeansClusterer(logger *zap.Logger, ds *domain.DataSet, maxIterations, updateInterval, numberOfClusters int, src Source) *KMeansClusterer {
	k := &KMeansClusterer{}
	k.clusterer.setup(logger, ds, maxIterations, updateInterval, numberOfClusters, src)
	k.names = ds.Names()
	k.assignment = make([]int, len(k.names))
	return k
}

func (k *KMeansClusterer) RunOnce() {
	if !k.active() {
		return
	}
	if !k.initialized && !k.initializeCentroids() {
		k.toContinue.Store(false)
		return
	}

	k.assignLabels()
	k.recomputeCentroids()
	k.current++

	if k.current >= k.maxIterations {
		k.toContinue.Store(false)
	}
}

func (k *KMeansClusterer) RunUpdateInterval() { k.runBatch(k.RunOnce) }

func (k *KMeansClusterer) Run() { k.runAll(k.RunOnce) }

// Centroids returns a copy of the current centroids, nil before seeding.
func (k *KMeansClusterer) Centroids() []domain.Point {
	if !k.initialized {
		return nil
	}
	out := make([]domain.Point, len(k.centroids))
	copy(out, k.centroids)
	return out
}

// initializeCentroids draws distinct instances until there is one per cluster.
func (k *KMeansClusterer) initializeCentroids() bool {
	if len(k.names) < k.numberOfClusters {
		k.logger.Warn("Not enough instances to seed centroids",
			zap.Int("instances", len(k.names)),
			zap.Int("clusters", k.numberOfClusters))
		return false
	}

	chosen := make(map[int]struct{}, k.numberOfClusters)
	k.centroids = make([]domain.Point, 0, k.numberOfClusters)
	for len(k.centroids) < k.numberOfClusters {
		i := k.src.IntN(len(k.names))
		if _, ok := chosen[i]; ok {
			continue
		}
		chosen[i] = struct{}{}
		p, _ := k.dataSet.Point(k.names[i])
		k.centroids = append(k.centroids, p)
	}
	k.initialized = true

	k.logger.Debug("Centroids seeded", zap.Any("centroids", k.centroids))
	return true
}

// assignLabels labels every point with the index of its nearest centroid.
// Ties go to the lowest index.
func (k *KMeansClusterer) assignLabels() {
	for n, name := range k.names {
		p, _ := k.dataSet.Point(name)
		location := []float64{p.X, p.Y}

		minDistance := math.MaxFloat64
		minIndex := -1
		for i, c := range k.centroids {
			distance := floats.Distance([]float64{c.X, c.Y}, location, 2)
			if distance < minDistance {
				minDistance = distance
				minIndex = i
			}
		}
		k.assignment[n] = minIndex
		k.relabel(name, strconv.Itoa(minIndex))
	}
}

// recomputeCentroids moves each centroid to the mean of its members and
// clears the continuation flag when none of them moved. A cluster without
// members keeps its previous centroid.
func (k *KMeansClusterer) recomputeCentroids() {
	moved := false
	for i := range k.centroids {
		var xs, ys []float64
		for n, name := range k.names {
			if k.assignment[n] != i {
				continue
			}
			p, _ := k.dataSet.Point(name)
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		if len(xs) == 0 {
			k.logger.Debug("Empty cluster keeps its centroid", zap.Int("cluster", i))
			continue
		}

		centroid := domain.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
		if centroid != k.centroids[i] {
			k.centroids[i] = centroid
			moved = true
		}
	}
	k.toContinue.Store(moved)

	if !moved {
		k.logger.Debug("K-means converged", zap.Int("iteration", k.current+1))
	}
}
