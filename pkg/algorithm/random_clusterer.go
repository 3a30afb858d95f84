package algorithm

import (
	"strconv"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

// RandomClusterer assigns every instance a random cluster each iteration.
type RandomClusterer struct {
	clusterer
}

func NewRandomClusterer(logger *zap.Logger, ds *domain.DataSet, maxIterations, updateInterval, numberOfClusters int, src Source) *RandomClusterer {
	r := &RandomClusterer{}
	r.clusterer.setup(logger, ds, maxIterations, updateInterval, numberOfClusters, src)
	return r
}

func (r *RandomClusterer) RunOnce() {
	if !r.active() {
		return
	}
	r.current++
	for _, name := range r.dataSet.Names() {
		r.relabel(name, strconv.Itoa(r.src.IntN(r.numberOfClusters)))
	}

	if r.current == r.maxIterations {
		r.toContinue.Store(false)
	}
}

func (r *RandomClusterer) RunUpdateInterval() { r.runBatch(r.RunOnce) }

func (r *RandomClusterer) Run() { r.runAll(r.RunOnce) }
