package algorithm

import (
	"go.uber.org/zap"

	"datavision/internal/domain"
)

// clusterer holds what every clustering algorithm shares: the data set it
// relabels and the clamped number of clusters.
type clusterer struct {
	iterationState
	logger           *zap.Logger
	dataSet          *domain.DataSet
	numberOfClusters int
	src              Source
}

func (c *clusterer) setup(logger *zap.Logger, ds *domain.DataSet, maxIterations, updateInterval, numberOfClusters int, src Source) {
	c.iterationState.setup(maxIterations, updateInterval)
	c.logger = logger
	c.dataSet = ds
	c.numberOfClusters = ClampClusters(numberOfClusters)
	c.src = src
}

// NumberOfClusters returns the effective, clamped cluster count.
func (c *clusterer) NumberOfClusters() int {
	return c.numberOfClusters
}

func (c *clusterer) Output() domain.Output {
	return domain.Output{DataSet: c.dataSet.Clone()}
}

func (c *clusterer) relabel(name, label string) {
	if err := c.dataSet.UpdateLabel(name, label); err != nil {
		c.logger.Error("Failed to relabel instance", zap.String("name", name), zap.Error(err))
	}
}
