package infrastructure

import (
	"maps"
	"slices"

	"datavision/internal/domain"
)

const defaultHalfWidth = 10.0

// labelledPoint keeps the instance name next to its location.
type labelledPoint struct {
	Name string
	domain.Point
}

// groupByLabel splits a data set into one series per label, labels sorted.
func groupByLabel(ds *domain.DataSet) ([]string, map[string][]labelledPoint) {
	groups := make(map[string][]labelledPoint)
	if ds == nil {
		return nil, groups
	}
	labels := ds.Labels()
	for _, name := range ds.Names() {
		p, _ := ds.Point(name)
		groups[labels[name]] = append(groups[labels[name]], labelledPoint{Name: name, Point: p})
	}
	return slices.Sorted(maps.Keys(groups)), groups
}

// xRange is the horizontal extent a classifier line is drawn over.
func xRange(ds *domain.DataSet) (float64, float64) {
	if ds == nil {
		return -defaultHalfWidth, defaultHalfWidth
	}
	lo, hi, err := ds.Bounds()
	if err != nil || lo.X == hi.X {
		return lo.X - defaultHalfWidth, lo.X + defaultHalfWidth
	}
	return lo.X, hi.X
}
