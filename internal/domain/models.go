package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Config представляет конфигурацию приложения
type Config struct {
	Algorithm        string   `yaml:"algorithm"`
	MaxIterations    int      `yaml:"max_iterations"`
	UpdateInterval   int      `yaml:"update_interval"`
	ContinuousRun    bool     `yaml:"continuous_run"`
	NumberOfClusters int      `yaml:"number_of_clusters"`
	Seed             uint64   `yaml:"seed"`
	Input            string   `yaml:"input"`
	OutputDir        string   `yaml:"output_dir"`
	Renderers        []string `yaml:"renderers"`
	LogLevel         string   `yaml:"log_level"`
	LogFile          string   `yaml:"log_file"`
}

// GetAlgorithmKind resolves the configured algorithm name.
func (c *Config) GetAlgorithmKind() (AlgorithmKind, error) {
	return ParseAlgorithmKind(c.Algorithm)
}

// RunConfig extracts the part of the configuration that drives a single run.
func (c *Config) RunConfig() RunConfig {
	return RunConfig{
		MaxIterations:    c.MaxIterations,
		UpdateInterval:   c.UpdateInterval,
		ContinuousRun:    c.ContinuousRun,
		NumberOfClusters: c.NumberOfClusters,
		Seed:             c.Seed,
	}
}

// RunConfig параметры одного запуска алгоритма
type RunConfig struct {
	MaxIterations    int
	UpdateInterval   int
	ContinuousRun    bool
	NumberOfClusters int
	// Seed of the run's random source; zero picks a time based seed.
	Seed uint64
}

// Validate checks the bounds that must hold before an algorithm is built.
// The cluster count is only checked for clusterer kinds; values in range
// [0, inf) are accepted and clamped later by the clusterer itself.
func (c RunConfig) Validate(kind AlgorithmKind) error {
	var err error
	if c.MaxIterations < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrInvalidMaxIterations, c.MaxIterations))
	}
	if c.UpdateInterval < 1 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrInvalidUpdateInterval, c.UpdateInterval))
	}
	if kind.IsClusterer() && c.NumberOfClusters < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrInvalidClusterCount, c.NumberOfClusters))
	}
	return err
}

// Point is a location in the X-Y plane.
type Point struct {
	X, Y float64
}

// Line is the classifier output a*x + b*y + c = 0.
type Line struct {
	A, B, C int
}

// YAt returns y on the line for the given x. It reports false for vertical lines.
func (l Line) YAt(x float64) (float64, bool) {
	if l.B == 0 {
		return 0, false
	}
	return -(float64(l.A)*x + float64(l.C)) / float64(l.B), true
}

func (l Line) String() string {
	return fmt.Sprintf("%d*x + %d*y + %d = 0", l.A, l.B, l.C)
}

// AlgorithmKind перечисление известных алгоритмов
type AlgorithmKind int

const (
	KindKMeans AlgorithmKind = iota
	KindRandomClusterer
	KindRandomClassifier
)

var kindNames = map[AlgorithmKind]string{
	KindKMeans:           "kmeans",
	KindRandomClusterer:  "random-clusterer",
	KindRandomClassifier: "random-classifier",
}

// ParseAlgorithmKind maps a configuration name onto a kind.
func ParseAlgorithmKind(name string) (AlgorithmKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kmeans", "k-means":
		return KindKMeans, nil
	case "random-clusterer", "randomclusterer":
		return KindRandomClusterer, nil
	case "random-classifier", "randomclassifier":
		return KindRandomClassifier, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

func (k AlgorithmKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AlgorithmKind(%d)", int(k))
}

// IsClusterer reports whether the kind labels instances rather than drawing a line.
func (k AlgorithmKind) IsClusterer() bool {
	return k == KindKMeans || k == KindRandomClusterer
}

var (
	ErrInvalidFileFormat     = errors.New("domain: invalid file format")
	ErrInvalidInstanceName   = errors.New("domain: instance names must start with the @ character")
	ErrDuplicateInstance     = errors.New("domain: duplicate instance name")
	ErrUnknownInstance       = errors.New("domain: unknown instance")
	ErrInvalidMaxIterations  = errors.New("domain: max iterations must be at least 1")
	ErrInvalidUpdateInterval = errors.New("domain: update interval must be at least 1")
	ErrInvalidClusterCount   = errors.New("domain: number of clusters must not be negative")
	ErrUnknownAlgorithm      = errors.New("domain: unknown algorithm")
	ErrDataSetUnsuitable     = errors.New("domain: data set is unsuitable for the algorithm")
	ErrNilDataSet            = errors.New("domain: nil data set")
	ErrEmptyDataSet          = errors.New("domain: empty data set")
	ErrNilRenderer           = errors.New("domain: nil renderer")
)
