package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"datavision/internal/domain"
	"datavision/pkg/algorithm"
)

// Engine validates run requests and builds runs.
type Engine struct {
	logger    *zap.Logger
	newSource func(seed uint64) algorithm.Source
}

type Option func(*Engine)

// WithSourceFactory replaces the random source given to every new algorithm.
func WithSourceFactory(f func(seed uint64) algorithm.Source) Option {
	return func(e *Engine) {
		e.newSource = f
	}
}

func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logger,
		newSource: func(seed uint64) algorithm.Source {
			return algorithm.NewSource(seed)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRun validates the request and returns a run that has not started yet.
// The data set is owned by the run from here on. Cancelling ctx abandons the run.
func (e *Engine) CreateRun(ctx context.Context, kind domain.AlgorithmKind, ds *domain.DataSet,
	cfg domain.RunConfig, renderer domain.Renderer) (*Run, error) {
	if ds == nil {
		return nil, domain.ErrNilDataSet
	}
	if renderer == nil {
		return nil, domain.ErrNilRenderer
	}
	if err := cfg.Validate(kind); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}
	if err := checkDataSet(kind, ds, cfg); err != nil {
		return nil, err
	}

	alg, err := algorithm.New(kind, ds, algorithm.Params{
		MaxIterations:    cfg.MaxIterations,
		UpdateInterval:   cfg.UpdateInterval,
		NumberOfClusters: cfg.NumberOfClusters,
	}, e.newSource(cfg.Seed), e.logger)
	if err != nil {
		return nil, err
	}

	run := newRun(ctx, uuid.NewString(), kind, e.logger, alg, renderer, cfg.ContinuousRun)
	e.logger.Info("Run created",
		zap.String("run", run.ID()),
		zap.Stringer("algorithm", kind),
		zap.Int("instances", ds.Len()),
		zap.Int("max_iterations", cfg.MaxIterations),
		zap.Int("update_interval", cfg.UpdateInterval),
		zap.Bool("continuous", cfg.ContinuousRun))
	return run, nil
}

// checkDataSet mirrors what each algorithm family needs from its input.
func checkDataSet(kind domain.AlgorithmKind, ds *domain.DataSet, cfg domain.RunConfig) error {
	switch kind {
	case domain.KindKMeans:
		if k := algorithm.ClampClusters(cfg.NumberOfClusters); ds.Len() < k {
			return fmt.Errorf("%w: %d instances for %d clusters", domain.ErrDataSetUnsuitable, ds.Len(), k)
		}
	case domain.KindRandomClusterer:
		if ds.Len() < 2 {
			return fmt.Errorf("%w: clustering needs more than one instance", domain.ErrDataSetUnsuitable)
		}
	case domain.KindRandomClassifier:
		if n := ds.NumLabels(); n != 2 {
			return fmt.Errorf("%w: classification needs exactly 2 labels, got %d", domain.ErrDataSetUnsuitable, n)
		}
	}
	return nil
}
