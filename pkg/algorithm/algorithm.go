package algorithm

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

// Algorithm is a resumable computation bounded by a maximum number of
// iterations. CanContinue may be called from any goroutine; every other
// method belongs to the goroutine that drives the algorithm.
type Algorithm interface {
	// RunOnce executes one iteration unless the bound is reached or the
	// continuation flag is cleared, in which case it does nothing.
	RunOnce()
	// RunUpdateInterval executes up to UpdateInterval iterations.
	RunUpdateInterval()
	// Run resets the iteration counter and iterates until the bound or the flag stops it.
	Run()
	CanContinue() bool
	CurrentIteration() int
	MaxIterations() int
	UpdateInterval() int
	// Output returns a copy of the current result.
	Output() domain.Output
}

// Source is the randomness an algorithm draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// NewSource returns a PCG backed source. A zero seed is replaced by the clock.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Params конфигурация алгоритма
type Params struct {
	MaxIterations    int
	UpdateInterval   int
	NumberOfClusters int
}

type constructor func(ds *domain.DataSet, p Params, src Source, logger *zap.Logger) Algorithm

var registry = map[domain.AlgorithmKind]constructor{
	domain.KindKMeans: func(ds *domain.DataSet, p Params, src Source, logger *zap.Logger) Algorithm {
		return NewKMeansClusterer(logger, ds, p.MaxIterations, p.UpdateInterval, p.NumberOfClusters, src)
	},
	domain.KindRandomClusterer: func(ds *domain.DataSet, p Params, src Source, logger *zap.Logger) Algorithm {
		return NewRandomClusterer(logger, ds, p.MaxIterations, p.UpdateInterval, p.NumberOfClusters, src)
	},
	domain.KindRandomClassifier: func(ds *domain.DataSet, p Params, src Source, logger *zap.Logger) Algorithm {
		return NewRandomClassifier(logger, ds, p.MaxIterations, p.UpdateInterval, src)
	},
}

// New builds the algorithm registered for kind.
func New(kind domain.AlgorithmKind, ds *domain.DataSet, p Params, src Source, logger *zap.Logger) (Algorithm, error) {
	ctor, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownAlgorithm, kind)
	}
	return ctor(ds, p, src, logger), nil
}

// Kinds lists the registered algorithm kinds in declaration order.
func Kinds() []domain.AlgorithmKind {
	kinds := make([]domain.AlgorithmKind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
