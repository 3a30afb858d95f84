package algorithm

import (
	"math"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

const (
	coefficientRange = 10
	yCoefficient     = 10
	maxConstant      = 10

	// After this share of max iterations each iteration may stop the run early.
	earlyStopThreshold   = 0.6
	earlyStopProbability = 0.05
)

// RandomClassifier is a mock classifier: it draws a new random line every
// iteration and ignores the data.
type RandomClassifier struct {
	iterationState
	logger *zap.Logger
	src    Source
	output *domain.Line
}

func NewRandomClassifier(logger *zap.Logger, _ *domain.DataSet, maxIterations, updateInterval int, src Source) *RandomClassifier {
	c := &RandomClassifier{logger: logger, src: src}
	c.iterationState.setup(maxIterations, updateInterval)
	return c
}

func (c *RandomClassifier) RunOnce() {
	if !c.active() {
		return
	}
	c.current++

	line := domain.Line{
		A: -int(math.Round((2*c.src.Float64() - 1) * coefficientRange)),
		B: yCoefficient,
		C: c.src.IntN(maxConstant + 1),
	}
	c.output = &line

	if float64(c.current) > float64(c.maxIterations)*earlyStopThreshold && c.src.Float64() < earlyStopProbability {
		c.logger.Debug("Classifier stopped early", zap.Int("iteration", c.current))
		c.toContinue.Store(false)
	}
	if c.current == c.maxIterations {
		c.toContinue.Store(false)
	}
}

func (c *RandomClassifier) RunUpdateInterval() { c.runBatch(c.RunOnce) }

func (c *RandomClassifier) Run() { c.runAll(c.RunOnce) }

// Output returns the latest line, or an empty output before the first iteration.
func (c *RandomClassifier) Output() domain.Output {
	if c.output == nil {
		return domain.Output{}
	}
	line := *c.output
	return domain.Output{Line: &line}
}
