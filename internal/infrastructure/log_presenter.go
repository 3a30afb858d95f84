package infrastructure

import (
	"go.uber.org/zap"

	"datavision/internal/domain"
)

// LogPresenter reports every snapshot as a structured log entry.
type LogPresenter struct {
	logger *zap.Logger
}

func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) Present(snap domain.Snapshot) error {
	fields := []zap.Field{
		zap.String("run", snap.RunID),
		zap.Stringer("algorithm", snap.Kind),
		zap.Int("batch", snap.Batch),
		zap.Int("iteration", snap.Iteration),
		zap.Bool("has_more", snap.HasMore),
	}
	if ds := snap.Output.DataSet; ds != nil {
		sizes := make(map[string]int)
		for _, label := range ds.Labels() {
			sizes[label]++
		}
		fields = append(fields, zap.Any("cluster_sizes", sizes))
	}
	if line := snap.Output.Line; line != nil {
		fields = append(fields, zap.Stringer("line", line))
	}
	p.logger.Info("Batch rendered", fields...)
	return nil
}
