package infrastructure

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"datavision/internal/domain"
)

// PlotPresenter saves every snapshot as a PNG scatter plot, one colour per
// label. Classifier snapshots carry no points, so the input data set is drawn
// underneath the line instead.
type PlotPresenter struct {
	logger    *zap.Logger
	outputDir string
	base      *domain.DataSet
}

func NewPlotPresenter(logger *zap.Logger, outputDir string, base *domain.DataSet) *PlotPresenter {
	return &PlotPresenter{logger: logger, outputDir: outputDir, base: base}
}

// FileName is the PNG written for the given batch.
func (p *PlotPresenter) FileName(batch int) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("batch_%03d.png", batch))
}

func (p *PlotPresenter) Present(snap domain.Snapshot) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s - batch %d, iteration %d", snap.Kind, snap.Batch, snap.Iteration)
	pl.X.Label.Text = "X"
	pl.Y.Label.Text = "Y"

	ds := snap.Output.DataSet
	if ds == nil {
		ds = p.base
	}

	labels, groups := groupByLabel(ds)
	for i, label := range labels {
		xys := make(plotter.XYs, 0, len(groups[label]))
		for _, pt := range groups[label] {
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("scatter %q: %w", label, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		scatter.GlyphStyle.Radius = vg.Points(3)
		pl.Add(scatter)
		pl.Legend.Add(label, scatter)
	}

	if line := snap.Output.Line; line != nil {
		if _, ok := line.YAt(0); ok {
			fn := plotter.NewFunction(func(x float64) float64 {
				y, _ := line.YAt(x)
				return y
			})
			fn.XMin, fn.XMax = xRange(ds)
			fn.Color = plotutil.Color(len(labels))
			fn.Width = vg.Points(1)
			pl.Add(fn)
			pl.Legend.Add(line.String(), fn)
		} else {
			p.logger.Debug("Vertical line skipped", zap.Stringer("line", line))
		}
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	file := p.FileName(snap.Batch)
	if err := pl.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	p.logger.Debug("Plot saved", zap.String("file", file))
	return nil
}
