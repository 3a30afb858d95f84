package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"datavision/internal/domain"
)

const lineSamples = 50

// ChartPresenter collects one scatter chart per snapshot and writes them all
// to a single HTML page on Close.
type ChartPresenter struct {
	logger    *zap.Logger
	outputDir string
	base      *domain.DataSet

	mu     sync.Mutex
	charts []components.Charter
}

func NewChartPresenter(logger *zap.Logger, outputDir string, base *domain.DataSet) *ChartPresenter {
	return &ChartPresenter{logger: logger, outputDir: outputDir, base: base}
}

// FileName is the page written by Close.
func (c *ChartPresenter) FileName() string {
	return filepath.Join(c.outputDir, "run.html")
}

func (c *ChartPresenter) Present(snap domain.Snapshot) error {
	ds := snap.Output.DataSet
	if ds == nil {
		ds = c.base
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Batch %d", snap.Batch),
			Subtitle: fmt.Sprintf("algorithm=%s iteration=%d", snap.Kind, snap.Iteration),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y", NameLocation: "middle", NameGap: 30}),
	)

	labels, groups := groupByLabel(ds)
	for _, label := range labels {
		data := make([]opts.ScatterData, 0, len(groups[label]))
		for _, pt := range groups[label] {
			data = append(data, opts.ScatterData{Name: pt.Name, Value: []interface{}{pt.X, pt.Y}})
		}
		scatter.AddSeries(label, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	}

	if line := snap.Output.Line; line != nil {
		lo, hi := xRange(ds)
		data := make([]opts.ScatterData, 0, lineSamples+1)
		for i := 0; i <= lineSamples; i++ {
			x := lo + (hi-lo)*float64(i)/lineSamples
			if y, ok := line.YAt(x); ok {
				data = append(data, opts.ScatterData{Value: []interface{}{x, y}})
			}
		}
		scatter.AddSeries(line.String(), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	}

	c.mu.Lock()
	c.charts = append(c.charts, scatter)
	c.mu.Unlock()
	return nil
}

// Close renders every collected chart into run.html.
func (c *ChartPresenter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := components.NewPage()
	page.AddCharts(c.charts...)

	file, err := os.Create(c.FileName())
	if err != nil {
		return err
	}
	if err := page.Render(file); err != nil {
		file.Close()
		return fmt.Errorf("render page: %w", err)
	}
	c.logger.Info("Chart page written", zap.String("file", c.FileName()), zap.Int("charts", len(c.charts)))
	return file.Close()
}
