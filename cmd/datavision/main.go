package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"datavision/internal/app"
	"datavision/internal/domain"
	"datavision/internal/infrastructure"
)

func main() {
	// Инициализация логгера
	logger := initLogger("info")
	defer func() { _ = logger.Sync() }()

	// Чтение конфигурации
	configReader := infrastructure.NewYAMLConfigReader(logger)
	config, err := configReader.ReadConfig("config.yaml", os.Args[1:])
	if err != nil {
		logger.Fatal("Failed to read config", zap.Error(err))
	}

	// Обновляем уровень логирования
	logger = initLogger(config.LogLevel, config.LogFile)

	kind, err := config.GetAlgorithmKind()
	if err != nil {
		logger.Fatal("Invalid algorithm", zap.Error(err))
	}

	// Чтение входных данных
	fileReader := infrastructure.NewTSDFileReader(logger)
	fileWriter := infrastructure.NewTSDFileWriter(logger)
	dataSet, err := fileReader.ReadDataSet(config.Input)
	if err != nil {
		logger.Fatal("Failed to read data set", zap.String("file", config.Input), zap.Error(err))
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.String("dir", config.OutputDir), zap.Error(err))
	}

	// Инициализация компонентов
	presenters, closers, err := buildPresenters(logger, config, dataSet.Clone())
	if err != nil {
		logger.Fatal("Invalid renderers", zap.Error(err))
	}
	results := &history{}
	loop := app.NewRenderLoop(logger, append(presenters, results)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := app.NewEngine(logger)
	run, err := engine.CreateRun(ctx, kind, dataSet, config.RunConfig(), loop)
	if err != nil {
		loop.Close()
		logger.Fatal("Failed to create run", zap.Error(err))
	}
	defer run.Cancel()

	logger.Info("Starting run",
		zap.String("run", run.ID()),
		zap.Stringer("algorithm", kind),
		zap.Int("instances", dataSet.Len()),
		zap.Strings("renderers", config.Renderers))

	outcome, err := drive(run)
	loop.Close()
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close renderer", zap.Error(err))
		}
	}
	if err != nil {
		logger.Fatal("Run failed", zap.Error(err))
	}

	// Запись результатов
	writeResults(logger, fileWriter, config.OutputDir, results)

	if outcome.State == app.StateAbandoned {
		logger.Warn("Run abandoned",
			zap.Int("batches", outcome.Batches),
			zap.Int("iteration", outcome.Iteration))
		return
	}
	logger.Info("Run completed successfully",
		zap.Int("batches", outcome.Batches),
		zap.Int("iteration", outcome.Iteration))
}

// drive issues run requests until the run stops pausing. In continuous mode
// the first request already runs to the end.
func drive(run *app.Run) (app.Outcome, error) {
	batches := 0
	for {
		done, err := run.Start()
		if err != nil {
			return app.Outcome{}, err
		}
		outcome := <-done
		batches += outcome.Batches
		if outcome.State != app.StatePaused {
			outcome.Batches = batches
			return outcome, nil
		}
	}
}

func buildPresenters(logger *zap.Logger, config *domain.Config, base *domain.DataSet) ([]domain.Presenter, []io.Closer, error) {
	var presenters []domain.Presenter
	var closers []io.Closer
	for _, name := range config.Renderers {
		switch name {
		case "png":
			presenters = append(presenters, infrastructure.NewPlotPresenter(logger, config.OutputDir, base))
		case "html":
			chart := infrastructure.NewChartPresenter(logger, config.OutputDir, base)
			presenters = append(presenters, chart)
			closers = append(closers, chart)
		case "log":
			presenters = append(presenters, infrastructure.NewLogPresenter(logger))
		default:
			return nil, nil, fmt.Errorf("unknown renderer %q", name)
		}
	}
	return presenters, closers, nil
}

// history keeps what the output files need: the last labelled data set and
// every classifier line in order.
type history struct {
	mu      sync.Mutex
	dataSet *domain.DataSet
	lines   []domain.Line
}

func (h *history) Present(snap domain.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if snap.Output.DataSet != nil {
		h.dataSet = snap.Output.DataSet
	}
	if snap.Output.Line != nil {
		h.lines = append(h.lines, *snap.Output.Line)
	}
	return nil
}

func writeResults(logger *zap.Logger, writer domain.DataSetWriter, dir string, h *history) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dataSet != nil {
		file := filepath.Join(dir, "result.tsd")
		if err := writer.WriteDataSet(file, h.dataSet); err != nil {
			logger.Error("Failed to write result", zap.String("file", file), zap.Error(err))
		} else {
			logger.Info("Successfully written result", zap.String("file", file))
		}
	}
	if len(h.lines) > 0 {
		file := filepath.Join(dir, "lines.tsv")
		if err := writer.WriteLines(file, h.lines); err != nil {
			logger.Error("Failed to write result", zap.String("file", file), zap.Error(err))
		} else {
			logger.Info("Successfully written result", zap.String("file", file))
		}
	}
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPath := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPath = append(outputPath, item)
		}
	}

	config.OutputPaths = outputPath
	config.ErrorOutputPaths = outputPath
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, err := config.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
