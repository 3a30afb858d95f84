package infrastructure

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"datavision/internal/domain"
	"datavision/pkg/algorithm"
)

type YAMLConfigReader struct {
	logger *zap.Logger
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

// ReadConfig loads the YAML file and applies command line overrides from args.
// A -config flag in args replaces path. A missing file is only an error when
// it was named explicitly; otherwise defaults are used.
func (r *YAMLConfigReader) ReadConfig(path string, args []string) (*domain.Config, error) {
	flags := flag.NewFlagSet("datavision", flag.ContinueOnError)
	configPath := flags.String("config", path, "Path to config file")
	algorithmName := flags.String("algorithm", "", "Algorithm: "+strings.Join(algorithmNames(), ", "))
	maxIterations := flags.Int("max-iterations", 0, "Maximum number of iterations")
	updateInterval := flags.Int("update-interval", 0, "Iterations per rendered batch")
	continuous := flags.Bool("continuous", false, "Run batches until the algorithm stops")
	clusters := flags.Int("clusters", 0, "Number of clusters (clamped to 2..4)")
	seed := flags.Uint64("seed", 0, "Random seed, 0 for a time based seed")
	input := flags.String("input", "", "Input .tsd file")
	outputDir := flags.String("output-dir", "", "Directory for results and plots")
	logLevel := flags.String("log-level", "", "Log level")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	explicit := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	var config domain.Config
	data, err := os.ReadFile(*configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", *configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		r.logger.Info("Config file not found, using defaults", zap.String("path", *configPath))
	default:
		return nil, err
	}

	// Применяем только явно заданные аргументы командной строки
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "algorithm":
			config.Algorithm = *algorithmName
		case "max-iterations":
			config.MaxIterations = *maxIterations
		case "update-interval":
			config.UpdateInterval = *updateInterval
		case "continuous":
			config.ContinuousRun = *continuous
		case "clusters":
			config.NumberOfClusters = *clusters
		case "seed":
			config.Seed = *seed
		case "input":
			config.Input = *input
		case "output-dir":
			config.OutputDir = *outputDir
		case "log-level":
			config.LogLevel = *logLevel
		}
	})

	// Устанавливаем значения по умолчанию
	r.setDefaults(&config)

	return &config, nil
}

func algorithmNames() []string {
	kinds := algorithm.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Algorithm == "" {
		config.Algorithm = domain.KindKMeans.String()
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = 100
	}
	if config.UpdateInterval == 0 {
		config.UpdateInterval = 1
	}
	if config.NumberOfClusters == 0 {
		config.NumberOfClusters = 2
	}
	if config.Input == "" {
		config.Input = "data.tsd"
	}
	if config.OutputDir == "" {
		config.OutputDir = "out"
	}
	if config.Renderers == nil {
		config.Renderers = []string{"log"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}
