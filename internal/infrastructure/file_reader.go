package infrastructure

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

type TSDFileReader struct {
	logger *zap.Logger
}

func NewTSDFileReader(logger *zap.Logger) *TSDFileReader {
	return &TSDFileReader{logger: logger}
}

// ReadDataSet reads a .tsd file: one "@name<TAB>label<TAB>x,y" instance per line.
func (r *TSDFileReader) ReadDataSet(filename string) (*domain.DataSet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := domain.ParseTSD(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if ds.Len() == 0 {
		r.logger.Warn("Data set is empty", zap.String("file", filename))
	}

	r.logger.Debug("Data set loaded",
		zap.String("file", filename),
		zap.Int("instances", ds.Len()),
		zap.Int("labels", ds.NumLabels()))
	return ds, nil
}
