package infrastructure

import (
	"bufio"
	"fmt"
	"os"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

type TSDFileWriter struct {
	logger *zap.Logger
}

func NewTSDFileWriter(logger *zap.Logger) *TSDFileWriter {
	return &TSDFileWriter{logger: logger}
}

func (w *TSDFileWriter) WriteDataSet(filename string, data *domain.DataSet) error {
	if data == nil {
		return domain.ErrNilDataSet
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := data.WriteTSD(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return file.Close()
}

// WriteLines writes the classifier lines one per row, oldest first.
func (w *TSDFileWriter) WriteLines(filename string, lines []domain.Line) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "A\tB\tC\n")
	for _, l := range lines {
		fmt.Fprintf(writer, "%d\t%d\t%d\n", l.A, l.B, l.C)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return file.Close()
}
