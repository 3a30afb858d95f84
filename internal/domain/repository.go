package domain

// DataSetReader интерфейс для чтения набора данных
type DataSetReader interface {
	ReadDataSet(filename string) (*DataSet, error)
}

// DataSetWriter интерфейс для записи результатов
type DataSetWriter interface {
	WriteDataSet(filename string, data *DataSet) error
	WriteLines(filename string, lines []Line) error
}

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string, args []string) (*Config, error)
}
