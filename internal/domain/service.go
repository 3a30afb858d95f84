package domain

// Output результат алгоритма после очередной порции итераций.
// Clusterers fill DataSet, classifiers fill Line.
type Output struct {
	DataSet *DataSet
	Line    *Line
}

// Snapshot one batch worth of algorithm output handed to presentation
type Snapshot struct {
	RunID     string
	Kind      AlgorithmKind
	Batch     int
	Iteration int
	HasMore   bool
	Output    Output
}

// Presenter draws a single snapshot.
type Presenter interface {
	Present(snap Snapshot) error
}

// Renderer receives snapshots from a run. Implementations must call ack
// exactly once when the snapshot has been drawn; the run does not produce
// the next batch before that.
type Renderer interface {
	Render(snap Snapshot, ack func())
}
