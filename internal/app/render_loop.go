package app

import (
	"sync"

	"go.uber.org/zap"

	"datavision/internal/domain"
)

const renderQueueSize = 16

type renderJob struct {
	snap domain.Snapshot
	ack  func()
}

// RenderLoop executes render requests one at a time on its own goroutine,
// the way a UI toolkit runs work on its event thread. Each request runs every
// presenter in order and is then acknowledged.
type RenderLoop struct {
	logger     *zap.Logger
	presenters []domain.Presenter

	mu      sync.Mutex
	closed  bool
	jobs    chan renderJob
	stopped chan struct{}
}

func NewRenderLoop(logger *zap.Logger, presenters ...domain.Presenter) *RenderLoop {
	l := &RenderLoop{
		logger:     logger,
		presenters: presenters,
		jobs:       make(chan renderJob, renderQueueSize),
		stopped:    make(chan struct{}),
	}
	go l.loop()
	return l
}

// Render queues a snapshot. Requests made after Close are dropped without
// acknowledgement.
func (l *RenderLoop) Render(snap domain.Snapshot, ack func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.logger.Warn("Render loop closed, snapshot dropped", zap.Int("batch", snap.Batch))
		return
	}
	l.jobs <- renderJob{snap: snap, ack: ack}
}

// Close stops accepting requests, renders and acknowledges everything already
// queued, and waits for the loop to exit.
func (l *RenderLoop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.jobs)
	}
	l.mu.Unlock()
	<-l.stopped
}

func (l *RenderLoop) loop() {
	defer close(l.stopped)
	for job := range l.jobs {
		l.render(job)
	}
}

func (l *RenderLoop) render(job renderJob) {
	for _, p := range l.presenters {
		if err := p.Present(job.snap); err != nil {
			l.logger.Warn("Presenter failed",
				zap.String("run", job.snap.RunID),
				zap.Int("batch", job.snap.Batch),
				zap.Error(err))
		}
	}
	job.ack()
}

// RendererFunc adapts a function into a Renderer that acknowledges as soon
// as the function returns.
type RendererFunc func(snap domain.Snapshot)

func (f RendererFunc) Render(snap domain.Snapshot, ack func()) {
	f(snap)
	ack()
}

// PresenterFunc adapts a function into a Presenter.
type PresenterFunc func(snap domain.Snapshot) error

func (f PresenterFunc) Present(snap domain.Snapshot) error {
	return f(snap)
}
