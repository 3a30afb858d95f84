package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"datavision/internal/domain"
	"datavision/pkg/algorithm"
)

var (
	ErrRunAbandoned = errors.New("app: run abandoned")
	ErrRunActive    = errors.New("app: run already in progress")
)

// State is the terminal state of one Start request.
type State int

const (
	// StatePaused: a single-batch cycle finished and more batches are available.
	StatePaused State = iota
	// StateCompleted: the algorithm cleared its continuation flag.
	StateCompleted
	// StateAbandoned: the run was cancelled.
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Outcome is reported once per Start request.
type Outcome struct {
	State     State
	Batches   int // batches rendered by this request
	Iteration int
	Err       error
}

// Stats counters of a run
type Stats struct {
	Produced int
	Rendered int
	Occupied bool
}

// Run drives one algorithm through a producer goroutine that computes
// batches and a consumer goroutine that hands them to the renderer. They
// share a single-slot mailbox: the producer does not compute the next batch
// until the renderer has acknowledged the previous one.
type Run struct {
	id         string
	kind       domain.AlgorithmKind
	logger     *zap.Logger
	algorithm  algorithm.Algorithm
	renderer   domain.Renderer
	continuous bool

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	slotEmpty *sync.Cond
	slotFull  *sync.Cond
	mailbox   *domain.Snapshot
	occupied  bool
	finished  bool
	abandoned bool
	active    bool
	produced  int
	rendered  int
	iteration int
}

func newRun(ctx context.Context, id string, kind domain.AlgorithmKind, logger *zap.Logger,
	alg algorithm.Algorithm, renderer domain.Renderer, continuous bool) *Run {
	r := &Run{
		id:         id,
		kind:       kind,
		logger:     logger.With(zap.String("run", id), zap.Stringer("algorithm", kind)),
		algorithm:  alg,
		renderer:   renderer,
		continuous: continuous,
	}
	r.slotEmpty = sync.NewCond(&r.mu)
	r.slotFull = sync.NewCond(&r.mu)
	r.ctx, r.cancel = context.WithCancel(ctx)

	// Отмена родительского контекста будит оба ожидающих потока
	context.AfterFunc(r.ctx, r.abandon)
	return r
}

func (r *Run) abandon() {
	r.mu.Lock()
	r.abandoned = true
	r.slotEmpty.Broadcast()
	r.slotFull.Broadcast()
	r.mu.Unlock()
}

// isAbandoned must be called with mu held. The context check covers a parent
// cancellation whose AfterFunc has not run yet.
func (r *Run) isAbandoned() bool {
	return r.abandoned || r.ctx.Err() != nil
}

func (r *Run) ID() string { return r.id }

// CanContinue reports whether the algorithm has batches left.
func (r *Run) CanContinue() bool { return r.algorithm.CanContinue() }

// Cancel abandons the run. Goroutines waiting on the mailbox or on a render
// acknowledgement return; a batch that is being computed still completes but
// is never published. Once Cancel returns, Start fails with ErrRunAbandoned.
func (r *Run) Cancel() {
	r.abandon()
	r.cancel()
}

func (r *Run) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Produced: r.produced, Rendered: r.rendered, Occupied: r.occupied}
}

// Start spawns a producer and a consumer. In continuous mode they run until
// the algorithm stops; otherwise they exchange exactly one batch. The
// returned channel receives one Outcome once both goroutines have exited.
func (r *Run) Start() (<-chan Outcome, error) {
	r.mu.Lock()
	if r.isAbandoned() {
		r.mu.Unlock()
		return nil, ErrRunAbandoned
	}
	if r.active {
		r.mu.Unlock()
		return nil, ErrRunActive
	}
	r.active = true
	renderedBefore := r.rendered
	r.mu.Unlock()

	r.logger.Debug("Starting run cycle", zap.Bool("continuous", r.continuous))

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)

		g, gctx := errgroup.WithContext(r.ctx)
		g.Go(r.produce)
		g.Go(func() error { return r.consume(gctx) })
		err := g.Wait()

		r.mu.Lock()
		r.active = false
		outcome := Outcome{
			Batches:   r.rendered - renderedBefore,
			Iteration: r.iteration,
		}
		r.mu.Unlock()

		switch {
		case err != nil:
			outcome.State = StateAbandoned
			outcome.Err = err
		case r.algorithm.CanContinue():
			outcome.State = StatePaused
		default:
			outcome.State = StateCompleted
		}

		r.logger.Info("Run cycle finished",
			zap.Stringer("state", outcome.State),
			zap.Int("batches", outcome.Batches),
			zap.Int("iteration", outcome.Iteration),
			zap.Error(outcome.Err))
		done <- outcome
	}()
	return done, nil
}

// produce computes batches and publishes them into the mailbox.
func (r *Run) produce() error {
	for {
		r.mu.Lock()
		for r.occupied && !r.isAbandoned() {
			r.slotEmpty.Wait()
		}
		if r.isAbandoned() {
			r.mu.Unlock()
			return ErrRunAbandoned
		}
		if !r.algorithm.CanContinue() {
			r.finished = true
			r.slotFull.Broadcast()
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		// Вычисления идут без блокировки: алгоритм принадлежит только производителю
		r.algorithm.RunUpdateInterval()
		snap := domain.Snapshot{
			RunID:     r.id,
			Kind:      r.kind,
			Iteration: r.algorithm.CurrentIteration(),
			HasMore:   r.algorithm.CanContinue(),
			Output:    r.algorithm.Output(),
		}

		r.mu.Lock()
		if r.isAbandoned() {
			r.mu.Unlock()
			return ErrRunAbandoned
		}
		r.produced++
		snap.Batch = r.produced
		r.iteration = snap.Iteration
		r.mailbox = &snap
		r.occupied = true
		r.slotFull.Signal()
		r.mu.Unlock()

		r.logger.Debug("Batch produced",
			zap.Int("batch", snap.Batch),
			zap.Int("iteration", snap.Iteration),
			zap.Bool("has_more", snap.HasMore))

		if !r.continuous {
			return nil
		}
	}
}

// consume hands every published batch to the renderer and frees the slot
// once the renderer acknowledges it.
func (r *Run) consume(ctx context.Context) error {
	for {
		r.mu.Lock()
		for !r.occupied && !r.finished && !r.isAbandoned() {
			r.slotFull.Wait()
		}
		if r.isAbandoned() {
			r.mu.Unlock()
			return ErrRunAbandoned
		}
		if !r.occupied {
			r.mu.Unlock()
			return nil
		}
		snap := *r.mailbox
		r.mu.Unlock()

		if err := r.dispatch(ctx, snap); err != nil {
			return err
		}

		r.mu.Lock()
		r.mailbox = nil
		r.occupied = false
		r.rendered++
		r.slotEmpty.Signal()
		r.mu.Unlock()

		if !r.continuous {
			return nil
		}
	}
}

// dispatch passes one snapshot to the renderer and waits for its acknowledgement.
func (r *Run) dispatch(ctx context.Context, snap domain.Snapshot) error {
	rendered := make(chan struct{})
	ack := sync.OnceFunc(func() { close(rendered) })

	r.renderer.Render(snap, ack)

	select {
	case <-rendered:
		return nil
	case <-ctx.Done():
		r.logger.Warn("Render acknowledgement abandoned", zap.Int("batch", snap.Batch))
		return ErrRunAbandoned
	}
}
