package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"datavision/internal/domain"
	"datavision/pkg/algorithm"
)

type scriptedSource struct {
	ints []int
	i    int
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

func (s *scriptedSource) Float64() float64 { return 0.5 }

func scripted(ints ...int) func(uint64) algorithm.Source {
	return func(uint64) algorithm.Source {
		return &scriptedSource{ints: ints}
	}
}

func twoPairs(t *testing.T) *domain.DataSet {
	t.Helper()
	ds := domain.NewDataSet()
	require.NoError(t, ds.AddInstance("@a", "x", domain.Point{X: 0, Y: 0}))
	require.NoError(t, ds.AddInstance("@b", "x", domain.Point{X: 0, Y: 1}))
	require.NoError(t, ds.AddInstance("@c", "y", domain.Point{X: 10, Y: 0}))
	require.NoError(t, ds.AddInstance("@d", "y", domain.Point{X: 10, Y: 1}))
	return ds
}

// collector acknowledges every snapshot immediately.
type collector struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
}

func (c *collector) Render(snap domain.Snapshot, ack func()) {
	c.mu.Lock()
	c.snaps = append(c.snaps, snap)
	c.mu.Unlock()
	ack()
}

func (c *collector) snapshots() []domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Snapshot, len(c.snaps))
	copy(out, c.snaps)
	return out
}

// holder keeps every acknowledgement until the test releases it.
type holder struct {
	mu       sync.Mutex
	snaps    []domain.Snapshot
	acks     []func()
	received chan struct{}
}

func newHolder() *holder {
	return &holder{received: make(chan struct{}, 64)}
}

func (h *holder) Render(snap domain.Snapshot, ack func()) {
	h.mu.Lock()
	h.snaps = append(h.snaps, snap)
	h.acks = append(h.acks, ack)
	h.mu.Unlock()
	h.received <- struct{}{}
}

func (h *holder) release(i int) {
	h.mu.Lock()
	ack := h.acks[i]
	h.mu.Unlock()
	ack()
}

func (h *holder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snaps)
}
