// Package pool provides a bounded, thread-safe object pool for
// default-constructed values of a single type.
//
// Callers pull an entry, use the value (optionally mutating it), and release
// the entry; when the last entry referring to a value is released, the value
// returns to the pool for reuse. No operation blocks: pulling from an
// exhausted pool reports failure instead of waiting. With auto-reclaim
// enabled the pool frees values allocated beyond the preallocated set once
// demand subsides.
//
// It is unsafe to copy a Pool; pass it by pointer.
package pool

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/traceflight/concurrent-pool/internal/ring"
)

// Pool is a concurrent object pool.
//
// Free values rest in a lock-free ring with their reference count at 0. A
// pull pops one (or allocates, while under capacity) and hands it out with
// the count at 1; the release of the last entry pushes it back.
type Pool[T any] struct {
	config Config[T]

	// queue holds the free cells.
	queue *ring.Queue[*cell[T]]

	// allocated counts cells currently owned by the pool, in the queue or
	// out on loan. Never exceeds config.Capacity.
	allocated atomic.Int64

	// surplusPulls counts consecutive pulls that left the queue at or
	// above the idle threshold.
	surplusPulls atomic.Int64

	// additionalAllocated is set while at least one cell beyond the
	// preallocated set exists.
	additionalAllocated atomic.Bool
}

// New creates a pool with the given preallocation and capacity.
func New[T any](prealloc, capacity int) *Pool[T] {
	cfg := DefaultConfig[T]()
	cfg.Prealloc = prealloc
	cfg.Capacity = capacity
	return WithConfig(cfg)
}

// WithCapacity creates a pool with the given capacity, fully preallocated.
func WithCapacity[T any](capacity int) *Pool[T] {
	return New[T](capacity, capacity)
}

// WithCapacityHalfPrealloc creates a pool with the given capacity and half of
// it preallocated.
func WithCapacityHalfPrealloc[T any](capacity int) *Pool[T] {
	return New[T](capacity/2, capacity)
}

// WithConfig creates a pool with the given configuration. It panics if
// cfg.Prealloc exceeds cfg.Capacity.
func WithConfig[T any](cfg Config[T]) *Pool[T] {
	cfg.postProcess()
	if cfg.Prealloc > cfg.Capacity {
		panic("pool: prealloc must be less than or equal to capacity")
	}

	p := &Pool[T]{
		config: cfg,
		// A capacity-0 pool must still construct; it simply never has
		// room to allocate, so every pull reports exhaustion.
		queue: ring.New[*cell[T]](max(1, cfg.Capacity)),
	}
	p.allocated.Store(int64(cfg.Prealloc))
	for i := 0; i < cfg.Prealloc; i++ {
		p.queue.Push(newCellZero[T]())
	}
	return p
}

// Capacity returns the maximum number of values the pool may own.
func (p *Pool[T]) Capacity() int {
	return p.config.Capacity
}

// Allocated returns the number of values currently owned by the pool, free or
// out on loan.
func (p *Pool[T]) Allocated() int {
	return int(p.allocated.Load())
}

// InUse returns the number of values currently out on loan.
func (p *Pool[T]) InUse() int {
	n := int(p.allocated.Load()) - p.queue.Len()
	if n < 0 {
		// The two reads race against concurrent pulls; clamp rather
		// than report a negative count.
		return 0
	}
	return n
}

// Available returns the number of values that can still be pulled, counting
// both free values and remaining allocation headroom.
func (p *Pool[T]) Available() int {
	return p.config.Capacity - p.InUse()
}

// AvailableNoAlloc returns the number of free values that can be pulled
// without allocating.
func (p *Pool[T]) AvailableNoAlloc() int {
	return p.queue.Len()
}

// IsEmpty reports whether the pool is exhausted.
func (p *Pool[T]) IsEmpty() bool {
	return p.Available() == 0
}

// Pull obtains an entry from the pool. It reports false when the pool is
// exhausted: no free values and no capacity left to allocate.
func (p *Pool[T]) Pull() (*Entry[T], bool) {
	c := p.pullCell()
	if c == nil {
		return nil, false
	}
	return &Entry[T]{c: c, pool: p}, true
}

// PullWith obtains an entry and applies f to its value before returning it.
// The value is exclusively held at that point: its reference count just
// became 1 and the entry has not been shared yet.
func (p *Pool[T]) PullWith(f func(*T)) (*Entry[T], bool) {
	e, ok := p.Pull()
	if !ok {
		return nil, false
	}
	f(e.GetMutUnchecked())
	return e, true
}

// PullOwned obtains an owned entry from the pool. It reports false when the
// pool is exhausted.
func (p *Pool[T]) PullOwned() (*OwnedEntry[T], bool) {
	c := p.pullCell()
	if c == nil {
		return nil, false
	}
	return &OwnedEntry[T]{c: c, pool: p}, true
}

// PullOwnedWith obtains an owned entry and applies f to its value before
// returning it.
func (p *Pool[T]) PullOwnedWith(f func(*T)) (*OwnedEntry[T], bool) {
	e, ok := p.PullOwned()
	if !ok {
		return nil, false
	}
	f(e.GetMutUnchecked())
	return e, true
}

// pullCell pops a free cell or allocates a new one. It returns nil on
// exhaustion. The returned cell's reference count is 1.
func (p *Pool[T]) pullCell() *cell[T] {
	c, ok := p.queue.Pop()
	if !ok {
		if p.config.reclaimActive {
			p.surplusPulls.Store(0)
		}
		// Reserve one unit of capacity. The CAS loop keeps allocated
		// within capacity even when pulls race here.
		for {
			n := p.allocated.Load()
			if n >= int64(p.config.Capacity) {
				p.config.Logger.Debug("pool exhausted",
					zap.Int("capacity", p.config.Capacity))
				return nil
			}
			if p.allocated.CompareAndSwap(n, n+1) {
				break
			}
		}
		p.additionalAllocated.Store(true)
		return newCell[T]()
	}

	if p.config.reclaimActive {
		if left := p.queue.Len(); left >= p.config.IdleThresholdForSurplus {
			surplus := p.surplusPulls.Add(1)
			if surplus >= int64(p.config.SurplusThresholdForReclaim) &&
				p.additionalAllocated.Load() {
				p.reclaim()
			}
		} else {
			p.surplusPulls.Store(0)
		}
	}
	c.incRef()
	return c
}

// reclaim frees at most one surplus cell. Bounding the step keeps the cost
// per pull constant; a persisting surplus streak keeps driving further steps.
func (p *Pool[T]) reclaim() {
	if _, ok := p.queue.Pop(); !ok {
		return
	}
	// The popped cell's last reference is gone; the collector frees it.
	current := p.allocated.Add(-1)
	if current <= int64(p.config.Prealloc) {
		p.additionalAllocated.Store(false)
	}
	p.config.Logger.Debug("reclaimed surplus value",
		zap.Int64("allocated", current))
}

// recycle returns a cell, whose last entry was just released, to the free
// queue.
func (p *Pool[T]) recycle(c *cell[T]) {
	if p.config.Clear != nil {
		// The count is 0 and the cell is not yet in the queue, so no
		// other goroutine can reach it.
		p.config.Clear(&c.value)
	}
	if !p.queue.Push(c) {
		// allocated <= capacity == queue capacity, so the queue must
		// have room for every cell the pool owns.
		panic("pool: free queue rejected a recycled value")
	}
}

// Close drains the pool, dropping every free value. Values still out on loan
// are recycled onto the drained queue by their final Release and are
// collected together with the pool.
func (p *Pool[T]) Close() {
	for {
		if _, ok := p.queue.Pop(); !ok {
			return
		}
		p.allocated.Add(-1)
	}
}
