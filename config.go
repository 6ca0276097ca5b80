package pool

import "go.uber.org/zap"

// Config holds the pool configuration. A Config is consumed by WithConfig or
// Builder.Build and is immutable once the pool exists.
type Config[T any] struct {
	// Capacity is the upper bound on the number of values the pool will
	// ever own at once, preallocated or on demand.
	Capacity int

	// Prealloc is the number of values constructed eagerly at pool
	// creation. Must not exceed Capacity.
	Prealloc int

	// AutoReclaim enables the heuristic that frees surplus values when
	// demand stays below supply.
	AutoReclaim bool

	// SurplusThresholdForReclaim is the number of consecutive surplus
	// pulls that triggers one reclaim step. Zero selects
	// max(2, Capacity/100).
	SurplusThresholdForReclaim int

	// IdleThresholdForSurplus is the minimum number of values left in the
	// free queue after a pull for that pull to count as a surplus pull.
	// Zero selects max(1, Capacity/20).
	IdleThresholdForSurplus int

	// Clear, when set, is applied to a value as it is recycled, before
	// the next pull can observe it.
	Clear func(*T)

	// Logger receives debug events for reclaim steps and exhaustion.
	// Nil means no logging.
	Logger *zap.Logger

	// reclaimActive caches whether the reclaim heuristic can make
	// progress at all: with prealloc == capacity there is never a surplus
	// to free.
	reclaimActive bool
}

// DefaultConfig returns the default configuration: capacity 1024, nothing
// preallocated, auto-reclaim off.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{Capacity: 1024}
}

func (c *Config[T]) postProcess() {
	if c.SurplusThresholdForReclaim == 0 {
		c.SurplusThresholdForReclaim = max(2, c.Capacity/100)
	}
	if c.IdleThresholdForSurplus == 0 {
		c.IdleThresholdForSurplus = max(1, c.Capacity/20)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	c.reclaimActive = c.AutoReclaim && c.Prealloc != c.Capacity
}
