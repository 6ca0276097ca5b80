package pool

import "go.uber.org/zap"

// Builder builds a Pool with custom configuration.
//
//	b := pool.NewBuilder[bytes.Buffer]()
//	p := b.Capacity(10).Prealloc(5).Build()
type Builder[T any] struct {
	config Config[T]
}

// NewBuilder returns a builder holding the default configuration.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{config: DefaultConfig[T]()}
}

// Prealloc sets the number of preallocated values.
func (b *Builder[T]) Prealloc(prealloc int) *Builder[T] {
	b.config.Prealloc = prealloc
	return b
}

// Capacity sets the maximum capacity of the pool.
func (b *Builder[T]) Capacity(capacity int) *Builder[T] {
	b.config.Capacity = capacity
	return b
}

// Clear sets the function applied to a value as it is recycled.
func (b *Builder[T]) Clear(f func(*T)) *Builder[T] {
	b.config.Clear = f
	return b
}

// AutoReclaim enables or disables reclaiming surplus values to reduce memory
// usage.
func (b *Builder[T]) AutoReclaim(enable bool) *Builder[T] {
	b.config.AutoReclaim = enable
	return b
}

// EnableAutoReclaim enables reclaiming surplus values.
func (b *Builder[T]) EnableAutoReclaim() *Builder[T] {
	return b.AutoReclaim(true)
}

// SurplusThresholdForReclaim sets how many consecutive surplus pulls trigger
// one reclaim step when auto-reclaim is enabled.
func (b *Builder[T]) SurplusThresholdForReclaim(threshold int) *Builder[T] {
	b.config.SurplusThresholdForReclaim = threshold
	return b
}

// IdleThresholdForSurplus sets the minimum free-queue length, after a pull,
// for that pull to count as a surplus pull when auto-reclaim is enabled.
func (b *Builder[T]) IdleThresholdForSurplus(threshold int) *Builder[T] {
	b.config.IdleThresholdForSurplus = threshold
	return b
}

// Logger sets the logger receiving the pool's debug events.
func (b *Builder[T]) Logger(logger *zap.Logger) *Builder[T] {
	b.config.Logger = logger
	return b
}

// Build creates the pool with the current configuration.
func (b *Builder[T]) Build() *Pool[T] {
	return WithConfig(b.config)
}
