// Package ring provides a bounded lock-free multi-producer multi-consumer
// FIFO queue.
//
// Push and Pop never block: Push fails when the queue is full, Pop fails when
// it is empty. Each slot carries its own sequence counter (Vyukov's bounded
// MPMC algorithm), so a successful Pop observes every write the pushing
// goroutine performed on the element before its Push returned.
package ring

import "sync/atomic"

type slot[T any] struct {
	// turn is the sequence gate for this slot. A producer may write the
	// slot when turn == its position; a consumer may read it when
	// turn == position+1.
	turn atomic.Uint64
	val  T
}

// Queue is a fixed-capacity lock-free MPMC FIFO.
//
// The zero value is not usable; construct with New.
type Queue[T any] struct {
	head  atomic.Uint64
	tail  atomic.Uint64
	slots []slot[T]
}

// New creates a queue holding at most capacity elements.
// Capacity must be at least 1.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("ring: capacity must be at least 1")
	}
	q := &Queue[T]{slots: make([]slot[T], capacity)}
	for i := range q.slots {
		q.slots[i].turn.Store(uint64(i))
	}
	return q
}

// Cap returns the fixed capacity of the queue.
func (q *Queue[T]) Cap() int { return len(q.slots) }

// Len returns the number of elements currently in the queue. The result is an
// instantaneous snapshot and may be stale by the time the caller reads it.
func (q *Queue[T]) Len() int {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail <= head {
		return 0
	}
	n := tail - head
	if n > uint64(len(q.slots)) {
		n = uint64(len(q.slots))
	}
	return int(n)
}

// Push appends v to the tail of the queue. It returns false if the queue is
// full.
func (q *Queue[T]) Push(v T) bool {
	n := uint64(len(q.slots))
	pos := q.tail.Load()
	for {
		s := &q.slots[pos%n]
		turn := s.turn.Load()
		switch {
		case turn == pos:
			if q.tail.CompareAndSwap(pos, pos+1) {
				s.val = v
				s.turn.Store(pos + 1)
				return true
			}
			pos = q.tail.Load()
		case turn < pos:
			// The slot still holds the element pushed one lap ago.
			// Unless a consumer is mid-pop on it, the queue is full.
			if q.head.Load()+n <= pos {
				return false
			}
			pos = q.tail.Load()
		default:
			// Another producer claimed this position; catch up.
			pos = q.tail.Load()
		}
	}
}

// Pop removes and returns the element at the head of the queue. It returns
// false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	n := uint64(len(q.slots))
	pos := q.head.Load()
	for {
		s := &q.slots[pos%n]
		turn := s.turn.Load()
		switch {
		case turn == pos+1:
			if q.head.CompareAndSwap(pos, pos+1) {
				v := s.val
				// Nil out the slot so the queue does not retain
				// the element past its dequeue.
				var zero T
				s.val = zero
				s.turn.Store(pos + n)
				return v, true
			}
			pos = q.head.Load()
		case turn < pos+1:
			// The slot has no published element. Unless a producer
			// is mid-push on it, the queue is empty.
			if q.tail.Load() <= pos {
				var zero T
				return zero, false
			}
			pos = q.head.Load()
		default:
			pos = q.head.Load()
		}
	}
}
