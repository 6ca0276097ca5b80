package pool

// Entry is a handle to one pooled value.
//
// An Entry borrows the pool it came from and is the flavor for use within
// the scope that pulled it. When the last entry referring to a value calls
// Release, the value is returned to the pool, also after a Close of the pool.
type Entry[T any] struct {
	// c is non-nil for the entry's whole visible lifetime; Release empties
	// it to move the cell out before recycling.
	c    *cell[T]
	pool *Pool[T]
}

// Get returns the pooled value for shared use.
func (e *Entry[T]) Get() *T {
	return &e.c.value
}

// TryGetMut returns the pooled value for exclusive mutation. It reports false
// when other entries currently share the value.
func (e *Entry[T]) TryGetMut() (*T, bool) {
	p := e.c.tryGetMut()
	return p, p != nil
}

// GetMutUnchecked returns the pooled value for mutation without checking for
// other entries. The caller must have established by other means that no
// concurrent access is possible.
func (e *Entry[T]) GetMutUnchecked() *T {
	return &e.c.value
}

// Clone returns a new entry referring to the same pooled value.
func (e *Entry[T]) Clone() *Entry[T] {
	e.c.incRef()
	return &Entry[T]{c: e.c, pool: e.pool}
}

// Release drops this entry's reference. If it was the last one, the value is
// recycled into the pool. Calling Release again on the same entry is a no-op.
func (e *Entry[T]) Release() {
	c := e.c
	if c == nil {
		return
	}
	e.c = nil
	if c.decRef() == 1 {
		e.pool.recycle(c)
	}
}

// OwnedEntry is a handle to one pooled value that shares ownership of the
// pool, making it the flavor to hand off across goroutines and channels: the
// pool stays reachable for the recycle callback as long as any owned entry is
// alive.
//
// Its semantics are otherwise identical to Entry.
type OwnedEntry[T any] struct {
	c    *cell[T]
	pool *Pool[T]
}

// Get returns the pooled value for shared use.
func (e *OwnedEntry[T]) Get() *T {
	return &e.c.value
}

// TryGetMut returns the pooled value for exclusive mutation. It reports false
// when other entries currently share the value.
func (e *OwnedEntry[T]) TryGetMut() (*T, bool) {
	p := e.c.tryGetMut()
	return p, p != nil
}

// GetMutUnchecked returns the pooled value for mutation without checking for
// other entries. The caller must have established by other means that no
// concurrent access is possible.
func (e *OwnedEntry[T]) GetMutUnchecked() *T {
	return &e.c.value
}

// Clone returns a new owned entry referring to the same pooled value.
func (e *OwnedEntry[T]) Clone() *OwnedEntry[T] {
	e.c.incRef()
	return &OwnedEntry[T]{c: e.c, pool: e.pool}
}

// Release drops this entry's reference. If it was the last one, the value is
// recycled into the pool. Calling Release again on the same entry is a no-op.
func (e *OwnedEntry[T]) Release() {
	c := e.c
	if c == nil {
		return
	}
	e.c = nil
	if c.decRef() == 1 {
		e.pool.recycle(c)
	}
}
