package enform

import "sync"

// ring is a goroutine-safe fixed size buffer keeping the most recent items.
// A nil ring accepts pushes and stays empty.
type ring[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int
	count int
}

// newErrorRing creates an error ring of the given capacity, or nil when
// size is not positive.
func newErrorRing(size int) *ring[error] {
	if size <= 0 {
		return nil
	}
	return &ring[error]{items: make([]error, size)}
}

func (r *ring[T]) push(item T) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

func (r *ring[T]) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.head = 0
	r.count = 0
}

// all returns the retained items, oldest first, or nil when empty.
func (r *ring[T]) all() []T {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}

	size := len(r.items)
	out := make([]T, r.count)
	start := (r.head - r.count + size) % size
	for i := range out {
		out[i] = r.items[(start+i)%size]
	}
	return out
}
