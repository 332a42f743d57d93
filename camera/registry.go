package camera

import (
	"cmp"
	"reflect"
	"slices"
	"sync"
)

type entry[T comparable] struct {
	order  int
	handle T
}

// Registry is an ordered list of stage handles. Entries are inserted in
// order-key position; a changed key only takes effect after Sort. Relative
// order of equal keys is unspecified. A handle whose dynamic value is not
// comparable never matches a lookup, so it can be added but not removed.
type Registry[T comparable] struct {
	mu      sync.Mutex
	entries []entry[T]
}

func NewRegistry[T comparable]() *Registry[T] {
	return &Registry[T]{}
}

// Add registers h with the given order key. Adding a handle twice is a no-op.
func (r *Registry[T]) Add(h T, order int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(h) >= 0 {
		return
	}
	i := len(r.entries)
	for j, e := range r.entries {
		if e.order > order {
			i = j
			break
		}
	}
	r.entries = slices.Insert(r.entries, i, entry[T]{order: order, handle: h})
}

func (r *Registry[T]) Remove(h T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(h)
	if i < 0 {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// SetOrder changes the key of h without moving it.
func (r *Registry[T]) SetOrder(h T, order int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(h)
	if i < 0 {
		return false
	}
	r.entries[i].order = order
	return true
}

func (r *Registry[T]) Order(h T) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(h)
	if i < 0 {
		return 0, false
	}
	return r.entries[i].order, true
}

func (r *Registry[T]) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	slices.SortStableFunc(r.entries, func(a, b entry[T]) int {
		return cmp.Compare(a.order, b.order)
	})
}

func (r *Registry[T]) Contains(h T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexLocked(h) >= 0
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot returns the handles in their current order. The tick iterates a
// snapshot so registration from a stage never invalidates the loop.
func (r *Registry[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.handle
	}
	return out
}

func (r *Registry[T]) indexLocked(h T) int {
	for i, e := range r.entries {
		if sameHandle(e.handle, h) {
			return i
		}
	}
	return -1
}

func sameHandle[T comparable](a, b T) bool {
	va, vb := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
