package sync

import (
	"iter"
	"maps"
	"slices"
)

// Registry is the VM's table of synchronization primitives, looked up by id.
type Registry struct {
	primitives map[string]Primitive
}

// NewRegistry creates an empty registry.
func NewRegistry() (r *Registry) {
	r = &Registry{
		primitives: map[string]Primitive{},
	}

	return
}

// Register adds a primitive under its id.
func (r *Registry) Register(p Primitive) (err error) {
	if _, dup := r.primitives[p.Id()]; dup {
		err = ErrDuplicate(p.Id())
		return
	}

	r.primitives[p.Id()] = p
	return
}

// Lookup returns the primitive registered under id.
func (r *Registry) Lookup(id string) (p Primitive, err error) {
	p, ok := r.primitives[id]
	if !ok {
		err = ErrNotFound(id)
	}

	return
}

// LockerFor returns the Locker registered under id, creating a plain Lock
// on first use. A non-lock primitive under the id is a lookup failure.
func (r *Registry) LockerFor(id string) (l Locker, err error) {
	p, ok := r.primitives[id]
	if !ok {
		lock := NewLock(id)
		r.primitives[id] = lock
		return lock, nil
	}

	l, ok = p.(Locker)
	if !ok {
		err = ErrNotFound(id)
	}

	return
}

// BarrierFor returns the Barrier registered under id.
func (r *Registry) BarrierFor(id string) (b *Barrier, err error) {
	p, ok := r.primitives[id]
	if !ok {
		err = ErrNotFound(id)
		return
	}

	b, ok = p.(*Barrier)
	if !ok {
		err = ErrNotFound(id)
	}

	return
}

// All iterates the registered primitives in id order.
func (r *Registry) All() iter.Seq2[string, Primitive] {
	ids := slices.Sorted(maps.Keys(r.primitives))
	return func(yield func(string, Primitive) bool) {
		for _, id := range ids {
			if !yield(id, r.primitives[id]) {
				return
			}
		}
	}
}

// Statistics returns the counters of every registered primitive, by id.
func (r *Registry) Statistics() (stats map[string]Statistics) {
	stats = map[string]Statistics{}
	for id, p := range r.primitives {
		stats[id] = p.Statistics()
	}

	return
}
