package registry

import (
	"sort"
	"sync"
)

// Observer is notified of registry mutations.
// Callbacks run after the registry lock is released and must not block.
type Observer interface {
	// OnRegister is called after obj was stored under id.
	// replaced reports whether an earlier entry was overwritten.
	OnRegister(id string, obj any, replaced bool)

	// OnRemove is called after id was deleted. It is not called for
	// identifiers that were not present.
	OnRemove(id string)
}

// Registry is a concurrent identifier -> object map.
//
// Two sessions registering the same identifier at the same time race:
// the last write wins and the order is unspecified.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]any

	observers []Observer
}

// New creates an empty Registry.
func New(observers ...Observer) *Registry {
	return &Registry{
		objects:   make(map[string]any),
		observers: observers,
	}
}

// Register stores obj under id, overwriting any previous entry.
func (r *Registry) Register(id string, obj any) {
	r.mu.Lock()
	_, replaced := r.objects[id]
	r.objects[id] = obj
	r.mu.Unlock()

	for _, o := range r.observers {
		o.OnRegister(id, obj, replaced)
	}
}

// Remove deletes id if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.objects[id]
	if ok {
		delete(r.objects, id)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	for _, o := range r.observers {
		o.OnRemove(id)
	}
}

// Lookup returns the object bound to id.
func (r *Registry) Lookup(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[id]
	return obj, ok
}

// Len returns the number of bound objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Names returns the bound identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.objects))
	for id := range r.objects {
		names = append(names, id)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
