package elisa

import (
	"fmt"
	"reflect"
	"sync"
)

// Resources holds world-wide collaborators such as sprite sheets or clocks,
// at most one per dynamic type. Systems fetch them with GetResource.
// It uses a slice for storage, a map for quick type to ID mapping, and a free
// list for ID reuse. Resources is safe for concurrent use.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIds []int
	mu      sync.RWMutex
}

// Add adds a resource and returns its ID. Free IDs are reused before the
// slice grows.
//
// Returns:
//   - The resource ID.
//   - ErrInvalidArgument for a nil resource, ErrDuplicateResource if a
//     resource of the same type is already present.
func (r *Resources) Add(res any) (int, error) {
	if res == nil {
		return -1, fmt.Errorf("%w: cannot add nil resource", ErrInvalidArgument)
	}
	t := reflect.TypeOf(res)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		return -1, fmt.Errorf("%w: %s", ErrDuplicateResource, t)
	}
	var id int
	if len(r.freeIds) > 0 {
		id = r.freeIds[len(r.freeIds)-1]
		r.freeIds = r.freeIds[:len(r.freeIds)-1]
		r.items[id] = res
	} else {
		r.items = append(r.items, res)
		id = len(r.items) - 1
	}
	r.types[t] = id
	return id, nil
}

// Has checks if a resource with the given ID exists.
func (r *Resources) Has(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.has(id)
}

func (r *Resources) has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get retrieves the resource by ID, or nil if it doesn't exist.
func (r *Resources) Get(id int) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.has(id) {
		return nil
	}
	return r.items[id]
}

// Remove removes the resource by ID if it exists, marking the ID as free for reuse.
func (r *Resources) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.has(id) {
		return
	}
	res := r.items[id]
	delete(r.types, reflect.TypeOf(res))
	r.items[id] = nil
	r.freeIds = append(r.freeIds, id)
}

// Clear removes all resources, resetting the free list.
func (r *Resources) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		r.items[i] = nil
	}
	r.items = r.items[:0]
	clear(r.types)
	r.freeIds = r.freeIds[:0]
}

// Len returns the number of resources held.
func (r *Resources) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// HasResource checks if a resource of type *T exists, returning true and its ID, or false and -1.
func HasResource[T any](r *Resources) (bool, int) {
	t := reflect.TypeOf((*T)(nil))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.types[t]; ok {
		return true, id
	}
	return false, -1
}

// GetResource retrieves the resource of type *T if it exists, returning it and its ID, or nil and -1.
func GetResource[T any](r *Resources) (*T, int) {
	t := reflect.TypeOf((*T)(nil))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.types[t]; ok {
		res := r.items[id].(*T)
		return res, id
	}
	return nil, -1
}
