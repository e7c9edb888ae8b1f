package elisa

// Filter iterates over the entities of a slice that carry every requested
// component type. It is the usual way for a system to pick its entities out of
// the set handed to Update. Matching is a mask test per entity; the filter
// never copies components.
type Filter struct {
	entities []*Entity
	cur      *Entity
	types    []ComponentType
	mask     bitmask256
	idx      int
}

// NewFilter creates a `Filter` over entities that possesses every component
// type in types. With no types, every entity matches.
//
// Parameters:
//   - entities: The entities to iterate, typically the slice passed to Update.
//   - types: The component types an entity must carry.
//
// Returns:
//   - A pointer to the newly created `Filter`.
func NewFilter(entities []*Entity, types ...ComponentType) *Filter {
	f := &Filter{
		entities: entities,
		types:    types,
		mask:     maskOf(types),
	}
	f.Reset()
	return f
}

// Reset rewinds the filter so it can be iterated again.
func (f *Filter) Reset() {
	f.idx = -1
	f.cur = nil
}

// Next advances the filter to the next matching entity. It returns true if an
// entity was found, and false if the iteration is complete. This method must
// be called before accessing the entity or its components.
//
// Example:
//
//	f := elisa.NewFilter(entities, position, velocity)
//	for f.Next() {
//	    // ... process f.Entity()
//	}
func (f *Filter) Next() bool {
	for f.idx++; f.idx < len(f.entities); f.idx++ {
		e := f.entities[f.idx]
		if e != nil && e.mask.contains(f.mask) {
			f.cur = e
			return true
		}
	}
	f.cur = nil
	return false
}

// Entity returns the current entity. It should only be called after Next has
// returned true.
func (f *Filter) Entity() *Entity {
	return f.cur
}

// Get returns the current entity's component of type ct, or nil if the
// entity has none.
func (f *Filter) Get(ct ComponentType) *Component {
	if f.cur == nil {
		return nil
	}
	c, err := f.cur.GetOfType(ct)
	if err != nil {
		return nil
	}
	return c
}

// Entities returns every matching entity. The slice is freshly allocated.
func (f *Filter) Entities() []*Entity {
	out := make([]*Entity, 0, len(f.entities))
	for _, e := range f.entities {
		if e != nil && e.mask.contains(f.mask) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of matching entities.
func (f *Filter) Count() int {
	n := 0
	for _, e := range f.entities {
		if e != nil && e.mask.contains(f.mask) {
			n++
		}
	}
	return n
}
