package elisa

// Query is an iterator over entities carrying a component of kind T, yielding
// the typed payload alongside each entity.
type Query[T any] struct {
	entities    []*Entity
	cur         *T
	curEntity   *Entity
	kind        Kind[T]
	excludeMask bitmask256
	index       int
}

// NewQuery creates a query over entities for components of kind k. Entities
// carrying any of the excluded types are skipped.
func NewQuery[T any](entities []*Entity, k Kind[T], excludes ...ComponentType) *Query[T] {
	return &Query[T]{
		entities:    entities,
		kind:        k,
		excludeMask: maskOf(excludes),
		index:       -1,
	}
}

// Reset resets the query for reuse.
func (q *Query[T]) Reset() {
	q.index = -1
	q.cur = nil
	q.curEntity = nil
}

// Next advances to the next entity. Returns false if no more entities.
// Entities whose component of kind T holds a payload of another type are
// skipped.
func (q *Query[T]) Next() bool {
	for q.index++; q.index < len(q.entities); q.index++ {
		e := q.entities[q.index]
		if e == nil || !e.Has(q.kind.ct) || e.mask.intersects(q.excludeMask) {
			continue
		}
		c, err := e.GetOfType(q.kind.ct)
		if err != nil {
			continue
		}
		v, ok := q.kind.From(c)
		if !ok {
			continue
		}
		q.cur = v
		q.curEntity = e
		return true
	}
	q.cur = nil
	q.curEntity = nil
	return false
}

// Get returns a pointer to the component for the current entity.
func (q *Query[T]) Get() *T {
	return q.cur
}

// Entity returns the current entity.
func (q *Query[T]) Entity() *Entity {
	return q.curEntity
}
