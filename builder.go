package elisa

import "fmt"

// Builder creates entities in a world that start with one component of kind
// T, and reads or replaces that component afterwards.
type Builder[T any] struct {
	world *World
	kind  Kind[T]
}

// NewBuilder creates a builder adding entities to w.
func NewBuilder[T any](w *World, k Kind[T]) *Builder[T] {
	return &Builder[T]{world: w, kind: k}
}

// NewEntity creates an entity holding the zero value of T.
func (b *Builder[T]) NewEntity() *Entity {
	var zero T
	return b.NewEntityWith(zero)
}

// NewEntityWith creates an entity holding v.
func (b *Builder[T]) NewEntityWith(v T) *Entity {
	e := b.world.CreateEntity()
	// a fresh entity has no component to clash with
	e.MustAdd(b.kind.New(v))
	return e
}

// NewEntities creates count entities holding the zero value of T.
func (b *Builder[T]) NewEntities(count int) []*Entity {
	var zero T
	return b.NewEntitiesWithValueSet(count, zero)
}

// NewEntitiesWithValueSet creates count entities, each holding its own copy
// of comp.
func (b *Builder[T]) NewEntitiesWithValueSet(count int, comp T) []*Entity {
	if count <= 0 {
		return nil
	}
	out := make([]*Entity, count)
	for i := range out {
		out[i] = b.NewEntityWith(comp)
	}
	return out
}

// Get ...
func (b *Builder[T]) Get(e *Entity) *T {
	v, err := b.kind.Get(e)
	if err != nil {
		return nil
	}
	return v
}

// Set stores comp in e's component of kind T, adding the component if e has
// none. A component of the same type whose payload is not a *T is replaced.
func (b *Builder[T]) Set(e *Entity, comp T) error {
	if v := b.Get(e); v != nil {
		*v = comp
		return nil
	}
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	if e.Has(b.kind.ct) {
		if _, err := e.RemoveOfType(b.kind.ct); err != nil {
			return err
		}
	}
	_, err := e.Add(b.kind.New(comp))
	return err
}

// SetBatch ...
func (b *Builder[T]) SetBatch(entities []*Entity, comp T) error {
	for _, e := range entities {
		if err := b.Set(e, comp); err != nil {
			return err
		}
	}
	return nil
}
