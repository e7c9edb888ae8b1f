package elisa

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// MessageHandler receives messages delivered to an entity.
type MessageHandler func(e *Entity, msg Message)

// Entity is an identity plus at most one component per type. The entity owns
// its components; they are discarded with it.
//
// An Entity is not safe for concurrent use. Exactly one system is expected to
// mutate a given entity at a time.
type Entity struct {
	components map[ID]*Component
	byType     map[ComponentType]ID
	handler    MessageHandler
	order      []ID // insertion order, backs positional lookup
	mask       bitmask256
	id         ID
}

// NewEntity creates an entity with a fresh identity and no components.
func NewEntity() *Entity {
	return newEntity(NewID())
}

func newEntity(id ID) *Entity {
	return &Entity{
		id:         id,
		components: make(map[ID]*Component, 4),
		byType:     make(map[ComponentType]ID, 4),
		order:      make([]ID, 0, 4),
	}
}

// ID returns the entity's identity.
func (e *Entity) ID() ID { return e.id }

// Len returns the number of attached components.
func (e *Entity) Len() int { return len(e.order) }

// Add attaches c to the entity. Only one component per type is allowed; an
// existing component must be removed before another of its type is added.
//
// Parameters:
//   - c: The component to attach.
//
// Returns:
//   - The entity itself, for chaining.
//   - ErrInvalidArgument if c is nil, ErrDuplicateComponent if c or another
//     component of the same type is already attached, or if c is attached to
//     another entity.
func (e *Entity) Add(c *Component) (*Entity, error) {
	if c == nil {
		return e, fmt.Errorf("%w: no component provided", ErrInvalidArgument)
	}
	if _, ok := e.components[c.id]; ok {
		return e, fmt.Errorf("%w: component %s already attached", ErrDuplicateComponent, c.id)
	}
	if existing, ok := e.byType[c.ctype]; ok {
		return e, fmt.Errorf("%w: type %s already attached as %s", ErrDuplicateComponent, c.ctype, existing)
	}
	if !c.owner.IsNil() {
		return e, fmt.Errorf("%w: component %s is attached to entity %s", ErrDuplicateComponent, c.id, c.owner)
	}
	c.owner = e.id
	e.components[c.id] = c
	e.byType[c.ctype] = c.id
	e.order = append(e.order, c.id)
	e.mask.set(c.ctype)
	return e, nil
}

// MustAdd is like Add but panics on error. It keeps setup code in tests and
// examples short.
func (e *Entity) MustAdd(c *Component) *Entity {
	if _, err := e.Add(c); err != nil {
		panic(err)
	}
	return e
}

// Get returns the attached component with the given identity.
func (e *Entity) Get(id ID) (*Component, error) {
	if id.IsNil() {
		return nil, fmt.Errorf("%w: no component id provided", ErrInvalidArgument)
	}
	c, ok := e.components[id]
	if !ok {
		return nil, fmt.Errorf("%w: component %s", ErrNotFound, id)
	}
	return c, nil
}

// At returns the component at position index in insertion order. Removing a
// component shifts the ones added after it down by one; the relative order of
// the remaining components is preserved.
func (e *Entity) At(index int) (*Component, error) {
	if index < 0 || index >= len(e.order) {
		return nil, fmt.Errorf("%w: index %d, %d components", ErrIndexOutOfRange, index, len(e.order))
	}
	return e.components[e.order[index]], nil
}

// GetOfType returns the attached component of type ct.
func (e *Entity) GetOfType(ct ComponentType) (*Component, error) {
	if ct == 0 {
		return nil, fmt.Errorf("%w: component type not provided", ErrInvalidArgument)
	}
	id, ok := e.byType[ct]
	if !ok {
		return nil, fmt.Errorf("%w: no %s component on entity %s", ErrNotFound, ct, e.id)
	}
	return e.components[id], nil
}

// HasComponentType reports whether a component of type ct is attached.
func (e *Entity) HasComponentType(ct ComponentType) (bool, error) {
	if ct == 0 {
		return false, fmt.Errorf("%w: component type not provided", ErrInvalidArgument)
	}
	_, ok := e.byType[ct]
	return ok, nil
}

// Has is HasComponentType without the error; the zero type is never attached.
func (e *Entity) Has(ct ComponentType) bool {
	return ct != 0 && e.mask.containsBit(ct)
}

// Remove detaches the component with the given identity. Removing an id that
// is not attached is a no-op, so cleanup code can call it unconditionally.
//
// Returns:
//   - The entity itself, for chaining.
//   - ErrInvalidArgument if id is the nil identity.
func (e *Entity) Remove(id ID) (*Entity, error) {
	if id.IsNil() {
		return e, fmt.Errorf("%w: no component id provided", ErrInvalidArgument)
	}
	c, ok := e.components[id]
	if !ok {
		return e, nil
	}
	c.owner = NilID
	delete(e.components, id)
	delete(e.byType, c.ctype)
	e.mask.unset(c.ctype)
	if i := slices.Index(e.order, id); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}
	return e, nil
}

// RemoveOfType detaches the component of type ct, if any.
func (e *Entity) RemoveOfType(ct ComponentType) (*Entity, error) {
	if ct == 0 {
		return e, fmt.Errorf("%w: component type not provided", ErrInvalidArgument)
	}
	id, ok := e.byType[ct]
	if !ok {
		return e, nil
	}
	return e.Remove(id)
}

// Components iterates over the attached components in insertion order. The
// entity must not be mutated during iteration.
func (e *Entity) Components() iter.Seq2[int, *Component] {
	return func(yield func(int, *Component) bool) {
		for i, id := range e.order {
			if !yield(i, e.components[id]) {
				return
			}
		}
	}
}

// OnMessage sets the handler SendMsg delivers to. A nil handler makes SendMsg
// a no-op again.
func (e *Entity) OnMessage(h MessageHandler) {
	e.handler = h
}

// SendMsg delivers msg to the entity's handler synchronously. Without a
// handler the message is dropped. A panicking handler is reported as
// ErrHandlerPanic rather than unwinding the caller.
func (e *Entity) SendMsg(msg Message) (err error) {
	if msg.id.IsNil() {
		return fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}
	if e.handler == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s on entity %s: %v", ErrHandlerPanic, msg.mtype, e.id, r)
		}
	}()
	e.handler(e, msg)
	return nil
}

// clear detaches every component.
func (e *Entity) clear() {
	for _, c := range e.components {
		c.owner = NilID
	}
	clear(e.components)
	clear(e.byType)
	e.order = e.order[:0]
	e.mask = bitmask256{}
}

func (e *Entity) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity: %s\n", e.id)
	if len(e.order) == 0 {
		b.WriteString("No registered components")
		return b.String()
	}
	for i, c := range e.Components() {
		fmt.Fprintf(&b, "[+%d] = %s\n", i, c)
	}
	return b.String()
}
