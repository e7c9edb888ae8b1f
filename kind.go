package elisa

import "fmt"

// Kind binds a component type to a Go payload type so lookups are checked at
// compile time instead of through type names.
//
// Example:
//
//	var Position = elisa.NewKind[Vec2]("position")
//
//	e.Add(Position.New(Vec2{X: 1}))
//	p, err := Position.Get(e)
type Kind[T any] struct {
	ct ComponentType
}

// NewKind registers name and returns a Kind for payloads of type T. It panics
// if the registry is full, like MustRegisterComponentType.
func NewKind[T any](name string) Kind[T] {
	return Kind[T]{ct: MustRegisterComponentType(name)}
}

// Type returns the registered component type.
func (k Kind[T]) Type() ComponentType { return k.ct }

// New creates a component whose payload is a pointer to a copy of v.
func (k Kind[T]) New(v T) *Component {
	return &Component{id: NewID(), ctype: k.ct, payload: &v}
}

// From returns the typed payload of c. It reports false if c is of another
// type or carries a payload that is not a *T.
func (k Kind[T]) From(c *Component) (*T, bool) {
	if c == nil || c.ctype != k.ct {
		return nil, false
	}
	v, ok := c.payload.(*T)
	return v, ok
}

// Get returns the payload of e's component of this kind.
func (k Kind[T]) Get(e *Entity) (*T, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	c, err := e.GetOfType(k.ct)
	if err != nil {
		return nil, err
	}
	v, ok := k.From(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s payload is %T", ErrNotFound, k.ct, c.payload)
	}
	return v, nil
}
