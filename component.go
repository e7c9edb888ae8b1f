// Package elisa provides an Entity-Component-System registry: entities own at
// most one component per registered type, systems process the live entity set
// once per tick, and messages carry typed payloads between them.
package elisa

import (
	"fmt"
	"sync"
)

// ComponentType is a registered component type. The zero value is reserved and
// never returned by the registry, so an unset ComponentType is always invalid.
type ComponentType uint8

// MaxComponentTypes is the number of component types the registry can hold.
// Type ids double as bit positions in an entity's 256-bit component mask.
const MaxComponentTypes = 255

var registry = struct {
	sync.RWMutex
	byName map[string]ComponentType
	names  [MaxComponentTypes + 1]string
	next   ComponentType
}{
	byName: make(map[string]ComponentType, 16),
	next:   1,
}

// RegisterComponentType registers name and returns its type. Registering a
// name twice returns the existing type.
func RegisterComponentType(name string) (ComponentType, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty component type name", ErrInvalidArgument)
	}
	registry.Lock()
	defer registry.Unlock()
	if ct, ok := registry.byName[name]; ok {
		return ct, nil
	}
	// next wraps to 0 once type 255 has been handed out
	if registry.next == 0 {
		return 0, fmt.Errorf("%w: cannot register %q: maximum number of component types (%d) reached",
			ErrInvalidArgument, name, MaxComponentTypes)
	}
	ct := registry.next
	registry.byName[name] = ct
	registry.names[ct] = name
	registry.next++
	return ct, nil
}

// MustRegisterComponentType is like RegisterComponentType but panics on error.
// It is intended for package-level variable initialization.
func MustRegisterComponentType(name string) ComponentType {
	ct, err := RegisterComponentType(name)
	if err != nil {
		panic(err)
	}
	return ct
}

// LookupComponentType returns the type registered under name.
func LookupComponentType(name string) (ComponentType, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: empty component type name", ErrInvalidArgument)
	}
	registry.RLock()
	defer registry.RUnlock()
	ct, ok := registry.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: component type %q is not registered", ErrNotFound, name)
	}
	return ct, nil
}

// ResetComponentRegistry forgets every registered type.
// This is useful for tests that need a clean registry.
func ResetComponentRegistry() {
	registry.Lock()
	defer registry.Unlock()
	registry.byName = make(map[string]ComponentType, 16)
	registry.names = [MaxComponentTypes + 1]string{}
	registry.next = 1
}

// Valid reports whether ct has been registered.
func (ct ComponentType) Valid() bool {
	if ct == 0 {
		return false
	}
	registry.RLock()
	defer registry.RUnlock()
	return registry.names[ct] != ""
}

// Name returns the name ct was registered under, or "" if it is not registered.
func (ct ComponentType) Name() string {
	registry.RLock()
	defer registry.RUnlock()
	return registry.names[ct]
}

func (ct ComponentType) String() string {
	if name := ct.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("ComponentType(%d)", uint8(ct))
}

// Component is a typed bundle of state attached to at most one entity. Its
// type is fixed at construction; replacing a component means removing it and
// adding a new one.
type Component struct {
	payload any
	id      ID
	owner   ID // entity the component is attached to, NilID when detached
	ctype   ComponentType
}

// NewComponent creates a component of type ct carrying payload. The payload is
// opaque to the registry; pointers let systems mutate it in place.
//
// Parameters:
//   - ct: A registered component type.
//   - payload: The component state, may be nil for tag components.
//
// Returns:
//   - The new component, or ErrInvalidArgument if ct is not registered.
func NewComponent(ct ComponentType, payload any) (*Component, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: unregistered component type %d", ErrInvalidArgument, uint8(ct))
	}
	return &Component{id: NewID(), ctype: ct, payload: payload}, nil
}

// NewComponentNamed creates a component from a type name, registering the
// name on first use. Prefer NewComponent with a registered type where the
// type is known up front.
func NewComponentNamed(name string, payload any) (*Component, error) {
	ct, err := RegisterComponentType(name)
	if err != nil {
		return nil, err
	}
	return &Component{id: NewID(), ctype: ct, payload: payload}, nil
}

// ID returns the component's identity.
func (c *Component) ID() ID { return c.id }

// Type returns the component's type.
func (c *Component) Type() ComponentType { return c.ctype }

// TypeName returns the name of the component's type.
func (c *Component) TypeName() string { return c.ctype.Name() }

// Payload returns the component state.
func (c *Component) Payload() any { return c.payload }

// Owner returns the identity of the entity c is attached to, or NilID.
func (c *Component) Owner() ID { return c.owner }

func (c *Component) String() string {
	return fmt.Sprintf("[Component/ %s]: %s", c.ctype, c.id)
}

// PayloadAs returns the component payload as T.
func PayloadAs[T any](c *Component) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.payload.(T)
	return v, ok
}
