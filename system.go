package elisa

import "fmt"

// System processes the live entity set once per tick. dt is the time elapsed
// since the previous tick in seconds.
//
// Implementations must tolerate an empty entity slice, must not assume an
// ordering beyond the world's insertion order and must not keep the slice or
// the entities after Update returns: entities may be destroyed between ticks.
type System interface {
	Update(dt float64, entities []*Entity)
}

// Receiver is implemented by systems that want messages. The world subscribes
// every registered Receiver to all messages on its bus. Unknown message types
// must be ignored, not treated as failures.
type Receiver interface {
	ReceiveMsg(msg Message)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(dt float64, entities []*Entity)

// Update calls f(dt, entities).
func (f SystemFunc) Update(dt float64, entities []*Entity) {
	f(dt, entities)
}

// binder is satisfied by systems embedding BaseSystem.
type binder interface {
	bind(bus *EventBus)
}

// BaseSystem gives a system a way to send messages. Embed it in a system
// struct; the world binds it to its bus on AddSystem.
type BaseSystem struct {
	bus *EventBus
}

func (s *BaseSystem) bind(bus *EventBus) {
	s.bus = bus
}

// SendMsg posts msg to the bus of the world the system is registered with. It
// is delivered at the end of the current tick.
func (s *BaseSystem) SendMsg(msg Message) error {
	if s.bus == nil {
		return ErrNotBound
	}
	if msg.id.IsNil() {
		return fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}
	s.bus.Post(msg)
	return nil
}

// ReceiveMsg ignores every message. Systems override it to react to messages.
func (s *BaseSystem) ReceiveMsg(Message) {}

// systemPhase tracks the idle/active contract of a registered system.
type systemPhase uint8

const (
	phaseIdle systemPhase = iota
	phaseActive
)

func (p systemPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseActive:
		return "active"
	}
	return "unknown"
}

// systemEntry is a registered system and its current phase.
type systemEntry struct {
	sys   System
	name  string
	phase systemPhase
}
