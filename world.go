package elisa

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// World is the driver-side registry: it owns the live entities and the
// ordered list of systems, and advances them one tick at a time. Systems run
// in registration order, each to completion before the next starts.
//
// A World is not safe for concurrent use; drive it from one goroutine.
type World struct {
	logger    *zap.Logger
	ids       IDProvider
	bus       *EventBus
	resources *Resources
	entities  map[ID]*Entity
	systems   []*systemEntry
	order     []ID // entity insertion order
	capacity  int
	ticks     uint64
	ticking   bool
}

// NewWorld creates and initializes an empty World.
//
// Parameters:
//   - opts: Options such as WithLogger or WithCapacity.
//
// Returns:
//   - The newly created World.
func NewWorld(opts ...Option) *World {
	w := &World{
		logger:    zap.NewNop(),
		resources: &Resources{},
		capacity:  64,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.ids == nil {
		w.ids = idProvider()
	}
	w.entities = make(map[ID]*Entity, w.capacity)
	w.order = make([]ID, 0, w.capacity)
	w.bus = NewEventBus(w.logger.Named("bus"))
	return w
}

// Logger returns the world's logger.
func (w *World) Logger() *zap.Logger { return w.logger }

// Bus returns the world's message bus.
func (w *World) Bus() *EventBus { return w.bus }

// Resources returns the world's resource store, used to hand collaborators
// such as sprite sheets to systems.
func (w *World) Resources() *Resources { return w.resources }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 { return w.ticks }

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.order) }

// CreateEntity creates a new entity with no components and adds it to the
// world.
func (w *World) CreateEntity() *Entity {
	e := newEntity(w.ids.NewID())
	w.insert(e)
	return e
}

// AddEntity adds an entity built elsewhere.
func (w *World) AddEntity(e *Entity) error {
	if e == nil {
		return fmt.Errorf("%w: no entity provided", ErrInvalidArgument)
	}
	if _, ok := w.entities[e.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, e.id)
	}
	w.insert(e)
	return nil
}

func (w *World) insert(e *Entity) {
	w.entities[e.id] = e
	w.order = append(w.order, e.id)
	w.logger.Debug("entity created", zap.Stringer("entity", e.id))
}

// Entity returns the live entity with the given identity.
func (w *World) Entity(id ID) (*Entity, error) {
	if id.IsNil() {
		return nil, fmt.Errorf("%w: no entity id provided", ErrInvalidArgument)
	}
	e, ok := w.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotFound, id)
	}
	return e, nil
}

// DestroyEntity discards the entity and its components. Destroying an unknown
// id is a no-op. During a tick, systems that run later still see the entity
// in the snapshot they were handed, but it no longer appears in the world.
func (w *World) DestroyEntity(id ID) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	delete(w.entities, id)
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	n := e.Len()
	e.clear()
	e.handler = nil
	w.logger.Debug("entity destroyed", zap.Stringer("entity", id), zap.Int("components", n))
}

// Entities returns a snapshot of the live entities in insertion order. The
// slice is freshly allocated on each call.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, len(w.order))
	for i, id := range w.order {
		out[i] = w.entities[id]
	}
	return out
}

// AddSystem registers s to run on every tick after the systems already
// registered. Systems embedding BaseSystem are bound to the world's bus, and
// systems implementing Receiver are subscribed to every message.
func (w *World) AddSystem(s System) error {
	if isNil(s) {
		return fmt.Errorf("%w: no system provided", ErrInvalidArgument)
	}
	if w.ticking {
		return fmt.Errorf("%w: cannot add a system from %s", ErrTickInProgress, w.activeSystem())
	}
	if b, ok := s.(binder); ok {
		b.bind(w.bus)
	}
	if r, ok := s.(Receiver); ok {
		w.bus.SubscribeAll(r.ReceiveMsg)
	}
	entry := &systemEntry{sys: s, name: systemName(s)}
	w.systems = append(w.systems, entry)
	w.logger.Debug("system added", zap.String("system", entry.name), zap.Int("position", len(w.systems)-1))
	return nil
}

// Systems returns the registered systems in run order.
func (w *World) Systems() []System {
	out := make([]System, len(w.systems))
	for i, entry := range w.systems {
		out[i] = entry.sys
	}
	return out
}

// Tick advances the world by dt seconds: every system is updated once, in
// registration order, with the same entity snapshot, and then the messages
// posted during the tick are delivered.
//
// Returns:
//   - ErrInvalidArgument if dt is negative, NaN or infinite.
//   - ErrTickInProgress if called from inside a system's Update.
func (w *World) Tick(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: time delta %v", ErrInvalidArgument, dt)
	}
	if w.ticking {
		return fmt.Errorf("%w: tick called from %s", ErrTickInProgress, w.activeSystem())
	}
	w.ticking = true
	defer func() { w.ticking = false }()

	start := time.Now()
	entities := w.Entities()
	for _, entry := range w.systems {
		w.update(entry, dt, entities)
	}
	delivered := w.bus.Flush()
	w.ticks++

	if ce := w.logger.Check(zap.DebugLevel, "tick"); ce != nil {
		ce.Write(
			zap.Uint64("tick", w.ticks),
			zap.Float64("dt", dt),
			zap.Int("entities", len(entities)),
			zap.Int("systems", len(w.systems)),
			zap.Int("messages", delivered),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// update runs one system. A panic is logged with the system's name and then
// re-raised to the caller of Tick.
func (w *World) update(entry *systemEntry, dt float64, entities []*Entity) {
	entry.phase = phaseActive
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("system panicked",
				zap.String("system", entry.name),
				zap.Stringer("phase", entry.phase),
				zap.Uint64("tick", w.ticks+1),
				zap.Any("panic", r))
			entry.phase = phaseIdle
			panic(r)
		}
		entry.phase = phaseIdle
	}()
	entry.sys.Update(dt, entities)
}

// activeSystem names the system currently in its Update. Outside of any
// Update the tick is delivering messages.
func (w *World) activeSystem() string {
	for _, entry := range w.systems {
		if entry.phase == phaseActive {
			return entry.name
		}
	}
	return "a message handler"
}

// Post queues msg on the world's bus for delivery at the end of the current
// tick, or the next one when called between ticks.
func (w *World) Post(msg Message) error {
	if msg.id.IsNil() {
		return fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}
	w.bus.Post(msg)
	return nil
}

// SendTo delivers msg directly to the entity with the given identity.
func (w *World) SendTo(id ID, msg Message) error {
	e, err := w.Entity(id)
	if err != nil {
		return err
	}
	if err := e.SendMsg(msg); err != nil {
		w.logger.Warn("entity message failed", zap.Stringer("entity", id), zap.Error(err))
		return err
	}
	return nil
}

// Clear destroys every entity. Systems and resources are kept.
func (w *World) Clear() {
	for _, id := range slices.Clone(w.order) {
		w.DestroyEntity(id)
	}
}

// isNil reports whether s is nil or wraps a nil pointer or func.
func isNil(s System) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func systemName(s System) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
