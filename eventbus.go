package elisa

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// MessageHandlerFunc handles a message taken off the bus.
type MessageHandlerFunc func(msg Message)

// EventBus carries messages between systems. Publish delivers at once; Post
// queues a message until the next Flush. The world flushes once per tick
// after every system has run, so messages posted during a tick are delivered
// at the end of that same tick, in the order they were posted.
//
// Subscribing is not safe for concurrent use and should happen during setup.
// Post may be called from any goroutine.
type EventBus struct {
	logger   *zap.Logger
	typed    map[MessageType][]MessageHandlerFunc
	all      []MessageHandlerFunc
	queue    []Message
	spare    []Message
	mu       sync.Mutex
	dropped  atomic.Uint64
	panicked atomic.Uint64
}

// NewEventBus creates an empty bus. A nil logger disables logging.
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		logger: logger,
		typed:  make(map[MessageType][]MessageHandlerFunc),
	}
}

// Subscribe registers handler for messages of type mt. Handlers are called in
// the order they were subscribed.
func (bus *EventBus) Subscribe(mt MessageType, handler MessageHandlerFunc) {
	if handler == nil {
		return
	}
	if bus.typed == nil {
		bus.typed = make(map[MessageType][]MessageHandlerFunc)
	}
	hs := bus.typed[mt]
	if cap(hs) == 0 {
		hs = make([]MessageHandlerFunc, 0, 4) // Preallocate small capacity to reduce reallocs
	}
	bus.typed[mt] = append(hs, handler)
}

// SubscribeAll registers handler for every message regardless of type.
// Broadcast handlers run after the typed handlers of each message.
func (bus *EventBus) SubscribeAll(handler MessageHandlerFunc) {
	if handler == nil {
		return
	}
	bus.all = append(bus.all, handler)
}

// SubscribeTo registers a handler that receives the payload of messages of
// type mt as a T. Messages whose payload is not a T are dropped and counted.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - mt: The message type to listen for.
//   - handler: A function taking the message and its typed payload.
func SubscribeTo[T any](bus *EventBus, mt MessageType, handler func(Message, T)) {
	bus.Subscribe(mt, func(msg Message) {
		v, ok := msg.payload.(T)
		if !ok {
			bus.dropped.Add(1)
			bus.log().Debug("dropping message with unexpected payload",
				zap.String("type", string(msg.mtype)),
				zap.Stringer("message", msg.id))
			return
		}
		handler(msg, v)
	})
}

// Publish delivers msg to its handlers synchronously.
func (bus *EventBus) Publish(msg Message) {
	hs := bus.typed[msg.mtype]
	if len(hs) == 0 && len(bus.all) == 0 {
		bus.dropped.Add(1)
		return
	}
	for _, h := range hs {
		bus.call(h, msg)
	}
	for _, h := range bus.all {
		bus.call(h, msg)
	}
}

// Post queues msg for the next Flush.
func (bus *EventBus) Post(msg Message) {
	bus.mu.Lock()
	bus.queue = append(bus.queue, msg)
	bus.mu.Unlock()
}

// Flush delivers every queued message in posting order and returns how many
// were delivered. Messages posted by handlers during the flush stay queued
// for the following one.
func (bus *EventBus) Flush() int {
	bus.mu.Lock()
	batch := bus.queue
	bus.queue = bus.spare[:0]
	bus.mu.Unlock()

	for i := range batch {
		bus.Publish(batch[i])
		batch[i] = Message{}
	}

	bus.mu.Lock()
	bus.spare = batch[:0]
	bus.mu.Unlock()
	return len(batch)
}

// Pending returns the number of queued messages.
func (bus *EventBus) Pending() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.queue)
}

// Dropped returns how many messages found no handler or carried a payload
// their handler could not accept.
func (bus *EventBus) Dropped() uint64 {
	return bus.dropped.Load()
}

// Panicked returns how many handler calls panicked.
func (bus *EventBus) Panicked() uint64 {
	return bus.panicked.Load()
}

// call runs h, turning a panic into a log entry so one bad receiver cannot
// abort delivery to the rest.
func (bus *EventBus) call(h MessageHandlerFunc, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			bus.panicked.Add(1)
			bus.log().Warn("message handler panicked",
				zap.String("type", string(msg.mtype)),
				zap.Stringer("message", msg.id),
				zap.Any("panic", r))
		}
	}()
	h(msg)
}

func (bus *EventBus) log() *zap.Logger {
	if bus.logger == nil {
		return zap.NewNop()
	}
	return bus.logger
}
