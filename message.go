package elisa

import "fmt"

// MessageType tags a message so receivers can tell payloads apart.
// Receivers ignore types they do not know.
type MessageType string

// Message is an immutable, identity-bearing payload exchanged between systems
// and entities. It is a value; the registry never retains it.
type Message struct {
	payload any
	mtype   MessageType
	id      ID
}

// NewMessage creates a message of type mt.
func NewMessage(mt MessageType, payload any) (Message, error) {
	if mt == "" {
		return Message{}, fmt.Errorf("%w: empty message type", ErrInvalidArgument)
	}
	return Message{id: NewID(), mtype: mt, payload: payload}, nil
}

// MustMessage is like NewMessage but panics on error.
func MustMessage(mt MessageType, payload any) Message {
	msg, err := NewMessage(mt, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// ID returns the message identity.
func (m Message) ID() ID { return m.id }

// Type returns the message type.
func (m Message) Type() MessageType { return m.mtype }

// Payload returns the message payload.
func (m Message) Payload() any { return m.payload }

func (m Message) String() string {
	return fmt.Sprintf("[Message/ %s]: %s", m.mtype, m.id)
}

// MessagePayload returns the payload of msg as T.
func MessagePayload[T any](msg Message) (T, bool) {
	v, ok := msg.payload.(T)
	return v, ok
}
