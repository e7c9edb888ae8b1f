package elisa

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID identifies an entity, component or message. It is assigned at
// construction and never changes.
type ID uuid.UUID

// NilID is the empty identity. No provider ever returns it.
var NilID ID

// IsNil reports whether id is the empty identity.
func (id ID) IsNil() bool {
	return id == NilID
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IDProvider issues identities that are unique for the life of the process.
type IDProvider interface {
	NewID() ID
}

// UUIDProvider issues random (version 4) UUIDs.
type UUIDProvider struct{}

// NewID returns a fresh random identity.
func (UUIDProvider) NewID() ID {
	return ID(uuid.New())
}

// SequenceProvider issues deterministic identities: an optional fixed prefix
// in the high eight bytes and a counter in the low eight. It is meant for
// tests that need reproducible ids. The zero value is ready to use.
type SequenceProvider struct {
	prefix uint64
	next   atomic.Uint64
}

// NewSequenceProvider creates a provider whose ids carry the given prefix, so
// two providers with different prefixes never collide.
func NewSequenceProvider(prefix uint64) *SequenceProvider {
	return &SequenceProvider{prefix: prefix}
}

// NewID returns the next identity in the sequence. The first id has counter 1.
func (p *SequenceProvider) NewID() ID {
	var id ID
	binary.BigEndian.PutUint64(id[:8], p.prefix)
	binary.BigEndian.PutUint64(id[8:], p.next.Add(1))
	return id
}

type providerBox struct {
	p IDProvider
}

var currentProvider atomic.Pointer[providerBox]

// NewID returns a fresh identity from the process-wide provider. The default
// provider is a UUIDProvider, installed on first use.
func NewID() ID {
	return idProvider().NewID()
}

// SetIDProvider installs p as the process-wide provider and returns the one
// it replaced. A nil p restores the default.
func SetIDProvider(p IDProvider) IDProvider {
	if p == nil {
		p = UUIDProvider{}
	}
	prev := currentProvider.Swap(&providerBox{p: p})
	if prev == nil {
		return UUIDProvider{}
	}
	return prev.p
}

func idProvider() IDProvider {
	if box := currentProvider.Load(); box != nil {
		return box.p
	}
	currentProvider.CompareAndSwap(nil, &providerBox{p: UUIDProvider{}})
	return currentProvider.Load().p
}
