package animation

import (
	"github.com/edwinsyarief/elisa"
	"go.uber.org/zap"
)

// Message types understood or sent by System.
const (
	// MsgReset rewinds the animation of the entity whose elisa.ID is the payload.
	MsgReset elisa.MessageType = "animation.reset"
	// MsgFinished is sent once when a non-repeating animation reaches its
	// last frame. The payload is the entity's elisa.ID.
	MsgFinished elisa.MessageType = "animation.finished"
	// MsgSwitch moves an entity's Machine to another state. The payload is a
	// SwitchState.
	MsgSwitch elisa.MessageType = "animation.switch"
)

// SwitchState is the payload of MsgSwitch.
type SwitchState struct {
	Entity elisa.ID
	State  string
}

// System advances the animation of every entity carrying a Kind component
// and the current state's animation of every entity carrying a Machine. An
// entity is expected to carry one or the other.
type System struct {
	elisa.BaseSystem
	logger   *zap.Logger
	pending  map[elisa.ID]struct{} // resets requested since the last update
	switches map[elisa.ID]string   // state switches requested since the last update
	finished map[elisa.ID]bool
}

// NewSystem creates an animation system. A nil logger disables logging.
func NewSystem(logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{
		logger:   logger,
		pending:  make(map[elisa.ID]struct{}),
		switches: make(map[elisa.ID]string),
		finished: make(map[elisa.ID]bool),
	}
}

// Update steps each animation by dt seconds.
func (s *System) Update(dt float64, entities []*elisa.Entity) {
	seen := make(map[elisa.ID]bool, len(entities))
	q := elisa.NewQuery(entities, Kind)
	for q.Next() {
		id := q.Entity().ID()
		seen[id] = true
		s.step(id, q.Get(), dt)
	}
	mq := elisa.NewQuery(entities, MachineKind)
	for mq.Next() {
		m := mq.Get()
		e := mq.Entity()
		id := e.ID()
		seen[id] = true
		if name, ok := s.switches[id]; ok {
			delete(s.switches, id)
			if err := m.Switch(e, name); err != nil {
				s.logger.Debug("ignoring state switch", zap.Stringer("entity", id), zap.Error(err))
			} else {
				delete(s.finished, id)
			}
		}
		s.step(id, m.Animation(), dt)
	}
	// forget entities that are gone so no reference outlives the tick
	for id := range s.finished {
		if !seen[id] {
			delete(s.finished, id)
		}
	}
	for id := range s.pending {
		if !seen[id] {
			delete(s.pending, id)
		}
	}
	for id := range s.switches {
		if !seen[id] {
			delete(s.switches, id)
		}
	}
}

// step applies a pending reset, advances anim and reports it finishing.
func (s *System) step(id elisa.ID, anim *Animation, dt float64) {
	if _, ok := s.pending[id]; ok {
		anim.Reset()
		delete(s.pending, id)
		delete(s.finished, id)
	}
	if _, err := anim.Update(dt); err != nil {
		s.logger.Debug("skipping animation", zap.Stringer("entity", id), zap.Error(err))
		return
	}
	if anim.Finished() && !s.finished[id] {
		s.finished[id] = true
		if err := s.SendMsg(elisa.MustMessage(MsgFinished, id)); err != nil {
			s.logger.Warn("cannot report finished animation", zap.Stringer("entity", id), zap.Error(err))
		}
	}
}

// ReceiveMsg handles MsgReset and MsgSwitch; other message types are ignored.
func (s *System) ReceiveMsg(msg elisa.Message) {
	switch msg.Type() {
	case MsgReset:
		id, ok := elisa.MessagePayload[elisa.ID](msg)
		if !ok || id.IsNil() {
			s.logger.Debug("ignoring malformed reset", zap.Stringer("message", msg.ID()))
			return
		}
		s.pending[id] = struct{}{}
	case MsgSwitch:
		sw, ok := elisa.MessagePayload[SwitchState](msg)
		if !ok || sw.Entity.IsNil() || sw.State == "" {
			s.logger.Debug("ignoring malformed switch", zap.Stringer("message", msg.ID()))
			return
		}
		s.switches[sw.Entity] = sw.State
	}
}
