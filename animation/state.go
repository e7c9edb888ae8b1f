package animation

import (
	"errors"
	"fmt"

	"github.com/edwinsyarief/elisa"
)

var (
	ErrNoStates       = errors.New("animation: no states")
	ErrUnknownState   = errors.New("animation: unknown state")
	ErrDuplicateState = errors.New("animation: duplicate state")
)

// State is one named configuration of a Machine: the animation played while
// the machine is in it, and an action run each time the state is entered.
// A State is not modified after NewState; machines copy its animation.
type State struct {
	act         func(e *elisa.Entity)
	name        string
	description string
	animation   Animation
	id          elisa.ID
}

// NewState creates a state playing anim. act may be nil.
func NewState(name, description string, anim Animation, act func(e *elisa.Entity)) (*State, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty state name", elisa.ErrInvalidArgument)
	}
	return &State{
		id:          elisa.NewID(),
		name:        name,
		description: description,
		animation:   anim,
		act:         act,
	}, nil
}

// ID returns the state identity.
func (s *State) ID() elisa.ID { return s.id }

// Name returns the state name.
func (s *State) Name() string { return s.name }

// Description returns the state description.
func (s *State) Description() string { return s.description }

func (s *State) String() string {
	return fmt.Sprintf("%s (%s)", s.name, s.id)
}

// MachineKind is the component kind state machines are attached under.
var MachineKind = elisa.NewKind[Machine]("animation.machine")

// Machine switches an entity between named states, each with its own
// animation. Copies of a Machine share their states but play their own
// animation.
type Machine struct {
	states  []*State
	anim    Animation
	current int
}

// NewMachine creates a machine over states. It starts in the first state
// without running that state's action.
func NewMachine(states ...*State) (Machine, error) {
	if len(states) == 0 {
		return Machine{}, ErrNoStates
	}
	seen := make(map[string]struct{}, len(states))
	for i, st := range states {
		if st == nil {
			return Machine{}, fmt.Errorf("%w: nil state at %d", elisa.ErrInvalidArgument, i)
		}
		if _, ok := seen[st.name]; ok {
			return Machine{}, fmt.Errorf("%w: %q", ErrDuplicateState, st.name)
		}
		seen[st.name] = struct{}{}
	}
	return Machine{states: states, anim: states[0].animation}, nil
}

// State returns the current state.
func (m *Machine) State() *State { return m.states[m.current] }

// Animation returns the animation of the current state.
func (m *Machine) Animation() *Animation { return &m.anim }

// Has reports whether the machine has a state with the given name.
func (m *Machine) Has(name string) bool {
	return m.index(name) >= 0
}

// Switch enters the named state on behalf of e: the state's animation starts
// over from its start frame and its action runs. Switching to the current
// state restarts it.
func (m *Machine) Switch(e *elisa.Entity, name string) error {
	i := m.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	st := m.states[i]
	m.current = i
	m.anim = st.animation
	m.anim.Reset()
	if st.act != nil {
		st.act(e)
	}
	return nil
}

func (m *Machine) index(name string) int {
	for i, st := range m.states {
		if st.name == name {
			return i
		}
	}
	return -1
}
