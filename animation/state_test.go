package animation

import (
	"errors"
	"strings"
	"testing"

	"github.com/edwinsyarief/elisa"
)

func newStates(t *testing.T, entered *[]string) (*State, *State) {
	t.Helper()
	sheet := loadSheet(t)
	idleAnim, err := New(sheet, []string{"f0", "f1"}, WithFPS(10), Repeating())
	if err != nil {
		t.Fatal(err)
	}
	attackAnim, err := New(sheet, []string{"f2", "f3"}, WithFPS(10))
	if err != nil {
		t.Fatal(err)
	}
	record := func(name string) func(*elisa.Entity) {
		return func(*elisa.Entity) { *entered = append(*entered, name) }
	}
	idle, err := NewState("idle", "standing still", idleAnim, record("idle"))
	if err != nil {
		t.Fatal(err)
	}
	attack, err := NewState("attack", "", attackAnim, record("attack"))
	if err != nil {
		t.Fatal(err)
	}
	return idle, attack
}

// go test -run ^TestMachine$ ./animation -count 1
func TestMachine(t *testing.T) {
	t.Run("NewState", func(t *testing.T) {
		if _, err := NewState("", "", Animation{}, nil); !errors.Is(err, elisa.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		var entered []string
		idle, _ := newStates(t, &entered)
		if idle.Name() != "idle" || idle.Description() != "standing still" || idle.ID().IsNil() {
			t.Errorf("unexpected state %s", idle)
		}
		if !strings.HasPrefix(idle.String(), "idle (") {
			t.Errorf("unexpected string %q", idle.String())
		}
	})

	t.Run("NewMachine", func(t *testing.T) {
		var entered []string
		idle, attack := newStates(t, &entered)
		if _, err := NewMachine(); !errors.Is(err, ErrNoStates) {
			t.Errorf("expected ErrNoStates, got %v", err)
		}
		if _, err := NewMachine(idle, nil); !errors.Is(err, elisa.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := NewMachine(idle, attack, idle); !errors.Is(err, ErrDuplicateState) {
			t.Errorf("expected ErrDuplicateState, got %v", err)
		}
		m, err := NewMachine(idle, attack)
		if err != nil {
			t.Fatal(err)
		}
		if m.State() != idle || !m.Has("attack") || m.Has("jump") {
			t.Errorf("unexpected machine in %s", m.State())
		}
		if len(entered) != 0 {
			t.Errorf("expected no action for the initial state, got %v", entered)
		}
	})

	t.Run("Switch", func(t *testing.T) {
		var entered []string
		idle, attack := newStates(t, &entered)
		m, _ := NewMachine(idle, attack)
		e := elisa.NewEntity()
		_, _ = m.Animation().Update(0.1)

		if err := m.Switch(e, "attack"); err != nil {
			t.Fatal(err)
		}
		sp, _ := m.Animation().Frame()
		if m.State() != attack || sp.Name != "f2" {
			t.Errorf("expected attack on f2, got %s on %s", m.State(), sp.Name)
		}
		if err := m.Switch(e, "jump"); !errors.Is(err, ErrUnknownState) {
			t.Errorf("expected ErrUnknownState, got %v", err)
		}
		_, _ = m.Animation().Update(0.1)
		if err := m.Switch(e, "attack"); err != nil {
			t.Fatal(err)
		}
		if m.Animation().Current() != 0 {
			t.Errorf("expected re-entering to restart, got frame %d", m.Animation().Current())
		}
		if strings.Join(entered, ",") != "attack,attack" {
			t.Errorf("unexpected actions %v", entered)
		}
		if attack.animation.Current() != 0 {
			t.Error("expected the state's own animation to stay untouched")
		}
	})

	t.Run("Copies play independently", func(t *testing.T) {
		var entered []string
		idle, attack := newStates(t, &entered)
		template, _ := NewMachine(idle, attack)
		w := elisa.NewWorld()
		entities := elisa.NewBuilder(w, MachineKind).NewEntitiesWithValueSet(2, template)
		a, _ := MachineKind.Get(entities[0])
		b, _ := MachineKind.Get(entities[1])
		if err := a.Switch(entities[0], "attack"); err != nil {
			t.Fatal(err)
		}
		_ = a.Animation().DeleteFrame(0)
		if b.State() != idle || b.Animation().Len() != 2 {
			t.Errorf("expected the other copy to stay idle with 2 frames, got %s with %d", b.State(), b.Animation().Len())
		}
		if attack.animation.Len() != 2 {
			t.Errorf("expected state frames to be kept, got %d", attack.animation.Len())
		}
	})
}

// go test -run ^TestSystemSwitch$ ./animation -count 1
func TestSystemSwitch(t *testing.T) {
	var entered []string
	idle, attack := newStates(t, &entered)
	m, err := NewMachine(idle, attack)
	if err != nil {
		t.Fatal(err)
	}
	w := elisa.NewWorld()
	e := w.CreateEntity().MustAdd(MachineKind.New(m))
	log := &finishLog{}
	_ = w.AddSystem(NewSystem(nil))
	_ = w.AddSystem(log)
	machine := func() *Machine {
		t.Helper()
		got, err := MachineKind.Get(e)
		if err != nil {
			t.Fatal(err)
		}
		return got
	}

	_ = w.Tick(0.1)
	if machine().Animation().Current() != 1 {
		t.Fatalf("expected idle to advance, got frame %d", machine().Animation().Current())
	}

	_ = w.Post(elisa.MustMessage(MsgSwitch, SwitchState{Entity: e.ID(), State: "attack"}))
	_ = w.Post(elisa.MustMessage(MsgSwitch, "attack"))
	_ = w.Tick(0.1) // delivers the switch
	_ = w.Tick(0.1) // applies it
	if machine().State() != attack {
		t.Fatalf("expected attack, got %s", machine().State())
	}
	if strings.Join(entered, ",") != "attack" {
		t.Errorf("expected one entry action, got %v", entered)
	}
	if len(log.ids) != 1 || log.ids[0] != e.ID() {
		t.Errorf("expected the attack animation to report finishing, got %v", log.ids)
	}

	_ = w.Post(elisa.MustMessage(MsgSwitch, SwitchState{Entity: e.ID(), State: "jump"}))
	_ = w.Tick(0.1)
	_ = w.Tick(0.1)
	if machine().State() != attack {
		t.Errorf("expected an unknown state to be ignored, got %s", machine().State())
	}

	_ = w.Post(elisa.MustMessage(MsgSwitch, SwitchState{Entity: e.ID(), State: "idle"}))
	_ = w.Tick(0.1)
	_ = w.Tick(0.1)
	if machine().State() != idle || strings.Join(entered, ",") != "attack,idle" {
		t.Errorf("expected idle after switching back, got %s (%v)", machine().State(), entered)
	}
}
