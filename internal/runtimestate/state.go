// Package runtimestate implements the Playing/Paused/Cutscene/Menu runtime
// state machine (component L) that gates tick steps 4-9. Styled
// after _examples/lixenwraith-vi-fighter/manifest/fsm.go's generic
// guard/action-registration FSM — that package is project-local code, not
// an importable dependency, so this is idiom reuse rather than a wired
// library, as recorded in DESIGN.md.
package runtimestate

// State is one of the four runtime-wide states.
type State uint8

const (
	Playing State = iota
	Paused
	Cutscene
	Menu
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Cutscene:
		return "cutscene"
	case Menu:
		return "menu"
	default:
		return "unknown"
	}
}

// ParseState maps a wire-format state name (as sent by SetRuntimeState) back
// to a State, for the control plane's string-keyed Args map.
func ParseState(name string) (State, bool) {
	switch name {
	case "playing":
		return Playing, true
	case "paused":
		return Paused, true
	case "cutscene":
		return Cutscene, true
	case "menu":
		return Menu, true
	default:
		return 0, false
	}
}

// Guard reports whether a transition out of the current state is allowed
// right now.
type Guard func(m *Machine) bool

// Action runs as a transition's side effect (e.g. emitting an event —
// cmd/axiomd wires one into internal/eventbus, keeping runtimestate itself
// free of an eventbus import).
type Action func(m *Machine, from, to State)

// Machine is the runtime-wide FSM. Timers are frame-counted: entered_at_frame
// bookkeeping, no suspension primitives.
type Machine struct {
	current       State
	enteredAtFrame uint64
	guards        map[State]Guard
	onTransition  Action
}

// New builds a Machine starting in Playing.
func New() *Machine {
	return &Machine{current: Playing, guards: make(map[State]Guard)}
}

// RegisterGuard installs a guard that must pass before transitioning into
// target.
func (m *Machine) RegisterGuard(target State, g Guard) {
	m.guards[target] = g
}

// OnTransition installs the single action fired on every transition
// (cmd/axiomd wires this to emit one "game_transition" event carrying the
// from/to states).
func (m *Machine) OnTransition(a Action) { m.onTransition = a }

// Current returns the active state.
func (m *Machine) Current() State { return m.current }

// FramesInState returns how many frames have elapsed since the last
// transition, given the caller's current frame counter.
func (m *Machine) FramesInState(frame uint64) uint64 {
	if frame < m.enteredAtFrame {
		return 0
	}
	return frame - m.enteredAtFrame
}

// Transition attempts to move to target at the given frame, running any
// registered guard first. Returns false if the guard rejected the move.
func (m *Machine) Transition(target State, frame uint64) bool {
	if g, ok := m.guards[target]; ok && !g(m) {
		return false
	}
	from := m.current
	m.current = target
	m.enteredAtFrame = frame
	if m.onTransition != nil {
		m.onTransition(m, from, target)
	}
	return true
}

// GatesGameplay reports whether tick steps 4-9 should run:
// only in Playing.
func (m *Machine) GatesGameplay() bool { return m.current == Playing }
