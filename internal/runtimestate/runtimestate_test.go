package runtimestate

import "testing"

func TestNewStartsInPlaying(t *testing.T) {
	m := New()
	if m.Current() != Playing {
		t.Fatalf("a fresh Machine should start in Playing, got %v", m.Current())
	}
	if !m.GatesGameplay() {
		t.Error("GatesGameplay should be true while Playing")
	}
}

func TestTransitionChangesStateAndGatesGameplay(t *testing.T) {
	m := New()
	if !m.Transition(Paused, 10) {
		t.Fatal("an unguarded transition should succeed")
	}
	if m.Current() != Paused {
		t.Errorf("expected Paused, got %v", m.Current())
	}
	if m.GatesGameplay() {
		t.Error("GatesGameplay should be false while Paused")
	}
}

func TestTransitionRejectedByGuard(t *testing.T) {
	m := New()
	m.RegisterGuard(Cutscene, func(m *Machine) bool { return false })
	if m.Transition(Cutscene, 5) {
		t.Fatal("a failing guard should reject the transition")
	}
	if m.Current() != Playing {
		t.Error("state should remain unchanged after a rejected transition")
	}
}

func TestTransitionAllowedByGuard(t *testing.T) {
	m := New()
	allow := false
	m.RegisterGuard(Cutscene, func(m *Machine) bool { return allow })
	if m.Transition(Cutscene, 5) {
		t.Fatal("transition should fail while the guard returns false")
	}
	allow = true
	if !m.Transition(Cutscene, 6) {
		t.Fatal("transition should succeed once the guard returns true")
	}
}

func TestOnTransitionActionFires(t *testing.T) {
	m := New()
	var gotFrom, gotTo State
	fired := false
	m.OnTransition(func(m *Machine, from, to State) {
		fired = true
		gotFrom, gotTo = from, to
	})
	m.Transition(Menu, 1)
	if !fired {
		t.Fatal("OnTransition action should fire on a successful transition")
	}
	if gotFrom != Playing || gotTo != Menu {
		t.Errorf("expected from=Playing to=Menu, got from=%v to=%v", gotFrom, gotTo)
	}
}

func TestOnTransitionDoesNotFireOnRejectedTransition(t *testing.T) {
	m := New()
	m.RegisterGuard(Menu, func(m *Machine) bool { return false })
	fired := false
	m.OnTransition(func(m *Machine, from, to State) { fired = true })
	m.Transition(Menu, 1)
	if fired {
		t.Error("OnTransition should not fire when the guard rejects the transition")
	}
}

func TestFramesInState(t *testing.T) {
	m := New()
	m.Transition(Paused, 100)
	if got := m.FramesInState(150); got != 50 {
		t.Errorf("FramesInState(150) = %d, want 50", got)
	}
}

func TestFramesInStateClampsNegative(t *testing.T) {
	m := New()
	m.Transition(Paused, 100)
	if got := m.FramesInState(50); got != 0 {
		t.Errorf("FramesInState before entry frame should clamp to 0, got %d", got)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Playing:  "playing",
		Paused:   "paused",
		Cutscene: "cutscene",
		Menu:     "menu",
		State(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
