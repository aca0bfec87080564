package animation

import (
	"testing"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

func walkGraph() Graph {
	return Graph{
		Name:    "hero",
		Default: "idle",
		States: map[string]Clip{
			"idle": {FrameCount: 2, FPS: 4, Loop: true},
			"walk": {FrameCount: 4, FPS: 8, Loop: true},
			"jump": {FrameCount: 1, FPS: 4, Loop: false},
			"fall": {FrameCount: 1, FPS: 4, Loop: false},
		},
	}
}

func TestRegistryUpsertAndGet(t *testing.T) {
	r := NewRegistry()
	r.Upsert(walkGraph())
	g, ok := r.Get("hero")
	if !ok || g.Default != "idle" {
		t.Fatalf("Get(hero) = %+v, %v", g, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get of an unregistered graph should report false")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Upsert(Graph{Name: "zeta"})
	r.Upsert(Graph{Name: "alpha"})
	r.Upsert(Graph{Name: "mid"})
	got := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func TestUpdateInfersWalkFromVelocity(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(walkGraph())
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetVelocity(id, ecsworld.Velocity{X: 50})
	w.SetGrounded(id, ecsworld.Grounded{Value: true})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "idle"})

	Update(w, reg, bus, 1.0/60, 0)

	anim, _ := w.Animation(id)
	if anim.State != "walk" {
		t.Errorf("expected walk state for nonzero horizontal velocity, got %q", anim.State)
	}
}

func TestUpdateInfersJumpWhenAirborneMovingUp(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(walkGraph())
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetVelocity(id, ecsworld.Velocity{Y: -100})
	w.SetGrounded(id, ecsworld.Grounded{Value: false})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "idle"})

	Update(w, reg, bus, 1.0/60, 0)

	anim, _ := w.Animation(id)
	if anim.State != "jump" {
		t.Errorf("expected jump state while airborne and moving up, got %q", anim.State)
	}
}

func TestUpdateSkipsInferenceWhenExplicit(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(walkGraph())
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetVelocity(id, ecsworld.Velocity{X: 50})
	w.SetGrounded(id, ecsworld.Grounded{Value: true})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "jump", Explicit: true})

	Update(w, reg, bus, 1.0/60, 0)

	anim, _ := w.Animation(id)
	if anim.State != "jump" {
		t.Errorf("an Explicit pin should block velocity inference, got %q", anim.State)
	}
}

func TestUpdateNormalizesMissingStateToDefault(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(walkGraph())
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "nonexistent", Explicit: true})

	Update(w, reg, bus, 1.0/60, 0)

	anim, _ := w.Animation(id)
	if anim.State != "idle" {
		t.Errorf("a missing state should normalize to the graph default, got %q", anim.State)
	}
	if anim.Explicit {
		t.Error("normalization should clear the Explicit pin")
	}
}

func TestAdvanceFrameLoops(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(walkGraph())
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "walk", Explicit: true})

	// "walk" runs at 8 FPS over 4 frames; stepping for a full second
	// should wrap around at least once.
	for i := 0; i < 60; i++ {
		Update(w, reg, bus, 1.0/60, uint64(i))
	}
	anim, _ := w.Animation(id)
	if anim.Frame < 0 || anim.Frame >= 4 {
		t.Errorf("a looping clip's frame should stay within [0, FrameCount), got %d", anim.Frame)
	}
}

func TestAdvanceFrameEmitsFrameEvent(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(Graph{
		Name:    "hero",
		Default: "idle",
		States: map[string]Clip{
			"attack": {FrameCount: 3, FPS: 60, Loop: false, Events: map[int]string{1: "swing"}},
			"idle":   {FrameCount: 1, FPS: 1, Loop: true},
		},
	})
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "attack", Explicit: true})

	for i := 0; i < 3; i++ {
		Update(w, reg, bus, 1.0/60, uint64(i))
	}

	found := false
	for _, e := range bus.Since(0) {
		if e.Name == "anim:swing" {
			found = true
		}
	}
	if !found {
		t.Error("expected an anim:swing event once the attack clip reached frame 1")
	}
}

func TestAdvanceFrameTransitionsToNextOnNonLoopEnd(t *testing.T) {
	w := ecsworld.New()
	reg := NewRegistry()
	reg.Upsert(Graph{
		Name:    "hero",
		Default: "idle",
		States: map[string]Clip{
			"jump": {FrameCount: 1, FPS: 60, Loop: false, Next: "fall"},
			"fall": {FrameCount: 1, FPS: 60, Loop: true},
		},
	})
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetAnimation(id, ecsworld.Animation{GraphName: "hero", State: "jump", Explicit: true})

	for i := 0; i < 2; i++ {
		Update(w, reg, bus, 1.0/60, uint64(i))
	}

	anim, _ := w.Animation(id)
	if anim.State != "fall" {
		t.Errorf("a non-looping clip with Next set should transition, got %q", anim.State)
	}
}
