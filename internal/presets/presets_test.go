package presets

import (
	"testing"

	"github.com/axiom-sim/axiom/internal/ecsworld"
)

func TestRegistryUpsertGetNames(t *testing.T) {
	r := NewRegistry()
	r.Upsert(Preset{Name: "goblin"})
	r.Upsert(Preset{Name: "slime"})

	if _, ok := r.Get("goblin"); !ok {
		t.Fatal("expected goblin preset to be registered")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get of an unregistered preset should report false")
	}
	names := r.Names()
	if len(names) != 2 {
		t.Errorf("expected 2 registered names, got %v", names)
	}
}

func TestSpawnAttachesOnlyNonNilComponents(t *testing.T) {
	w := ecsworld.New()
	p := Preset{
		Name:     "goblin",
		Collider: &ecsworld.Collider{W: 10, H: 10},
		Tags:     []string{"enemy"},
		Health:   &ecsworld.Health{Current: 20, Max: 20},
	}
	id := Spawn(w, p, 5, 6)

	pos, _ := w.Position(id)
	if pos != (ecsworld.Position{X: 5, Y: 6}) {
		t.Errorf("Spawn should place the entity at the given coordinates, got %+v", pos)
	}
	if _, ok := w.Collider(id); !ok {
		t.Error("expected Collider to be attached")
	}
	tags, ok := w.Tags(id)
	if !ok || !tags.Has("enemy") {
		t.Error("expected the enemy tag to be attached")
	}
	if _, ok := w.JumperOf(id); ok {
		t.Error("a nil Jumper field should not attach a Jumper component")
	}
}

func TestSpawnWithHealthMarksAlive(t *testing.T) {
	w := ecsworld.New()
	p := Preset{Name: "boss", Health: &ecsworld.Health{Current: 100, Max: 100}}
	id := Spawn(w, p, 0, 0)

	alive, ok := w.IsAlive(id)
	if !ok || !alive.Value {
		t.Error("Spawn with a Health field should mark the entity alive")
	}
}

func TestSpawnScriptAndAnimGraph(t *testing.T) {
	w := ecsworld.New()
	p := Preset{Name: "npc", ScriptName: "guard.lua", AnimGraph: "npc_idle"}
	id := Spawn(w, p, 1, 1)

	script, ok := w.ScriptOf(id)
	if !ok || script.Name != "guard.lua" {
		t.Errorf("expected script name guard.lua, got %+v, %v", script, ok)
	}
	anim, ok := w.Animation(id)
	if !ok || anim.GraphName != "npc_idle" {
		t.Errorf("expected anim graph npc_idle, got %+v, %v", anim, ok)
	}
}
