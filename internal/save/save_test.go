package save

import (
	"encoding/json"
	"testing"

	"github.com/axiom-sim/axiom/internal/animation"
	"github.com/axiom-sim/axiom/internal/command"
	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/presets"
	"github.com/axiom-sim/axiom/internal/script"
	"github.com/axiom-sim/axiom/internal/tilemap"
)

func newTestModel() (*Model, *ecsworld.World) {
	w := ecsworld.New()
	var tm *tilemap.Tilemap
	m := &Model{
		World:     w,
		Tilemap:   &tm,
		Presets:   presets.NewRegistry(),
		AnimReg:   animation.NewRegistry(),
		Scripts:   script.New(script.DefaultBudgets()),
		Config:    command.NewConfigStore(),
		GameState: func() string { return "playing" },
	}
	return m, w
}

func TestExportRoundTripsEntityFields(t *testing.T) {
	m, w := newTestModel()
	id := w.Spawn(ecsworld.Position{X: 5, Y: 6})
	w.SetVelocity(id, ecsworld.Velocity{X: 1, Y: 2})
	w.AddTag(id, "enemy")
	w.SetHealth(id, ecsworld.Health{Current: 8, Max: 10})
	w.SetAlive(id, ecsworld.Alive{Value: true})

	raw, err := m.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data := raw.(SaveGameData)
	if len(data.Entities) != 1 {
		t.Fatalf("expected 1 exported entity, got %d", len(data.Entities))
	}
	se := data.Entities[0]
	if se.Position.X != 5 || se.Position.Y != 6 {
		t.Errorf("expected exported position (5,6), got %+v", se.Position)
	}
	if se.Velocity.X != 1 || se.Velocity.Y != 2 {
		t.Errorf("expected exported velocity (1,2), got %+v", se.Velocity)
	}
	if len(se.Tags) != 1 || se.Tags[0] != "enemy" {
		t.Errorf("expected exported tags [enemy], got %v", se.Tags)
	}
	if se.Health == nil || se.Health.Current != 8 {
		t.Errorf("expected exported health current=8, got %+v", se.Health)
	}
	if !se.Alive {
		t.Error("expected exported entity to be marked alive")
	}
	if data.Version != FormatVersion {
		t.Errorf("expected version %d, got %d", FormatVersion, data.Version)
	}
	if data.GameState != "playing" {
		t.Errorf("expected game_state playing, got %q", data.GameState)
	}
}

func TestExportIncludesScriptsAndGlobals(t *testing.T) {
	m, _ := newTestModel()
	m.Scripts.LoadScript("a", "function update(world, dt) end")
	m.Scripts.RegisterGlobal("a")

	raw, err := m.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data := raw.(SaveGameData)
	if _, ok := data.Scripts["a"]; !ok {
		t.Error("expected script 'a' source in the exported save data")
	}
	if len(data.GlobalScripts) != 1 || data.GlobalScripts[0] != "a" {
		t.Errorf("expected global_scripts [a], got %v", data.GlobalScripts)
	}
}

func TestExportIncludesAnimationGraphsAndPresetNames(t *testing.T) {
	m, _ := newTestModel()
	m.AnimReg.Upsert(animation.Graph{Name: "hero", Default: "idle"})
	m.Presets.Upsert(presets.Preset{Name: "goblin"})

	raw, _ := m.Export()
	data := raw.(SaveGameData)
	if _, ok := data.AnimationGraphs["hero"]; !ok {
		t.Error("expected hero graph in exported animation_graphs")
	}
	if len(data.PresetNames) != 1 || data.PresetNames[0] != "goblin" {
		t.Errorf("expected preset_names [goblin], got %v", data.PresetNames)
	}
}

func TestImportRestoresEntitiesPreservingNetworkID(t *testing.T) {
	m, w := newTestModel()
	original := w.Spawn(ecsworld.Position{X: 1, Y: 1})
	w.SetHealth(original, ecsworld.Health{Current: 5, Max: 10})
	raw, _ := m.Export()
	data := raw.(SaveGameData)

	m2, w2 := newTestModel()
	if err := m2.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !w2.Alive(original) {
		t.Fatalf("expected entity %d to be respawned with its original id", original)
	}
	h, ok := w2.Health(original)
	if !ok || h.Current != 5 {
		t.Errorf("expected restored health current=5, got %+v, %v", h, ok)
	}
}

func TestImportClearsPriorWorldState(t *testing.T) {
	m, w := newTestModel()
	stale := w.Spawn(ecsworld.Position{})

	m2, _ := newTestModel()
	raw, _ := m2.Export() // empty world
	data := raw.(SaveGameData)

	if err := m.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if w.Alive(stale) {
		t.Error("Import should clear pre-existing entities via ResetLevel")
	}
}

func TestImportFromJSONBytes(t *testing.T) {
	m, w := newTestModel()
	w.Spawn(ecsworld.Position{X: 2, Y: 3})
	raw, _ := m.Export()
	encoded, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	m2, w2 := newTestModel()
	if err := m2.Import(encoded); err != nil {
		t.Fatalf("Import([]byte): %v", err)
	}
	if len(w2.AllIDs()) != 1 {
		t.Errorf("expected 1 restored entity from JSON bytes, got %d", len(w2.AllIDs()))
	}
}

func TestImportRestoresScriptsAndGlobalSet(t *testing.T) {
	m, _ := newTestModel()
	m.Scripts.LoadScript("s", "function update(world, dt) end")
	m.Scripts.RegisterGlobal("s")
	raw, _ := m.Export()
	data := raw.(SaveGameData)

	m2, _ := newTestModel()
	if err := m2.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, ok := m2.Scripts.GetScript("s"); !ok {
		t.Error("expected script 's' to be reloaded on import")
	}
	if names := m2.Scripts.GlobalNames(); len(names) != 1 || names[0] != "s" {
		t.Errorf("expected global set restored to [s], got %v", names)
	}
}
