package script

import (
	"strings"
	"testing"
	"time"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

func testBudgets() Budgets {
	return Budgets{
		EntityDeadline: 50 * time.Millisecond,
		GlobalDeadline: 50 * time.Millisecond,
		MaxOperations:  500_000,
		HookInterval:   10_000,
		MaxCallLevels:  64,
	}
}

func TestLoadScriptRejectsMissingUpdate(t *testing.T) {
	e := New(testBudgets())
	err := e.LoadScript("bad", "local x = 1")
	if err == nil {
		t.Fatal("expected an error for a script with no update function")
	}
	if _, ok := e.GetScript("bad"); ok {
		t.Error("a script that failed validation should not be installed")
	}
	if len(e.ScriptErrors("bad")) == 0 {
		t.Error("expected the validation failure to be recorded in the error log")
	}
}

func TestLoadScriptRejectsWrongArity(t *testing.T) {
	e := New(testBudgets())
	err := e.LoadScript("bad_arity", "function update() end")
	if err == nil {
		t.Fatal("expected an error for an update function with 0 params")
	}
}

func TestLoadScriptGlobalAndEntityArities(t *testing.T) {
	e := New(testBudgets())
	if err := e.LoadScript("global_one", "function update(world, dt) end"); err != nil {
		t.Fatalf("LoadScript(global): %v", err)
	}
	if err := e.LoadScript("entity_one", "function update(entity, world, dt) end"); err != nil {
		t.Fatalf("LoadScript(entity): %v", err)
	}
	src, ok := e.GetScript("global_one")
	if !ok || !strings.Contains(src, "function update") {
		t.Errorf("GetScript should return the installed source, got %q, %v", src, ok)
	}
}

func TestListAndDeleteScript(t *testing.T) {
	e := New(testBudgets())
	e.LoadScript("a", "function update(world, dt) end")
	e.LoadScript("b", "function update(world, dt) end")

	names := e.ListScripts()
	if len(names) != 2 {
		t.Fatalf("expected 2 scripts listed, got %v", names)
	}
	if !e.DeleteScript("a") {
		t.Error("DeleteScript should report true for an installed script")
	}
	if e.DeleteScript("a") {
		t.Error("DeleteScript should report false the second time")
	}
	if len(e.ListScripts()) != 1 {
		t.Errorf("expected 1 script remaining after delete, got %v", e.ListScripts())
	}
}

func TestRegisterGlobalSurvivesReload(t *testing.T) {
	e := New(testBudgets())
	e.LoadScript("g", "function update(world, dt) end")
	if !e.RegisterGlobal("g") {
		t.Fatal("RegisterGlobal should succeed for an installed script")
	}
	if names := e.GlobalNames(); len(names) != 1 || names[0] != "g" {
		t.Fatalf("expected g in the global set, got %v", names)
	}
	e.LoadScript("g", "function update(world, dt) end")
	if names := e.GlobalNames(); len(names) != 1 {
		t.Errorf("a reload should preserve global status, got %v", names)
	}
	e.UnregisterGlobal("g")
	if len(e.GlobalNames()) != 0 {
		t.Error("UnregisterGlobal should remove the script from the global set")
	}
}

func TestTestScriptDoesNotInstall(t *testing.T) {
	e := New(testBudgets())
	if err := e.TestScript("dry", "function update(world, dt) end"); err != nil {
		t.Fatalf("TestScript with a valid script should not error: %v", err)
	}
	if _, ok := e.GetScript("dry"); ok {
		t.Error("TestScript should be a dry run and not install the script")
	}
}

func TestRunGlobalScriptSetsVar(t *testing.T) {
	e := New(testBudgets())
	w := ecsworld.New()
	bus := eventbus.New()

	src := `function update(world, dt) world.set_var("touched", true) end`
	if err := e.LoadScript("setter", src); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	e.RegisterGlobal("setter")

	e.RunGlobalScripts(w, bus, nil, 1.0/60, 1)

	v, ok := w.GetVar("touched")
	if !ok || v != true {
		t.Errorf("expected world var touched=true after the global script ran, got %v, %v", v, ok)
	}
}

func TestRunEntityScriptMutatesEntityTable(t *testing.T) {
	e := New(testBudgets())
	w := ecsworld.New()
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{X: 0, Y: 0})
	w.SetVelocity(id, ecsworld.Velocity{})
	w.SetScript(id, ecsworld.Script{Name: "mover"})

	src := `function update(entity, world, dt) entity.x = entity.x + 10 end`
	if err := e.LoadScript("mover", src); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	e.RunEntityScripts(w, bus, nil, 1.0/60, 1)

	pos, _ := w.Position(id)
	if pos.X != 10 {
		t.Errorf("expected entity x to be mutated to 10, got %v", pos.X)
	}
}

func TestRunEntityScriptRuntimeErrorIsTrapped(t *testing.T) {
	e := New(testBudgets())
	w := ecsworld.New()
	bus := eventbus.New()

	id := w.Spawn(ecsworld.Position{})
	w.SetScript(id, ecsworld.Script{Name: "broken"})
	e.LoadScript("broken", `function update(entity, world, dt) error("boom") end`)

	e.RunEntityScripts(w, bus, nil, 1.0/60, 5)

	errs := e.ScriptErrors("broken")
	if len(errs) == 0 {
		t.Fatal("expected the runtime error to be recorded")
	}
	if !strings.Contains(errs[0], "boom") {
		t.Errorf("expected the error message to mention the Lua error, got %q", errs[0])
	}
}

func TestRunGlobalScriptBudgetBreachIsRecorded(t *testing.T) {
	tight := testBudgets()
	tight.GlobalDeadline = time.Millisecond
	e := New(tight)
	w := ecsworld.New()
	bus := eventbus.New()

	src := `function update(world, dt) local i = 0 while true do i = i + 1 end end`
	e.LoadScript("spin", src)
	e.RegisterGlobal("spin")

	e.RunGlobalScripts(w, bus, nil, 1.0/60, 1)

	errs := e.ScriptErrors("spin")
	if len(errs) == 0 {
		t.Fatal("expected a budget breach error for an infinite loop")
	}
}

func TestScriptLogsCapturesWorldLog(t *testing.T) {
	e := New(testBudgets())
	w := ecsworld.New()
	bus := eventbus.New()

	e.LoadScript("logger", `function update(world, dt) world.log("hello") end`)
	e.RegisterGlobal("logger")
	e.RunGlobalScripts(w, bus, nil, 1.0/60, 1)

	logs := e.ScriptLogs("logger")
	if len(logs) != 1 || logs[0] != "hello" {
		t.Errorf("expected one captured log line \"hello\", got %v", logs)
	}
}

func TestScriptStatsReportsArityAndGlobalFlag(t *testing.T) {
	e := New(testBudgets())
	e.LoadScript("s", "function update(world, dt) end")
	e.RegisterGlobal("s")

	stats, ok := e.ScriptStats("s")
	if !ok {
		t.Fatal("expected stats for an installed script")
	}
	m := stats.(map[string]any)
	if m["arity"] != 2 || m["is_global"] != true {
		t.Errorf("unexpected stats: %+v", m)
	}
}

func TestFlattenNestedAPICalls(t *testing.T) {
	src := `world.camera.shake(1, 2)
world.ui.show_screen("pause")
world.dialogue.start("intro")`
	got := flattenNestedAPICalls(src)
	for _, want := range []string{"world.camera_shake(1, 2)", "world.show_screen(\"pause\")", "world.start(\"intro\")"} {
		if !strings.Contains(got, want) {
			t.Errorf("flattenNestedAPICalls output missing %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "world.camera.") {
		t.Error("dotted camera namespace should be fully rewritten")
	}
}

func TestDefaultBudgetsFallsBackWhenUnset(t *testing.T) {
	b := DefaultBudgets()
	if b.MaxOperations != 500_000 {
		t.Errorf("expected default MaxOperations 500000, got %d", b.MaxOperations)
	}
	if b.EntityDeadline != 8*time.Millisecond {
		t.Errorf("expected default entity deadline 8ms, got %v", b.EntityDeadline)
	}
}

func TestErrorLogWrapsAtCapacity(t *testing.T) {
	var l errorLog
	for i := 0; i < errorLogCapacity+10; i++ {
		l.push(ScriptError{ScriptName: "x", Message: "e"})
	}
	if len(l.All()) != errorLogCapacity {
		t.Errorf("errorLog should cap at %d entries, got %d", errorLogCapacity, len(l.All()))
	}
}
