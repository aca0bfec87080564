package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

// bindWorldAPI installs the flat `world.*` namespace as native
// Go closures on L, following fight-club-go-adjacent wildspark-backend
// script_engine.go's `register(name, fn)` + `L.SetGlobal` shape
// (_examples/other_examples/...script_engine.go.go), generalized from its
// physics-object API to AXIOM's ECS world.
func bindWorldAPI(L *lua.LState, w *ecsworld.World, bus *eventbus.Bus, frame uint64, input *inputSnapshot) *lua.LTable {
	worldTbl := L.NewTable()

	set := func(name string, fn lua.LGFunction) {
		L.SetField(worldTbl, name, L.NewFunction(fn))
	}

	set("get_var", func(L *lua.LState) int {
		name := L.CheckString(1)
		v, ok := w.GetVar(name)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(goToLua(L, v))
		return 1
	})

	set("set_var", func(L *lua.LState) int {
		name := L.CheckString(1)
		v := L.CheckAny(2)
		w.SetVar(name, luaToGo(v))
		return 0
	})

	set("emit", func(L *lua.LState) int {
		name := L.CheckString(1)
		var data map[string]any
		if L.GetTop() >= 2 {
			if tbl, ok := L.CheckAny(2).(*lua.LTable); ok {
				data, _ = luaToGo(tbl).(map[string]any)
			}
		}
		bus.Emit(eventbus.Event{Name: name, Frame: frame, Data: data})
		return 0
	})

	set("spawn_entity", func(L *lua.LState) int {
		spec, _ := luaToGo(L.CheckTable(1)).(map[string]any)
		x, _ := spec["x"].(float64)
		y, _ := spec["y"].(float64)
		id := w.Spawn(ecsworld.Position{X: float32(x), Y: float32(y)})
		L.Push(lua.LNumber(id))
		return 1
	})

	set("despawn", func(L *lua.LState) int {
		id := ecsworld.NetworkId(L.CheckNumber(1))
		L.Push(lua.LBool(w.Despawn(id)))
		return 1
	})

	set("entities_with_tag", func(L *lua.LState) int {
		tag := L.CheckString(1)
		out := L.NewTable()
		i := 1
		for _, id := range w.AllIDs() {
			tags, ok := w.Tags(id)
			if ok && tags.Has(tag) {
				out.RawSetInt(i, lua.LNumber(id))
				i++
			}
		}
		L.Push(out)
		return 1
	})

	set("entity", func(L *lua.LState) int {
		id := ecsworld.NetworkId(L.CheckNumber(1))
		if !w.Alive(id) {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(entityTable(L, w, id))
		return 1
	})

	set("pressed", func(L *lua.LState) int {
		action := L.CheckString(1)
		L.Push(lua.LBool(input.pressed(action)))
		return 1
	})

	set("just_pressed", func(L *lua.LState) int {
		action := L.CheckString(1)
		L.Push(lua.LBool(input.justPressed(action)))
		return 1
	})

	// Presentation-adjacent calls (camera/UI/audio/flow): the simulation
	// doesn't interpret these — rendering/audio/UI are explicit non-goal
	// sinks — it just bus-emits them so a consumer that does
	// render can react, the same custody-not-interpretation stance
	// internal/command/config.go takes for the equivalent commands.
	for _, name := range []string{"camera_shake", "camera_look_at", "camera_zoom",
		"play_sfx", "play_music", "transition", "pause", "resume",
		"show_screen", "hide_screen", "set_text", "set_progress", "start", "choose"} {
		name := name
		set(name, func(L *lua.LState) int {
			args := make([]any, 0, L.GetTop())
			for i := 1; i <= L.GetTop(); i++ {
				args = append(args, luaToGo(L.CheckAny(i)))
			}
			bus.Emit(eventbus.Event{Name: "script:" + name, Frame: frame, Data: map[string]any{"args": args}})
			return 0
		})
	}

	return worldTbl
}

// entityTable builds the `entity` value scripts read/write: a plain Lua
// table pre-populated with current component values (x/y/vx/vy/health/
// grounded/tags/...). Mutations are written back to w by applyEntityTable
// after the call returns.
func entityTable(L *lua.LState, w *ecsworld.World, id ecsworld.NetworkId) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(id))
	if pos, ok := w.Position(id); ok {
		t.RawSetString("x", lua.LNumber(pos.X))
		t.RawSetString("y", lua.LNumber(pos.Y))
	}
	if vel, ok := w.Velocity(id); ok {
		t.RawSetString("vx", lua.LNumber(vel.X))
		t.RawSetString("vy", lua.LNumber(vel.Y))
	}
	if h, ok := w.Health(id); ok {
		t.RawSetString("health", lua.LNumber(h.Current))
		t.RawSetString("max_health", lua.LNumber(h.Max))
	}
	if g, ok := w.Grounded(id); ok {
		t.RawSetString("grounded", lua.LBool(g.Value))
	}
	if a, ok := w.IsAlive(id); ok {
		t.RawSetString("alive", lua.LBool(a.Value))
	}
	if tags, ok := w.Tags(id); ok {
		tagsTbl := L.NewTable()
		i := 1
		for tag := range tags.Set {
			tagsTbl.RawSetInt(i, lua.LString(tag))
			i++
		}
		t.RawSetString("tags", tagsTbl)
	}
	return t
}

// applyEntityTable writes back the mutable fields a script may have
// changed on its entity table.
func applyEntityTable(w *ecsworld.World, id ecsworld.NetworkId, t *lua.LTable) {
	if !w.Alive(id) {
		return
	}
	pos, hasPos := w.Position(id)
	if hasPos {
		pos.X = float32(numField(t, "x", float64(pos.X)))
		pos.Y = float32(numField(t, "y", float64(pos.Y)))
		w.SetPosition(id, pos)
	}
	if vel, ok := w.Velocity(id); ok {
		vel.X = float32(numField(t, "vx", float64(vel.X)))
		vel.Y = float32(numField(t, "vy", float64(vel.Y)))
		w.SetVelocity(id, vel)
	}
	if h, ok := w.Health(id); ok {
		h.Current = float32(numField(t, "health", float64(h.Current)))
		w.SetHealth(id, h)
	}
}

func numField(t *lua.LTable, name string, def float64) float64 {
	v := t.RawGetString(name)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// inputSnapshot is the virtual-button state world.pressed/just_pressed
// read from, supplied by the scheduler each tick from the virtual-button
// maps SetInputButton maintains (this tick's and the prior tick's held
// state).
type inputSnapshot struct {
	current, previous map[string]bool
}

func (s *inputSnapshot) pressed(action string) bool {
	if s == nil {
		return false
	}
	return s.current[action]
}

func (s *inputSnapshot) justPressed(action string) bool {
	if s == nil {
		return false
	}
	return s.current[action] && !s.previous[action]
}

// NewInputSnapshot builds a snapshot pair for a single tick's script run.
func NewInputSnapshot(current, previous map[string]bool) *inputSnapshot {
	return &inputSnapshot{current: current, previous: previous}
}
