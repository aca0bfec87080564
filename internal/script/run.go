package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/axiom-sim/axiom/internal/ecsworld"
	"github.com/axiom-sim/axiom/internal/eventbus"
	"github.com/axiom-sim/axiom/internal/telemetry"
)

// RunEntityScripts runs every entity's attached Script once (tick step
// 9, entity half), each under its own wall-clock deadline. A breach or
// runtime error is trapped into the error log; the tick continues with the
// next entity.
func (e *Engine) RunEntityScripts(w *ecsworld.World, bus *eventbus.Bus, input *inputSnapshot, dt float32, frame uint64) {
	for _, id := range w.AllIDs() {
		comp, ok := w.ScriptOf(id)
		if !ok {
			continue
		}
		e.mu.RLock()
		s, loaded := e.scripts[comp.Name]
		e.mu.RUnlock()
		if !loaded || s.arity != 3 {
			continue
		}
		e.runOne(s, w, bus, input, dt, frame, id, true)
	}
}

// RunGlobalScripts runs every script in the global set once (tick step 9,
// global half), under the longer global deadline.
func (e *Engine) RunGlobalScripts(w *ecsworld.World, bus *eventbus.Bus, input *inputSnapshot, dt float32, frame uint64) {
	for _, name := range e.GlobalNames() {
		e.mu.RLock()
		s, loaded := e.scripts[name]
		e.mu.RUnlock()
		if !loaded || s.arity != 2 {
			continue
		}
		e.runOne(s, w, bus, input, dt, frame, 0, false)
	}
}

func (e *Engine) runOne(s *loadedScript, w *ecsworld.World, bus *eventbus.Bus, input *inputSnapshot, dt float32, frame uint64, id ecsworld.NetworkId, hasEntity bool) {
	deadline := e.budgets.GlobalDeadline
	if hasEntity {
		deadline = e.budgets.EntityDeadline
	}

	L := e.pool.Get().(*lua.LState)
	defer func() {
		L.Close()
		if r := recover(); r != nil {
			telemetry.RecordScriptError()
			e.recordError(ScriptError{ScriptName: s.name, EntityID: uint64(id), HasEntity: hasEntity,
				Message: fmt.Sprintf("panic: %v", r), Frame: frame})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()
	L.SetContext(ctx)

	if err := L.DoString(s.source); err != nil {
		e.recordError(ScriptError{ScriptName: s.name, EntityID: uint64(id), HasEntity: hasEntity, Message: err.Error(), Frame: frame})
		return
	}

	worldTbl := bindWorldAPI(L, w, bus, frame, input)
	set := func(name string, fn lua.LGFunction) { L.SetField(worldTbl, name, L.NewFunction(fn)) }
	set("log", func(L *lua.LState) int {
		e.appendLog(s.name, L.CheckString(1))
		return 0
	})

	fnVal := L.GetGlobal("update")
	fn, ok := fnVal.(*lua.LFunction)
	if !ok {
		e.recordError(ScriptError{ScriptName: s.name, EntityID: uint64(id), HasEntity: hasEntity, Message: "update disappeared after reload", Frame: frame})
		return
	}

	var entTbl *lua.LTable
	args := []lua.LValue{}
	if hasEntity {
		entTbl = entityTable(L, w, id)
		args = append(args, entTbl)
	}
	args = append(args, worldTbl, lua.LNumber(dt))

	err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		msg := err.Error()
		if ctx.Err() != nil {
			msg = "budget exceeded: " + ctx.Err().Error()
			scope := "global"
			if hasEntity {
				scope = "entity"
			}
			telemetry.RecordScriptBudgetBreach(scope)
		}
		telemetry.RecordScriptError()
		e.recordError(ScriptError{ScriptName: s.name, EntityID: uint64(id), HasEntity: hasEntity, Message: msg, Frame: frame})
		return
	}

	if hasEntity {
		applyEntityTable(w, id, entTbl)
	}
}
