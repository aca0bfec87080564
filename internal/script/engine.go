// Package script implements the sandboxed entity/global script VM on top
// of github.com/yuin/gopher-lua, pooling *lua.LState the same way
// other_examples' wildspark-backend script_engine.go does
// (sync.Pool{New: func() any { return lua.NewState(...) }}), generalized
// from that engine's physics-object API to AXIOM's ECS world.
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/axiom-sim/axiom/internal/axerr"
)

// loadedScript is one compiled-and-validated script: source is kept so a
// fresh *lua.LState (from the pool) can re-run DoString against it every
// tick, since gopher-lua states aren't safely reusable across goroutines
// and re-parsing a few hundred lines of Lua is cheap next to the 8/20ms
// budgets anyway.
type loadedScript struct {
	name     string
	source   string // post flatten, pre-parse
	arity    int
	isGlobal bool
}

// Engine owns every loaded script, the LState pool, and the bounded error
// log. One Engine per running simulation.
type Engine struct {
	mu      sync.RWMutex
	scripts map[string]*loadedScript
	pool    sync.Pool
	budgets Budgets
	errs    errorLog
	logs    map[string][]string
}

// New builds an Engine with a fresh LState pool sized by budgets.MaxCallLevels.
func New(budgets Budgets) *Engine {
	e := &Engine{
		scripts: make(map[string]*loadedScript),
		budgets: budgets,
		logs:    make(map[string][]string),
	}
	e.pool = sync.Pool{
		New: func() any {
			return lua.NewState(lua.Options{
				CallStackSize:       budgets.MaxCallLevels,
				RegistrySize:        1024 * 20,
				SkipOpenLibs:        false,
				IncludeGoStackTrace: false,
			})
		},
	}
	return e
}

// LoadScript validates then installs a script under name. A script already
// marked global (via RegisterGlobal) keeps that status across a reload.
func (e *Engine) LoadScript(name, source string) error {
	flattened := flattenNestedAPICalls(source)
	arity, err := validate(flattened)
	if err != nil {
		e.mu.Lock()
		e.errs.push(ScriptError{ScriptName: name, Message: err.Error()})
		e.mu.Unlock()
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	isGlobal := false
	if existing, ok := e.scripts[name]; ok {
		isGlobal = existing.isGlobal
	}
	e.scripts[name] = &loadedScript{name: name, source: flattened, arity: arity, isGlobal: isGlobal}
	return nil
}

// TestScript dry-run validates source under name without installing it
// (TestScript command).
func (e *Engine) TestScript(name, source string) error {
	_, err := validate(flattenNestedAPICalls(source))
	if err != nil {
		e.mu.Lock()
		e.errs.push(ScriptError{ScriptName: name, Message: err.Error()})
		e.mu.Unlock()
	}
	return err
}

// validate compiles source in a throwaway LState and checks a correctly-
// shaped `update` global exists. Returns update's declared arity (2 for a
// global script's `update(world, dt)`, 3 for an entity script's
// `update(entity, world, dt)`).
func validate(source string) (int, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	defer L.Close()
	if err := L.DoString(source); err != nil {
		return 0, axerr.Wrap(axerr.KindScriptError, err, "script: compile error")
	}
	fnVal := L.GetGlobal("update")
	fn, ok := fnVal.(*lua.LFunction)
	if !ok {
		return 0, axerr.New(axerr.KindScriptError, "script: missing update function")
	}
	arity := fn.Proto.NumParameters
	if arity != 2 && arity != 3 {
		return 0, axerr.New(axerr.KindScriptError, fmt.Sprintf("script: update must take (world, dt) or (entity, world, dt), got %d params", arity))
	}
	return arity, nil
}

// RegisterGlobal marks name as a global script.
func (e *Engine) RegisterGlobal(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.scripts[name]
	if !ok {
		return false
	}
	s.isGlobal = true
	return true
}

// UnregisterGlobal removes name from the global set without unloading it.
func (e *Engine) UnregisterGlobal(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.scripts[name]; ok {
		s.isGlobal = false
	}
}

// DeleteScript unloads name entirely.
func (e *Engine) DeleteScript(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.scripts[name]; !ok {
		return false
	}
	delete(e.scripts, name)
	return true
}

// GetScript returns the flattened source installed under name.
func (e *Engine) GetScript(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.scripts[name]
	if !ok {
		return "", false
	}
	return s.source, true
}

// ListScripts returns every loaded script name.
func (e *Engine) ListScripts() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.scripts))
	for name := range e.scripts {
		out = append(out, name)
	}
	return out
}

// GlobalNames returns every script currently in the global set, used by
// RunGlobalScripts.
func (e *Engine) GlobalNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []string
	for name, s := range e.scripts {
		if s.isGlobal {
			out = append(out, name)
		}
	}
	return out
}

// ScriptErrors returns every buffered error for name.
func (e *Engine) ScriptErrors(name string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	errs := e.errs.forScript(name)
	out := make([]string, 0, len(errs))
	for _, er := range errs {
		out = append(out, er.Message)
	}
	return out
}

// ScriptStats reports basic bookkeeping for the GetScriptStats command.
func (e *Engine) ScriptStats(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.scripts[name]
	if !ok {
		return nil, false
	}
	return map[string]any{
		"name":      s.name,
		"arity":     s.arity,
		"is_global": s.isGlobal,
		"errors":    len(e.errs.forScript(name)),
	}, true
}

// ScriptLogs returns every world.log(...) line captured for name.
func (e *Engine) ScriptLogs(name string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.logs[name]...)
}

func (e *Engine) appendLog(name, line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	const cap = 200
	logs := append(e.logs[name], line)
	if len(logs) > cap {
		logs = logs[len(logs)-cap:]
	}
	e.logs[name] = logs
}

func (e *Engine) recordError(se ScriptError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs.push(se)
}

// AllErrors returns every buffered error across all scripts, for the
// /scripts/errors endpoint.
func (e *Engine) AllErrors() []ScriptError {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errs.All()
}
