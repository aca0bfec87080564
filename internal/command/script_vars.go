package command

import (
	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/ecsworld"
)

// getScriptVars echoes the global script-variable table World.Vars()
// already custodies for save/load, now reachable without a full
// GetSaveData round trip.
func (d *Dispatcher) getScriptVars(args map[string]any) (any, error) {
	return d.World.Vars(), nil
}

// setScriptVars replaces the global script-variable table wholesale.
func (d *Dispatcher) setScriptVars(args map[string]any) (any, error) {
	vars, ok := args["vars"].(map[string]any)
	if !ok {
		return nil, axerr.New(axerr.KindValidation, "set_script_vars requires a vars object")
	}
	d.World.SetVars(vars)
	return nil, nil
}

// getScriptEvents filters the event log down to events a given script
// entity raised, since the event bus itself is entity-agnostic and keeps
// no per-script index.
func (d *Dispatcher) getScriptEvents(args map[string]any) (any, error) {
	name, _ := args["script"].(string)
	since, _ := args["since"].(float64)

	events := d.Bus.Since(uint64(since))
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		if !e.HasSource {
			continue
		}
		s, ok := d.World.ScriptOf(ecsworld.NetworkId(e.SourceEntity))
		if !ok || (name != "" && s.Name != name) {
			continue
		}
		out = append(out, map[string]any{
			"name":  e.Name,
			"frame": e.Frame,
			"data":  e.Data,
		})
	}
	return out, nil
}
