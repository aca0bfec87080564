package command

import (
	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/runtimestate"
)

func (d *Dispatcher) frameNow() uint64 {
	if d.Frame != nil {
		return d.Frame()
	}
	return 0
}

// setRuntimeState drives the runtime-wide Playing/Paused/Cutscene/Menu
// machine (component L) — the only external way to move it, since nothing
// in the tick loop transitions it on its own.
func (d *Dispatcher) setRuntimeState(args map[string]any) (any, error) {
	name, _ := args["state"].(string)
	target, ok := runtimestate.ParseState(name)
	if !ok {
		return nil, axerr.New(axerr.KindValidation, "set_runtime_state: unknown state "+name)
	}
	if !d.Runtime.Transition(target, d.frameNow()) {
		return nil, axerr.New(axerr.KindConflict, "set_runtime_state: transition to "+name+" rejected")
	}
	return map[string]any{"state": target.String()}, nil
}

// playCutscene looks up a DefineCutscene-registered definition by name and
// transitions the runtime into Cutscene, gating tick steps 4-9 until
// StopCutscene (or another SetRuntimeState) returns it to Playing.
func (d *Dispatcher) playCutscene(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return nil, axerr.New(axerr.KindValidation, "play_cutscene requires a name")
	}
	if _, ok := d.Config.GetNamed(KindDefineCutscene, name); !ok {
		return nil, ErrUnknownCutscene
	}
	if !d.Runtime.Transition(runtimestate.Cutscene, d.frameNow()) {
		return nil, axerr.New(axerr.KindConflict, "play_cutscene: transition rejected")
	}
	d.activeCutscene = name
	return nil, nil
}

// stopCutscene returns the runtime to Playing and clears the active
// cutscene name.
func (d *Dispatcher) stopCutscene(args map[string]any) (any, error) {
	d.Runtime.Transition(runtimestate.Playing, d.frameNow())
	d.activeCutscene = ""
	return nil, nil
}
