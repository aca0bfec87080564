package command

import (
	"github.com/axiom-sim/axiom/internal/axerr"
	"github.com/axiom-sim/axiom/internal/eventbus"
)

// startDialogue begins a named conversation registered via
// SetDialogueConversation, refusing a double-start (spec's "double-start
// dialogue" Conflict case) since only one conversation can own the UI at a
// time.
func (d *Dispatcher) startDialogue(args map[string]any) (any, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return nil, axerr.New(axerr.KindValidation, "start_dialogue requires a name")
	}
	if d.dialogueActive {
		return nil, ErrDialogueActive
	}
	conv, ok := d.Config.GetNamed(KindSetDialogueConversation, name)
	if !ok {
		return nil, ErrUnknownConversation
	}
	d.dialogueActive = true
	d.dialogueName = name
	d.Bus.Emit(eventbus.Event{Name: "dialogue_start", Frame: d.frameNow()})
	return conv, nil
}

// chooseDialogue records a choice index against the active conversation.
// The conversation stays active (and StartDialogue keeps refusing) until a
// choice carries an explicit "end" flag in args, which closes it out here.
func (d *Dispatcher) chooseDialogue(args map[string]any) (any, error) {
	if !d.dialogueActive {
		return nil, axerr.New(axerr.KindConflict, "choose_dialogue: no active dialogue")
	}
	choice, _ := args["choice"].(float64)
	d.Bus.Emit(eventbus.Event{Name: "dialogue_choice", Frame: d.frameNow(), Data: map[string]any{
		"conversation": d.dialogueName,
		"choice":       int(choice),
	}})
	if end, _ := args["end"].(bool); end {
		d.dialogueActive = false
		d.dialogueName = ""
	}
	return nil, nil
}
