package command

import "github.com/axiom-sim/axiom/internal/axerr"

// ErrQueueFull is returned when the command queue is saturated; the control
// plane surfaces this as backpressure rather than blocking the tick loop
// (axerr.KindTransient).
var ErrQueueFull = axerr.New(axerr.KindTransient, "command queue full")

// ErrUnknownEntity is returned by any *-entity command given a NetworkId
// with no live entity (axerr.KindNotFound).
var ErrUnknownEntity = axerr.New(axerr.KindNotFound, "unknown entity")

// ErrNotImplemented marks a Dispatcher constructed without the backend a
// command needs (Save/Sim/Script left nil, as a handler test might do).
// Not one of five kinds — see axerr.KindUnavailable's doc.
var ErrNotImplemented = axerr.New(axerr.KindUnavailable, "command not wired to a handler")

// ErrDialogueActive is returned by StartDialogue when a conversation is
// already running (axerr.KindConflict); ChooseDialogue on an inactive
// session returns a separate axerr.KindConflict error instead.
var ErrDialogueActive = axerr.New(axerr.KindConflict, "dialogue already active")

// ErrUnknownConversation is returned by StartDialogue given a conversation
// name no SetDialogueConversation call ever defined (axerr.KindNotFound).
var ErrUnknownConversation = axerr.New(axerr.KindNotFound, "unknown dialogue conversation")

// ErrPoolNotRegistered is returned by AcquireFromPool/ReleaseToPool/
// GetPoolStatus given a name InitPool never registered (axerr.KindNotFound).
var ErrPoolNotRegistered = axerr.New(axerr.KindNotFound, "pool not registered")

// ErrPoolExhausted is returned by AcquireFromPool when every instance in
// the named pool is already on loan (axerr.KindConflict).
var ErrPoolExhausted = axerr.New(axerr.KindConflict, "pool exhausted")

// ErrUnknownCutscene is returned by PlayCutscene given a name no
// DefineCutscene call ever registered (axerr.KindNotFound).
var ErrUnknownCutscene = axerr.New(axerr.KindNotFound, "unknown cutscene")
