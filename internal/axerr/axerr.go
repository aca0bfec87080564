// Package axerr wraps every command-handling error in one of six kinds
// (Validation, NotFound, Conflict, ScriptError, Transient, Unavailable), so reply
// handlers in internal/api can pick an HTTP status by unwrapping to a kind
// rather than string-matching error messages. Grounded on
// github.com/pkg/errors, already an indirect fight-club-go dependency,
// promoted to direct use here.
package axerr

import "github.com/pkg/errors"

// Kind is one of error surface kinds. SimulationOutcome (§7.5)
// is deliberately absent: death/stuck/timed_out are reported in a
// simulate/scenario/playtest result body, never as an error.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindScriptError Kind = "script_error"
	KindTransient   Kind = "transient"

	// KindUnavailable is an AXIOM addition, not one of five: it
	// marks a Dispatcher constructed without a backend wired (Save/Sim/
	// Script nil, e.g. in a handler test), distinct from NotFound (which
	// means "backend present, entity absent").
	KindUnavailable Kind = "unavailable"
)

type kindedError struct {
	kind Kind
	err  error
}

func (e *kindedError) Error() string { return e.err.Error() }
func (e *kindedError) Cause() error  { return e.err }
func (e *kindedError) Unwrap() error { return e.err }

// New builds a fresh error tagged with kind.
func New(kind Kind, message string) error {
	return &kindedError{kind: kind, err: errors.New(message)}
}

// Wrap tags err with kind, preserving err's message as the cause chain via
// errors.Wrap so errors.Cause still reaches the original error. Returns nil
// if err is nil, matching errors.Wrap's own convention.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &kindedError{kind: kind, err: errors.Wrap(err, message)}
}

// KindOf walks err's Cause()/Unwrap() chain looking for the first axerr
// tag. Returns false if err was never tagged (a bare stdlib/pkg/errors
// error from third-party code, for instance).
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if ke, ok := err.(*kindedError); ok {
			return ke.kind, true
		}
		switch x := err.(type) {
		case interface{ Cause() error }:
			err = x.Cause()
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		default:
			return "", false
		}
	}
	return "", false
}
