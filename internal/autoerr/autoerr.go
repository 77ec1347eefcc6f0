// Package autoerr defines the error-kind taxonomy used across the engine.
//
// Every error that should influence the CLI's exit code or the orchestrator's
// propagation policy is wrapped in an *Error carrying one of the Kind
// constants below. Callers recover the kind with errors.As, never by string
// matching.
package autoerr

import (
	"errors"
	"fmt"
)

// Kind classifies why a node or the engine failed.
type Kind string

const (
	// Config covers missing API keys, bad paths, and other fail-fast
	// setup problems detected before any node runs.
	Config Kind = "config_error"
	// LLM covers a planner's model call failing or returning empty output.
	LLM Kind = "llm_error"
	// Worker covers a nonzero exit, timeout, or ambiguous classification
	// from the CLI worker adapter.
	Worker Kind = "worker_error"
	// Validation covers a malformed tasks.json or other artifact that
	// fails structural checks.
	Validation Kind = "validation_error"
	// State covers a checkpoint schema mismatch or an invariant violation
	// detected on load.
	State Kind = "state_error"
	// Abort covers a user-initiated cancellation; it is a no-op on the
	// engine side and carries no underlying cause.
	Abort Kind = "user_abort"
)

// Error wraps an underlying cause with the Kind that determines how the
// orchestrator and CLI respond to it.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind around an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error, and reports whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// ExitCode maps a Kind to the process exit code documented in spec.md §6.1
// and §7. Kinds outside the engine's own taxonomy (or no kind at all) map
// to the generic failure code 1.
func ExitCode(kind Kind) int {
	switch kind {
	case State:
		return 3
	case Config:
		return 1
	default:
		return 1
	}
}
