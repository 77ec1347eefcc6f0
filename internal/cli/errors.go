package cli

import "github.com/gptmaas/autodev-agents/internal/autoerr"

// exitError carries the process exit code a command wants, separate from
// the error message the top-level Run prints. Commands that need a
// specific code (interrupted, unknown session, missing artifact) return
// one of these; everything else falls back to exit code 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }

// withExit wraps err so the top-level Run loop reports the given code.
func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an autoerr.Kind to the process exit code spec.md §7
// documents, for commands that fail before or outside a run (e.g.
// ConfigError at startup).
func exitCodeFor(err error) int {
	if kind, ok := autoerr.KindOf(err); ok {
		return autoerr.ExitCode(kind)
	}
	return 1
}
