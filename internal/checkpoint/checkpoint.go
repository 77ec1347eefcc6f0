// Package checkpoint provides session state persistence for crash
// recovery and resume. A Store maps session_id to a serialized
// state.Session; spec.md §4.2 requires atomic writes and a version tag
// on the record so schema changes are forward-compatible.
package checkpoint

import (
	"fmt"

	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/state"
)

// Summary is the line of information list-sessions needs per session,
// without loading the full state.
type Summary struct {
	SessionID string
	Stage     state.Stage
	CreatedAt string
}

// Store is the key/value checkpoint interface spec.md §4.2 names:
// list, load, save, delete.
type Store interface {
	Save(sess *state.Session) error
	Load(sessionID string) (*state.Session, error)
	List() ([]Summary, error)
	Delete(sessionID string) error
	Close() error
}

// CheckVersion rejects a loaded record whose schema version does not
// match what this binary understands, per spec.md §7's StateError:
// "Checkpoint schema mismatch... Refuse to resume; exit 3."
func CheckVersion(sess *state.Session) error {
	if sess.Version != state.CurrentVersion {
		return autoerr.New(autoerr.State,
			fmt.Sprintf("checkpoint version %q is not supported (expected %q)", sess.Version, state.CurrentVersion))
	}
	return nil
}
