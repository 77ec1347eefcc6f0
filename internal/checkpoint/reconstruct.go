package checkpoint

import (
	"os"
	"path/filepath"

	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
)

// ReconstructFromWorkspace rebuilds a Session from the artifact files
// present under <workspaceRoot>/<sessionID> when no checkpoint record
// exists for the session. This is an additional resume path, not a
// replacement for the checkpoint: callers use it only after Store.Load
// returns a nil session, so an unreadable record (a Load error) is not
// reconstructed (spec_full.md §3.1 supplement, grounded on
// original_source/src/core/state.py's reconstruction-from-workspace
// logic, referenced from original_source/src/core/graph.py).
//
// It returns (nil, nil) when no workspace directory exists for sessionID,
// so callers can tell "nothing to reconstruct" apart from a real error.
func ReconstructFromWorkspace(workspaceRoot, sessionID string) (*state.Session, error) {
	ws := filepath.Join(workspaceRoot, sessionID)
	info, err := os.Stat(ws)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	st, err := store.New(ws)
	if err != nil {
		return nil, err
	}

	sess := state.New(sessionID, "", ws, false, false)
	sess.Stage = state.StagePMDraft

	if st.Exists(store.PRDFile) {
		path, err := st.Path(store.PRDFile)
		if err != nil {
			return nil, err
		}
		sess.PRDPath = path
		sess.Stage = state.StageArchitect
	}

	if st.Exists(store.PRDReviewsFile) {
		path, err := st.Path(store.PRDReviewsFile)
		if err != nil {
			return nil, err
		}
		sess.ReviewsPath = path
	}

	if st.Exists(store.DesignFile) && st.Exists(store.TasksFile) {
		designPath, err := st.Path(store.DesignFile)
		if err != nil {
			return nil, err
		}
		tasksPath, err := st.Path(store.TasksFile)
		if err != nil {
			return nil, err
		}
		tasks, err := st.ReadTasks()
		if err != nil {
			return nil, err
		}
		sess.DesignPath = designPath
		sess.TasksPath = tasksPath
		sess.Tasks = tasks
		sess.Stage = state.StageCoding
		sess.CurrentTaskIndex = state.TerminalCount(tasks)
		if !state.AnyPending(tasks) {
			sess.Stage = state.StageDone
		}
	}

	return sess, nil
}
