package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
)

func TestReconstructFromWorkspace_noWorkspace(t *testing.T) {
	sess, err := ReconstructFromWorkspace(t.TempDir(), "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil for missing workspace, got %+v", sess)
	}
}

func TestReconstructFromWorkspace_prdOnly(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, "s1")
	if err := os.MkdirAll(ws, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ws, store.PRDFile), []byte("# PRD"), 0o644); err != nil {
		t.Fatalf("write prd: %v", err)
	}

	sess, err := ReconstructFromWorkspace(root, "s1")
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if sess == nil {
		t.Fatal("expected reconstructed session")
	}
	if sess.Stage != state.StageArchitect {
		t.Fatalf("expected stage architect with only a PRD present, got %v", sess.Stage)
	}
	if sess.PRDPath == "" {
		t.Fatal("expected PRDPath set")
	}
}

func TestReconstructFromWorkspace_fullyDone(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, "s1")
	st, err := store.New(ws)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if _, err := st.WriteText(store.PRDFile, "# PRD"); err != nil {
		t.Fatalf("write prd: %v", err)
	}
	if _, err := st.WriteText(store.DesignFile, "# Design"); err != nil {
		t.Fatalf("write design: %v", err)
	}
	if _, err := st.WriteTasks([]*state.Task{{ID: "t1", Status: state.TaskCompleted}}); err != nil {
		t.Fatalf("write tasks: %v", err)
	}

	sess, err := ReconstructFromWorkspace(root, "s1")
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if sess.Stage != state.StageDone {
		t.Fatalf("expected stage done with no pending tasks, got %v", sess.Stage)
	}
}

func TestReconstructFromWorkspace_codingInProgress(t *testing.T) {
	root := t.TempDir()
	ws := filepath.Join(root, "s1")
	st, err := store.New(ws)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	st.WriteText(store.PRDFile, "# PRD")
	st.WriteText(store.DesignFile, "# Design")
	st.WriteTasks([]*state.Task{{ID: "t1", Status: state.TaskPending}})

	sess, err := ReconstructFromWorkspace(root, "s1")
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if sess.Stage != state.StageCoding {
		t.Fatalf("expected stage coding with a pending task, got %v", sess.Stage)
	}
	if len(sess.Tasks) != 1 {
		t.Fatalf("expected tasks loaded, got %+v", sess.Tasks)
	}
}
