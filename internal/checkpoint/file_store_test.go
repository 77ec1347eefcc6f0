package checkpoint

import (
	"testing"

	"github.com/gptmaas/autodev-agents/internal/state"
)

func TestFileStore_saveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	sess := state.New("s1", "build a widget", "/tmp/s1", true, false)
	sess.Stage = state.StageArchitect
	sess.Tasks = []*state.Task{{ID: "t1", Status: state.TaskPending}}

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected loaded session, got nil")
	}
	if loaded.SessionID != sess.SessionID || loaded.Stage != sess.Stage || loaded.Requirement != sess.Requirement {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, sess)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].ID != "t1" {
		t.Fatalf("expected tasks to round trip, got %+v", loaded.Tasks)
	}
}

func TestFileStore_loadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	sess, err := store.Load("does-not-exist")
	if err != nil {
		t.Fatalf("expected no error for missing session, got %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil for missing session, got %+v", sess)
	}
}

func TestFileStore_list(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	for _, id := range []string{"b", "a", "c"} {
		sess := state.New(id, "req", "/tmp/"+id, false, false)
		if err := store.Save(sess); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	summaries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].SessionID != "a" || summaries[1].SessionID != "b" || summaries[2].SessionID != "c" {
		t.Fatalf("expected sorted order, got %+v", summaries)
	}
}

func TestFileStore_delete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	sess := state.New("s1", "req", "/tmp/s1", false, false)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	loaded, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load after delete: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil after delete")
	}
	// Deleting again is a no-op, not an error.
	if err := store.Delete("s1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}
