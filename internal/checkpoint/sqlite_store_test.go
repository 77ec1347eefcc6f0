package checkpoint

import (
	"testing"

	"github.com/gptmaas/autodev-agents/internal/state"
)

func TestSQLiteStore_saveLoadRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	sess := state.New("s1", "build a widget", "/tmp/s1", false, true)
	sess.Stage = state.StageCoding

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.Stage != state.StageCoding || loaded.BatchCoding != true {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSQLiteStore_upsert(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	sess := state.New("s1", "req", "/tmp/s1", false, false)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	sess.Stage = state.StageDone
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	summaries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected exactly one row after upsert, got %d", len(summaries))
	}
	if summaries[0].Stage != state.StageDone {
		t.Fatalf("expected updated stage, got %v", summaries[0].Stage)
	}
}

func TestSQLiteStore_deleteAndMissing(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	loaded, err := store.Load("nope")
	if err != nil || loaded != nil {
		t.Fatalf("expected nil, nil for missing session, got %v, %v", loaded, err)
	}

	sess := state.New("s1", "req", "/tmp/s1", false, false)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	loaded, err = store.Load("s1")
	if err != nil || loaded != nil {
		t.Fatalf("expected nil after delete, got %v, %v", loaded, err)
	}
}
