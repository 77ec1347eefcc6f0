package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gptmaas/autodev-agents/internal/state"
)

// FileStore persists one JSON checkpoint file per session at
// <dataRoot>/checkpoints/<session_id>.json. Unlike the teacher's direct
// os.WriteFile, FileStore writes to a temp file and renames it into
// place, satisfying spec.md §4.2's "Writes are atomic (write-then-rename)."
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at <dataRoot>/checkpoints.
func NewFileStore(dataRoot string) (*FileStore, error) {
	dir := filepath.Join(dataRoot, "checkpoints")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".json")
}

func (f *FileStore) Save(sess *state.Session) error {
	sess.Touch()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	target := f.path(sess.SessionID)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp checkpoint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp checkpoint file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename checkpoint into place: %w", err)
	}
	return nil
}

func (f *FileStore) Load(sessionID string) (*state.Session, error) {
	data, err := os.ReadFile(f.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	var sess state.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &sess, nil
}

func (f *FileStore) List() ([]Summary, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list checkpoint dir: %w", err)
	}
	summaries := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		sess, err := f.Load(id)
		if err != nil || sess == nil {
			continue
		}
		summaries = append(summaries, Summary{
			SessionID: sess.SessionID,
			Stage:     sess.Stage,
			CreatedAt: sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].SessionID < summaries[j].SessionID })
	return summaries, nil
}

func (f *FileStore) Delete(sessionID string) error {
	err := os.Remove(f.path(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *FileStore) Close() error { return nil }
