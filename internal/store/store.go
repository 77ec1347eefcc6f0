// Package store provides the filesystem artifact store: read/write
// primitives for PRD.md, PRD_Reviews.md, Design.md, tasks.json and the
// generated code tree, with path confinement, atomic JSON writes, and
// UTF-8 text I/O.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gptmaas/autodev-agents/internal/state"
)

// Store confines all reads and writes to a single session's workspace
// directory (or, for generated code, to an explicitly configured
// project_dir per spec.md §9's open question on external project_dir
// safety — confinement there is the caller's choice, not enforced here).
type Store struct {
	workspacePath string
}

// New creates a Store rooted at workspacePath, creating it if necessary.
func New(workspacePath string) (*Store, error) {
	if err := os.MkdirAll(workspacePath, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &Store{workspacePath: workspacePath}, nil
}

const (
	PRDFile        = "PRD.md"
	PRDReviewsFile = "PRD_Reviews.md"
	DesignFile     = "Design.md"
	TasksFile      = "tasks.json"
	SummaryFile    = "summary.json"
)

// confine resolves name against the workspace root and rejects any path
// that would escape it.
func (s *Store) confine(name string) (string, error) {
	full := filepath.Join(s.workspacePath, name)
	rel, err := filepath.Rel(s.workspacePath, full)
	if err != nil || rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("path %q escapes workspace", name)
	}
	return full, nil
}

// WriteText writes UTF-8 text to name under the workspace root, creating
// parent directories as needed. The write is not renamed into place:
// spec.md requires atomicity only for JSON artifacts (§4.6); markdown
// artifacts are rewritten wholesale by a single node and are not read
// concurrently with that rewrite.
func (s *Store) WriteText(name, content string) (string, error) {
	full, err := s.confine(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return full, nil
}

// ReadText reads a UTF-8 text artifact.
func (s *Store) ReadText(name string) (string, error) {
	full, err := s.confine(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// Exists reports whether name exists under the workspace root.
func (s *Store) Exists(name string) bool {
	full, err := s.confine(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// WriteJSON atomically writes v as indented JSON to name: it writes to a
// temp file in the same directory and renames it into place, so readers
// never observe a partial write.
func (s *Store) WriteJSON(name string, v any) (string, error) {
	full, err := s.confine(name)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, full); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename temp file into place for %s: %w", name, err)
	}
	return full, nil
}

// ReadJSON reads and unmarshals a JSON artifact.
func (s *Store) ReadJSON(name string, v any) error {
	full, err := s.confine(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// WriteTasks writes the task list atomically to tasks.json, the
// authoritative on-disk source of truth per spec.md §3.2.
func (s *Store) WriteTasks(tasks []*state.Task) (string, error) {
	return s.WriteJSON(TasksFile, tasks)
}

// ReadTasks reads tasks.json.
func (s *Store) ReadTasks() ([]*state.Task, error) {
	var tasks []*state.Task
	if err := s.ReadJSON(TasksFile, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CodeDirStore returns a Store rooted at an arbitrary project directory
// (outside the session workspace), used when project_dir is configured.
// It creates the directory if it does not exist; it does not check that
// the directory existed beforehand.
func CodeDirStore(projectDir string) (*Store, error) {
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &Store{workspacePath: projectDir}, nil
}

// Path returns the workspace-confined absolute path for name without
// reading or writing it.
func (s *Store) Path(name string) (string, error) {
	return s.confine(name)
}

// Root returns the workspace root this store is confined to.
func (s *Store) Root() string {
	return s.workspacePath
}
