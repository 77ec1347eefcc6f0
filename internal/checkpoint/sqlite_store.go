package checkpoint

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/gptmaas/autodev-agents/internal/state"
)

// SQLiteStore persists checkpoints in a single SQLite database rather
// than one file per session, selected by CHECKPOINT_BACKEND=sqlite
// (spec_full.md §6.2, grounded on original_source's
// core/checkpoint_manager.py backend switch and on
// dylanreedx-gitdash/conductor/db.go's modernc.org/sqlite usage). The
// driver is pure Go, so no cgo toolchain is required to build it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) <dataRoot>/checkpoints/checkpoints.db.
func NewSQLiteStore(dataRoot string) (*SQLiteStore, error) {
	dir := filepath.Join(dataRoot, "checkpoints")
	dbPath := filepath.Join(dir, "checkpoints.db")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoints dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open checkpoint database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		session_id TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		created_at TEXT NOT NULL,
		payload TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create checkpoints table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(sess *state.Session) error {
	sess.Touch()
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO checkpoints (session_id, stage, created_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET stage = excluded.stage, payload = excluded.payload`,
		sess.SessionID, string(sess.Stage), sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), string(payload))
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(sessionID string) (*state.Session, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM checkpoints WHERE session_id = ?`, sessionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	var sess state.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return &sess, nil
}

func (s *SQLiteStore) List() ([]Summary, error) {
	rows, err := s.db.Query(`SELECT session_id, stage, created_at FROM checkpoints ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var stage string
		if err := rows.Scan(&sum.SessionID, &stage, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}
		sum.Stage = state.Stage(stage)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM checkpoints WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
