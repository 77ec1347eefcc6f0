// Package state defines the session state record carried through the
// workflow graph and the task records that make up the coding loop.
package state

import "time"

// Stage is the coarse workflow phase recorded in state; it drives routing
// and status display.
type Stage string

const (
	StagePMDraft   Stage = "pm_draft"
	StagePMReview  Stage = "pm_review"
	StagePMRevise  Stage = "pm_revise"
	StageArchitect Stage = "architect"
	StageCoding    Stage = "coding"
	StageDone      Stage = "done"
)

// ReviewRole identifies one of the three fixed reviewer perspectives.
type ReviewRole string

const (
	RolePM  ReviewRole = "pm"
	RoleDev ReviewRole = "dev"
	RoleQA  ReviewRole = "qa"
)

// AllReviewRoles lists every reviewer role, in the fixed order the PM
// revision step expects them to be documented.
var AllReviewRoles = []ReviewRole{RolePM, RoleDev, RoleQA}

// LastError is the structured record of the most recent node failure.
type LastError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the single record carried through the graph. It is the unit
// of checkpointing: after every node transition, a Session is written to
// the checkpoint store keyed by SessionID.
type Session struct {
	Version string `json:"version"`

	SessionID     string `json:"session_id"`
	Requirement   string `json:"requirement"`
	WorkspacePath string `json:"workspace_path"`
	ProjectDir    string `json:"project_dir,omitempty"`
	HumanInLoop   bool   `json:"human_in_loop"`
	BatchCoding   bool   `json:"batch_coding"`

	Stage Stage `json:"stage"`

	PRDPath     string `json:"prd_path,omitempty"`
	DesignPath  string `json:"design_path,omitempty"`
	TasksPath   string `json:"tasks_path,omitempty"`
	ReviewsPath string `json:"reviews_path,omitempty"`

	Reviews map[ReviewRole]string `json:"reviews,omitempty"`

	Feedback string `json:"feedback,omitempty"`

	Tasks             []*Task `json:"tasks,omitempty"`
	CurrentTaskIndex  int     `json:"current_task_index"`
	Iterations        int     `json:"iterations"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastError *LastError `json:"last_error,omitempty"`
}

// CurrentVersion is stamped on every newly created Session and checked on
// load; a mismatch is a StateError (spec.md §7), not silently upgraded.
const CurrentVersion = "1"

// New creates the initial state for a fresh session.
func New(sessionID, requirement, workspacePath string, humanInLoop, batchCoding bool) *Session {
	now := time.Now()
	return &Session{
		Version:       CurrentVersion,
		SessionID:     sessionID,
		Requirement:   requirement,
		WorkspacePath: workspacePath,
		HumanInLoop:   humanInLoop,
		BatchCoding:   batchCoding,
		Stage:         StagePMDraft,
		Reviews:       map[ReviewRole]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Touch refreshes UpdatedAt; callers invoke it before every checkpoint
// write so UpdatedAt always reflects the most recent node transition.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}

// ReviewsComplete reports whether all three reviewer roles have written a
// review into state, which is the fan-in condition the orchestrator waits
// on before running pm_revise.
func (s *Session) ReviewsComplete() bool {
	for _, role := range AllReviewRoles {
		if _, ok := s.Reviews[role]; !ok {
			return false
		}
	}
	return true
}

// CodeDir returns the directory generated code should be written to:
// ProjectDir if set, otherwise workspace_path/code.
func (s *Session) CodeDir() string {
	if s.ProjectDir != "" {
		return s.ProjectDir
	}
	return s.WorkspacePath + "/code"
}

// SetError records a structured failure and clears nothing else; the
// orchestrator is responsible for checkpointing after this call.
func (s *Session) SetError(kind, message string) {
	s.LastError = &LastError{Kind: kind, Message: message}
}

// ClearError drops the last recorded failure; the orchestrator calls it
// when a session is resumed, before any node runs.
func (s *Session) ClearError() {
	s.LastError = nil
}

// TaskCounts tallies tasks by status for the status command and for
// summary.json.
type TaskCounts struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Blocked   int `json:"blocked"`
}

// CountTasks tallies s.Tasks by status.
func (s *Session) CountTasks() TaskCounts {
	var c TaskCounts
	for _, t := range s.Tasks {
		switch t.Status {
		case TaskPending:
			c.Pending++
		case TaskCompleted:
			c.Completed++
		case TaskBlocked:
			c.Blocked++
		}
	}
	return c
}
