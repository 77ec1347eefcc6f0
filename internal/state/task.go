package state

import (
	"fmt"
	"sort"
	"time"
)

// TaskStatus is the lifecycle state of a Task. Transitions only ever move
// pending -> completed or pending -> blocked; never in reverse.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskBlocked   TaskStatus = "blocked"
)

// Task is one entry in tasks.json.
type Task struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
	Status       TaskStatus `json:"status"`
	Priority     int      `json:"priority"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	BlockedAt   *time.Time `json:"blocked_at,omitempty"`
	Duration    *float64   `json:"duration,omitempty"`

	Error string `json:"error,omitempty"`
}

// Start marks the task as begun. It does not change Status: a task is
// still "pending" while the worker runs, per spec.md §4.4 step 5 — the
// commit point is the completion write, so a crash mid-task leaves the
// task retryable on resume.
func (t *Task) Start(now time.Time) {
	t.StartedAt = &now
}

// Complete transitions pending -> completed and computes Duration.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskCompleted
	t.CompletedAt = &now
	t.Duration = durationSeconds(t.StartedAt, &now)
}

// Block transitions pending -> blocked and computes Duration.
func (t *Task) Block(now time.Time, reason string) {
	t.Status = TaskBlocked
	t.BlockedAt = &now
	t.Duration = durationSeconds(t.StartedAt, &now)
	t.Error = reason
}

func durationSeconds(start, end *time.Time) *float64 {
	if start == nil || end == nil {
		return nil
	}
	secs := end.Sub(*start).Seconds()
	rounded := float64(int(secs*100+0.5)) / 100
	return &rounded
}

// Validate checks the structural invariants spec.md §4.3 requires of a
// freshly produced task list: unique ids, dependencies that refer to
// declared ids, no cycles, and every task starting out pending.
func Validate(tasks []*Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task has empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Status != TaskPending {
			return fmt.Errorf("task %q must start pending, got %q", t.ID, t.Status)
		}
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if !seen[dep] {
				return fmt.Errorf("task %q depends on undeclared id %q", t.ID, dep)
			}
		}
	}
	if cycle := findCycle(tasks); cycle != "" {
		return fmt.Errorf("dependency cycle detected at task %q", cycle)
	}
	return nil
}

func findCycle(tasks []*Task) string {
	byID := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(tasks))

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case done:
			return false
		case visiting:
			return true
		}
		state[id] = visiting
		for _, dep := range byID[id].Dependencies {
			if visit(dep) {
				return true
			}
		}
		state[id] = done
		return false
	}

	for _, t := range tasks {
		if state[t.ID] == unvisited && visit(t.ID) {
			return t.ID
		}
	}
	return ""
}

// NextEligible selects the highest-priority pending task whose
// dependencies are all completed, breaking ties by array order
// (spec.md §4.4 step 2). It returns nil if no pending task is eligible.
func NextEligible(tasks []*Task) *Task {
	completed := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Status == TaskCompleted {
			completed[t.ID] = true
		}
	}

	candidates := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != TaskPending {
			continue
		}
		eligible := true
		for _, dep := range t.Dependencies {
			if !completed[dep] {
				eligible = false
				break
			}
		}
		if eligible {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates[0]
}

// AnyPending reports whether at least one task is still pending.
func AnyPending(tasks []*Task) bool {
	for _, t := range tasks {
		if t.Status == TaskPending {
			return true
		}
	}
	return false
}

// TerminalCount returns how many tasks have left the pending state
// (completed or blocked). Status only ever moves forward from pending, so
// this is non-decreasing across the life of a task list.
func TerminalCount(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status != TaskPending {
			n++
		}
	}
	return n
}

// BlockUnreachable marks every remaining pending task as blocked because
// no pending task is eligible (spec.md §4.4 step 4: all blocked by
// blocked/incomplete dependencies).
func BlockUnreachable(tasks []*Task, now time.Time) {
	for _, t := range tasks {
		if t.Status == TaskPending {
			t.Block(now, "unreachable: no eligible dependency chain")
		}
	}
}
