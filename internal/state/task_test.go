package state

import (
	"testing"
	"time"
)

func TestValidate_duplicateID(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending},
		{ID: "a", Status: TaskPending},
	}
	if err := Validate(tasks); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestValidate_undeclaredDependency(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending, Dependencies: []string{"missing"}},
	}
	if err := Validate(tasks); err == nil {
		t.Fatal("expected error for undeclared dependency")
	}
}

func TestValidate_cycle(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending, Dependencies: []string{"b"}},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
	}
	if err := Validate(tasks); err == nil {
		t.Fatal("expected error for dependency cycle")
	}
}

func TestValidate_nonPendingAtCreation(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskCompleted},
	}
	if err := Validate(tasks); err == nil {
		t.Fatal("expected error for non-pending task at creation")
	}
}

func TestValidate_ok(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
	}
	if err := Validate(tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNextEligible_priorityOrder(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending, Priority: 1},
		{ID: "b", Status: TaskPending, Priority: 10},
		{ID: "c", Status: TaskPending, Priority: 5},
	}
	next := NextEligible(tasks)
	if next == nil || next.ID != "b" {
		t.Fatalf("expected b (highest priority), got %v", next)
	}
}

func TestNextEligible_tieBreakByArrayOrder(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending, Priority: 5},
		{ID: "b", Status: TaskPending, Priority: 5},
	}
	next := NextEligible(tasks)
	if next == nil || next.ID != "a" {
		t.Fatalf("expected a (array order tiebreak), got %v", next)
	}
}

func TestNextEligible_skipsIncompleteDependencies(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskPending},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
	}
	next := NextEligible(tasks)
	if next == nil || next.ID != "a" {
		t.Fatalf("expected a (b is blocked on a), got %v", next)
	}
}

func TestNextEligible_dependencyCompleted(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskCompleted},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
	}
	next := NextEligible(tasks)
	if next == nil || next.ID != "b" {
		t.Fatalf("expected b (dependency completed), got %v", next)
	}
}

func TestNextEligible_noneEligible(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskBlocked},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
	}
	if next := NextEligible(tasks); next != nil {
		t.Fatalf("expected nil, got %v", next)
	}
}

func TestBlockUnreachable(t *testing.T) {
	tasks := []*Task{
		{ID: "a", Status: TaskBlocked},
		{ID: "b", Status: TaskPending, Dependencies: []string{"a"}},
		{ID: "c", Status: TaskCompleted},
	}
	now := time.Now()
	BlockUnreachable(tasks, now)
	if tasks[1].Status != TaskBlocked {
		t.Fatalf("expected b blocked, got %v", tasks[1].Status)
	}
	if tasks[1].BlockedAt == nil {
		t.Fatal("expected BlockedAt to be set")
	}
	if tasks[2].Status != TaskCompleted {
		t.Fatalf("completed task must not be touched, got %v", tasks[2].Status)
	}
}

func TestTaskCompleteSetsDuration(t *testing.T) {
	tk := &Task{ID: "a", Status: TaskPending}
	start := time.Now()
	tk.Start(start)
	end := start.Add(2500 * time.Millisecond)
	tk.Complete(end)
	if tk.Status != TaskCompleted {
		t.Fatalf("expected completed, got %v", tk.Status)
	}
	if tk.Duration == nil || *tk.Duration != 2.5 {
		t.Fatalf("expected duration 2.5, got %v", tk.Duration)
	}
	if tk.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}
}

func TestTaskBlockRecordsReason(t *testing.T) {
	tk := &Task{ID: "a", Status: TaskPending}
	start := time.Now()
	tk.Start(start)
	tk.Block(start.Add(time.Second), "nonzero_exit")
	if tk.Status != TaskBlocked {
		t.Fatalf("expected blocked, got %v", tk.Status)
	}
	if tk.Error != "nonzero_exit" {
		t.Fatalf("expected reason recorded, got %q", tk.Error)
	}
}

func TestAnyPending(t *testing.T) {
	if AnyPending([]*Task{{Status: TaskCompleted}, {Status: TaskBlocked}}) {
		t.Fatal("expected no pending tasks")
	}
	if !AnyPending([]*Task{{Status: TaskCompleted}, {Status: TaskPending}}) {
		t.Fatal("expected a pending task")
	}
}
