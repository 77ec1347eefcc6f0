package agents

import (
	"context"
	"testing"

	"github.com/gptmaas/autodev-agents/internal/llmclient"
	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
)

func newTestDeps(t *testing.T, responses ...string) Deps {
	t.Helper()
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return Deps{
		LLM:   &llmclient.StubClient{Responses: responses},
		Store: s,
		Model: "sonnet",
	}
}

func TestPMDraft(t *testing.T) {
	deps := newTestDeps(t, "# PRD\n\nOverview...")
	sess := state.New("s1", "build a counter", "/tmp/s1", false, false)

	if err := PMDraft(context.Background(), sess, deps); err != nil {
		t.Fatalf("PMDraft: %v", err)
	}
	if sess.Stage != state.StagePMReview {
		t.Fatalf("expected stage pm_review, got %v", sess.Stage)
	}
	if sess.PRDPath == "" {
		t.Fatal("expected PRDPath set")
	}
	got, err := deps.Store.ReadText(store.PRDFile)
	if err != nil || got != "# PRD\n\nOverview..." {
		t.Fatalf("PRD.md not written correctly: %q, %v", got, err)
	}
}

func TestPMDraft_emptyLLMOutputFails(t *testing.T) {
	deps := newTestDeps(t, "")
	sess := state.New("s1", "req", "/tmp/s1", false, false)
	if err := PMDraft(context.Background(), sess, deps); err == nil {
		t.Fatal("expected error on empty LLM output")
	}
}

func TestComputeReview_readsOnlyPRD(t *testing.T) {
	deps := newTestDeps(t, "some critique")
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)

	text, err := ComputeReview(context.Background(), sess, deps, state.RoleQA)
	if err != nil {
		t.Fatalf("ComputeReview: %v", err)
	}
	if text != "some critique" {
		t.Fatalf("got %q", text)
	}
	// ComputeReview must not mutate sess.
	if _, ok := sess.Reviews[state.RoleQA]; ok {
		t.Fatal("expected sess.Reviews untouched by ComputeReview")
	}
}

func TestPMRevise_requiresAllReviews(t *testing.T) {
	deps := newTestDeps(t, "revised PRD")
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)
	sess.Reviews[state.RolePM] = "ok"

	if err := PMRevise(context.Background(), sess, deps); err == nil {
		t.Fatal("expected error when reviews are incomplete")
	}
}

func TestPMRevise_success(t *testing.T) {
	deps := newTestDeps(t, "# Revised PRD")
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)
	sess.Reviews[state.RolePM] = "pm notes"
	sess.Reviews[state.RoleDev] = "dev notes"
	sess.Reviews[state.RoleQA] = "qa notes"
	sess.Feedback = "use sqlite"

	if err := PMRevise(context.Background(), sess, deps); err != nil {
		t.Fatalf("PMRevise: %v", err)
	}
	if sess.Stage != state.StageArchitect {
		t.Fatalf("expected stage architect, got %v", sess.Stage)
	}
	if sess.Feedback != "" {
		t.Fatal("expected feedback consumed and cleared")
	}
	prd, _ := deps.Store.ReadText(store.PRDFile)
	if prd != "# Revised PRD" {
		t.Fatalf("expected PRD.md rewritten, got %q", prd)
	}
	if !deps.Store.Exists(store.PRDReviewsFile) {
		t.Fatal("expected PRD_Reviews.md written")
	}
}

const architectJSON = `Here you go:
` + "```json" + `
{
  "design": "# Design\n\nDetails.",
  "tasks": [
    {"id": "task_001", "title": "Setup", "description": "Init repo", "dependencies": [], "priority": 1},
    {"id": "task_002", "title": "Build", "description": "Implement feature", "dependencies": ["task_001"], "priority": 2}
  ]
}
` + "```"

func TestArchitect_success(t *testing.T) {
	deps := newTestDeps(t, architectJSON)
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)

	if err := Architect(context.Background(), sess, deps); err != nil {
		t.Fatalf("Architect: %v", err)
	}
	if sess.Stage != state.StageCoding {
		t.Fatalf("expected stage coding, got %v", sess.Stage)
	}
	if len(sess.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(sess.Tasks))
	}
	if sess.Tasks[0].Status != state.TaskPending {
		t.Fatalf("expected tasks to start pending, got %v", sess.Tasks[0].Status)
	}
	if !deps.Store.Exists(store.DesignFile) || !deps.Store.Exists(store.TasksFile) {
		t.Fatal("expected Design.md and tasks.json written")
	}
}

func TestArchitect_cyclicDependenciesFail(t *testing.T) {
	badJSON := `{"design": "d", "tasks": [
		{"id": "a", "title": "A", "dependencies": ["b"], "priority": 1},
		{"id": "b", "title": "B", "dependencies": ["a"], "priority": 1}
	]}`
	deps := newTestDeps(t, badJSON)
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)

	if err := Architect(context.Background(), sess, deps); err == nil {
		t.Fatal("expected ValidationError for cyclic task dependencies")
	}
	if deps.Store.Exists(store.DesignFile) {
		t.Fatal("expected Design.md not written when tasks fail validation")
	}
}

func TestArchitect_malformedJSONFails(t *testing.T) {
	deps := newTestDeps(t, "not json at all")
	deps.Store.WriteText(store.PRDFile, "# PRD")
	sess := state.New("s1", "req", "/tmp/s1", false, false)

	if err := Architect(context.Background(), sess, deps); err == nil {
		t.Fatal("expected error for malformed architect response")
	}
}

func TestExtractJSON_fencedBlock(t *testing.T) {
	text := "prose\n```json\n{\"a\":1}\n```\nmore prose"
	if got := extractJSON(text); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSON_bareBraces(t *testing.T) {
	text := `prose {"a": {"b": 1}} trailing`
	if got := extractJSON(text); got != `{"a": {"b": 1}}` {
		t.Fatalf("got %q", got)
	}
}
