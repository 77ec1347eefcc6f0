// Package agents implements the planner agents: PM draft, the three
// reviewers, PM revision, and the architect. Each is a stateless function
// (state, prompt_template, llm) -> artifact text -> filesystem write ->
// state patch, per spec.md §4.3.
package agents

import (
	"context"
	"fmt"

	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/llmclient"
	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
)

// Deps bundles what every planner agent needs to run. Model is the
// fallback used by the reviewer agents, which spec.md names no dedicated
// env var for; PMModel and ArchitectModel route PM_MODEL/ARCHITECT_MODEL
// (spec.md §6.2) to their respective agents, per
// original_source/src/agents/{pm_agent,architect_agent}.py.
type Deps struct {
	LLM            llmclient.Client
	Store          *store.Store
	Model          string
	PMModel        string
	ArchitectModel string
}

func (d Deps) complete(ctx context.Context, model, systemPrompt, prompt string) (string, error) {
	if model == "" {
		model = d.Model
	}
	text, err := d.LLM.Complete(ctx, llmclient.Request{
		Model:        model,
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
	})
	if err != nil {
		return "", autoerr.Wrap(autoerr.LLM, "planner call failed", err)
	}
	if text == "" {
		return "", autoerr.New(autoerr.LLM, "planner call returned empty output")
	}
	return text, nil
}

// PMDraft runs the PM agent's initial PRD draft. It reads sess.Requirement
// and writes PRD.md, recording the path and advancing the stage.
func PMDraft(ctx context.Context, sess *state.Session, deps Deps) error {
	prompt := formatPMDraftPrompt(sess.Requirement)
	text, err := deps.complete(ctx, deps.PMModel, pmSystemPrompt, prompt)
	if err != nil {
		return err
	}

	path, err := deps.Store.WriteText(store.PRDFile, text)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "write PRD.md", err)
	}

	sess.PRDPath = path
	sess.Stage = state.StagePMReview
	return nil
}

// ComputeReview runs one reviewer's LLM call and returns its text without
// touching sess, so a fan-out caller can run several of these concurrently
// and merge the results under its own synchronization once they all
// return, rather than racing on sess.Reviews from multiple goroutines.
func ComputeReview(ctx context.Context, sess *state.Session, deps Deps, role state.ReviewRole) (string, error) {
	prd, err := deps.Store.ReadText(store.PRDFile)
	if err != nil {
		return "", autoerr.Wrap(autoerr.Validation, "read PRD.md for review", err)
	}
	prompt := formatReviewPrompt(role, prd)
	return deps.complete(ctx, deps.Model, reviewSystemPrompt(role), prompt)
}

// PMRevise consumes all three reviews plus optional human feedback,
// rewrites PRD.md in place, and writes PRD_Reviews.md as an audit record.
func PMRevise(ctx context.Context, sess *state.Session, deps Deps) error {
	if !sess.ReviewsComplete() {
		return autoerr.New(autoerr.Validation, "cannot revise PRD before all three reviews are present")
	}

	prd, err := deps.Store.ReadText(store.PRDFile)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "read PRD.md for revision", err)
	}

	prompt := formatPMRevisePrompt(sess.Requirement, prd, sess.Reviews, sess.Feedback)
	text, err := deps.complete(ctx, deps.PMModel, pmSystemPrompt, prompt)
	if err != nil {
		return err
	}

	path, err := deps.Store.WriteText(store.PRDFile, text)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "rewrite PRD.md", err)
	}
	sess.PRDPath = path

	reviewsPath, err := deps.Store.WriteText(store.PRDReviewsFile, formatReviewsAudit(sess.Reviews))
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "write PRD_Reviews.md", err)
	}
	sess.ReviewsPath = reviewsPath

	sess.Feedback = ""
	sess.Stage = state.StageArchitect
	return nil
}

// Architect produces Design.md and tasks.json from the revised PRD,
// validating the task list per spec.md §4.3's invariants before it is
// ever written to disk.
func Architect(ctx context.Context, sess *state.Session, deps Deps) error {
	prd, err := deps.Store.ReadText(store.PRDFile)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "read PRD.md for design", err)
	}

	prompt := formatArchitectPrompt(prd, sess.Feedback)
	text, err := deps.complete(ctx, deps.ArchitectModel, architectSystemPrompt, prompt)
	if err != nil {
		return err
	}

	design, tasks, err := parseArchitectResponse(text)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "parse architect response", err)
	}
	if err := state.Validate(tasks); err != nil {
		return autoerr.Wrap(autoerr.Validation, "validate task list", err)
	}

	designPath, err := deps.Store.WriteText(store.DesignFile, design)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "write Design.md", err)
	}
	tasksPath, err := deps.Store.WriteTasks(tasks)
	if err != nil {
		return autoerr.Wrap(autoerr.Validation, "write tasks.json", err)
	}

	sess.DesignPath = designPath
	sess.TasksPath = tasksPath
	sess.Tasks = tasks
	sess.Feedback = ""
	sess.Stage = state.StageCoding
	return nil
}

func formatReviewsAudit(reviews map[state.ReviewRole]string) string {
	var out string
	for _, role := range state.AllReviewRoles {
		out += fmt.Sprintf("## %s review\n\n%s\n\n", role, reviews[role])
	}
	return out
}
