// Package coder implements the iterative coding node: on each entry it
// advances the task list by exactly one task, per spec.md §4.4.
package coder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/config"
	"github.com/gptmaas/autodev-agents/internal/progress"
	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
	"github.com/gptmaas/autodev-agents/internal/worker"
)

// Deps bundles what the coder node needs to run.
type Deps struct {
	Worker   *worker.Adapter
	Store    *store.Store
	Config   *config.Config
	Reporter progress.Reporter
}

// Result reports what Step decided, for the orchestrator's routing
// predicate (spec.md §4.1: "if eligible pending tasks remain and
// iterations < max, loop to coder; else terminal").
type Result struct {
	Done bool
	// IterationCapHit is set when the loop stopped because Iterations
	// reached Config.MaxCodingIterations with pending tasks remaining.
	IterationCapHit bool
}

// Step runs steps 1-8 of spec.md §4.4's algorithm exactly once.
func Step(ctx context.Context, sess *state.Session, deps Deps) (Result, error) {
	reporter := deps.Reporter
	if reporter == nil {
		reporter = progress.NullReporter{}
	}

	// Step 1: tasks.json on disk is authoritative; reconcile with the
	// in-memory copy before selecting.
	onDisk, err := deps.Store.ReadTasks()
	if err != nil {
		return Result{}, autoerr.Wrap(autoerr.Validation, "read tasks.json", err)
	}
	sess.Tasks = onDisk

	// Step 2/3/4: select the next eligible task, or decide the loop is over.
	next := state.NextEligible(sess.Tasks)
	if next == nil {
		if !state.AnyPending(sess.Tasks) {
			sess.CurrentTaskIndex = state.TerminalCount(sess.Tasks)
			sess.Stage = state.StageDone
			return Result{Done: true}, nil
		}
		// Pending tasks remain but none are eligible: everything left
		// is blocked transitively by a blocked dependency.
		state.BlockUnreachable(sess.Tasks, time.Now())
		if _, err := deps.Store.WriteTasks(sess.Tasks); err != nil {
			return Result{}, autoerr.Wrap(autoerr.Validation, "persist tasks.json", err)
		}
		sess.CurrentTaskIndex = state.TerminalCount(sess.Tasks)
		sess.Stage = state.StageDone
		return Result{Done: true}, nil
	}

	// Step 5: mark started, persist, invoke the worker.
	now := time.Now()
	next.Start(now)
	if _, err := deps.Store.WriteTasks(sess.Tasks); err != nil {
		return Result{}, autoerr.Wrap(autoerr.Validation, "persist tasks.json", err)
	}

	prompt, err := composeTaskPrompt(deps.Store, next)
	if err != nil {
		return Result{}, autoerr.Wrap(autoerr.Validation, "compose task prompt", err)
	}

	workDir := sess.CodeDir()
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, autoerr.Wrap(autoerr.Config, "create code dir", err)
	}
	reporter.Event(progress.NewWorkerStartEvent(sess.SessionID, next.ID))
	outcome, err := deps.Worker.Run(ctx, worker.Request{
		Prompt:         prompt,
		Model:          deps.Config.CoderModel,
		WorkDir:        workDir,
		AddDir:         workDir,
		TimeoutSeconds: deps.Config.ClaudeCLITimeoutSeconds,
		PermissionMode: deps.Config.ClaudeCLIPermissionMode,
		ValidationMode: deps.Config.ValidationMode,
		MaxRetries:     deps.Config.ClaudeCLIMaxRetries,
	})
	if err != nil {
		return Result{}, autoerr.Wrap(autoerr.Worker, "invoke worker CLI", err)
	}
	reporter.Event(progress.NewWorkerCompleteEvent(sess.SessionID, next.ID, outcome.Success, outcome.Reason, outcome.Elapsed))

	// Step 6: validate the worker result.
	completionTime := time.Now()
	if outcome.Success {
		next.Complete(completionTime)
	} else {
		next.Block(completionTime, outcome.Reason)
	}

	// Step 7: persist tasks file.
	if _, err := deps.Store.WriteTasks(sess.Tasks); err != nil {
		return Result{}, autoerr.Wrap(autoerr.Validation, "persist tasks.json", err)
	}
	sess.CurrentTaskIndex = state.TerminalCount(sess.Tasks)

	// Step 8: increment iterations; force termination at the cap.
	sess.Iterations++
	reporter.Event(progress.NewIterationEvent(sess.SessionID, sess.Iterations, deps.Config.MaxCodingIterations))
	if sess.Iterations >= deps.Config.MaxCodingIterations && state.AnyPending(sess.Tasks) {
		// last_error.kind is "iteration_cap" itself, not the broader
		// autoerr.State the checkpoint/resume errors use, per spec.md §8
		// scenario 6.
		sess.SetError("iteration_cap", fmt.Sprintf("reached max_coding_iterations (%d) with tasks still pending", deps.Config.MaxCodingIterations))
		// No further task will be attempted once the cap forces
		// termination, so the "next task to attempt" index has nothing
		// left to point at; set it past the end like the fully-done case.
		sess.CurrentTaskIndex = len(sess.Tasks)
		sess.Stage = state.StageDone
		return Result{Done: true, IterationCapHit: true}, nil
	}

	if state.NextEligible(sess.Tasks) == nil && !state.AnyPending(sess.Tasks) {
		sess.Stage = state.StageDone
		return Result{Done: true}, nil
	}
	return Result{Done: false}, nil
}

// Batch runs Step repeatedly until Done is reported, implementing the
// batch-coding mode selected by --batch-coding (spec_full.md §2,
// supplemented from original_source's coder_batch_node: the distilled
// spec only describes the one-task-per-invocation node, but the original
// offers an all-at-once variant for non-interactive runs).
func Batch(ctx context.Context, sess *state.Session, deps Deps) (Result, error) {
	for {
		result, err := Step(ctx, sess, deps)
		if err != nil {
			return result, err
		}
		if result.Done {
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("coding loop cancelled: %w", err)
		}
	}
}

func composeTaskPrompt(s *store.Store, task *state.Task) (string, error) {
	prd, err := s.ReadText(store.PRDFile)
	if err != nil {
		return "", err
	}
	design, err := s.ReadText(store.DesignFile)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"## PRD\n%s\n\n## Design\n%s\n\n## Task\n%s\n\n%s\n\nImplement this task directly in the working directory. When finished, state clearly that the task is done.\n",
		prd, design, task.Title, task.Description,
	), nil
}
