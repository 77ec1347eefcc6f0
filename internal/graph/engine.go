// Package graph wires the planner and coder nodes into the directed
// graph spec.md §4.1 describes: node execution, conditional routing, the
// interrupt-before-node protocol, and resume-from-checkpoint.
package graph

import (
	"context"
	"fmt"

	"github.com/gptmaas/autodev-agents/internal/agents"
	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/checkpoint"
	"github.com/gptmaas/autodev-agents/internal/coder"
	"github.com/gptmaas/autodev-agents/internal/config"
	"github.com/gptmaas/autodev-agents/internal/logx"
	"github.com/gptmaas/autodev-agents/internal/progress"
	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
	"github.com/gptmaas/autodev-agents/internal/worker"
)

// Status is the terminal or suspended disposition of one Start/Resume
// call, mapped to CLI exit codes by the caller per spec.md §6.1.
type Status string

const (
	StatusDone        Status = "done"
	StatusInterrupted Status = "interrupted"
	StatusFailed      Status = "failed"
)

// RunOutcome is what Start and Resume return.
type RunOutcome struct {
	SessionID    string
	Status       Status
	Stage        state.Stage
	InterruptBefore string
	Session      *state.Session
}

// Engine drives sessions from a starting state to completion or an
// interrupt, persisting a checkpoint after every node transition.
type Engine struct {
	Checkpoints checkpoint.Store
	Cfg         *config.Config
	AgentDeps   agents.Deps
	Worker      *worker.Adapter
	Reporter    progress.Reporter
	Log         *logx.Logger
}

// StartOptions configures a brand-new session.
type StartOptions struct {
	SessionID   string
	ProjectDir  string
	HumanInLoop bool
	BatchCoding bool
}

// Start creates a new session and runs it to completion or the first
// interrupt.
func (e *Engine) Start(ctx context.Context, requirement string, opts StartOptions) (*RunOutcome, error) {
	ws, err := e.workspacePath(opts.SessionID)
	if err != nil {
		return nil, err
	}
	sess := state.New(opts.SessionID, requirement, ws, opts.HumanInLoop, opts.BatchCoding)
	sess.ProjectDir = opts.ProjectDir

	st, err := store.New(ws)
	if err != nil {
		return nil, autoerr.Wrap(autoerr.Config, "create session workspace", err)
	}
	if sess.ProjectDir != "" {
		if _, err := store.CodeDirStore(sess.ProjectDir); err != nil {
			return nil, autoerr.Wrap(autoerr.Config, "prepare project dir", err)
		}
	}

	return e.runLoop(ctx, sess, st, false)
}

// Resume loads a checkpoint and continues execution, optionally injecting
// human feedback. Feedback always targets the producer of the current
// artifact rather than the node that was about to run, per spec.md §9.
func (e *Engine) Resume(ctx context.Context, sessionID, feedback string) (*RunOutcome, error) {
	sess, err := e.Checkpoints.Load(sessionID)
	if err != nil {
		return nil, autoerr.Wrap(autoerr.State, "load checkpoint", err)
	}
	if sess == nil {
		// Checkpoint record missing: fall back to reconstructing state
		// from whatever artifacts survive on disk (spec_full.md §3.1).
		reconstructed, rErr := checkpoint.ReconstructFromWorkspace(e.Cfg.WorkspaceRoot, sessionID)
		if rErr != nil {
			return nil, autoerr.Wrap(autoerr.State, "reconstruct session from workspace", rErr)
		}
		if reconstructed == nil {
			return nil, autoerr.New(autoerr.State, fmt.Sprintf("no checkpoint found for session %s", sessionID))
		}
		sess = reconstructed
		if err := e.checkpoint(sess); err != nil {
			return nil, err
		}
	}
	if err := checkpoint.CheckVersion(sess); err != nil {
		return nil, err
	}

	st, err := store.New(sess.WorkspacePath)
	if err != nil {
		return nil, autoerr.Wrap(autoerr.Config, "open session workspace", err)
	}

	skipInterruptOnEntry := true
	if feedback != "" {
		switch sess.Stage {
		case state.StageArchitect:
			// Current artifact is the PRD; its producer is pm_revise.
			sess.Feedback = feedback
			sess.Stage = state.StagePMRevise
			skipInterruptOnEntry = false
		case state.StageCoding:
			// Current artifact is the design; its producer is architect.
			// Unlike pm_revise, architect is itself an interrupt point, so
			// entry must skip that interrupt or the re-run never happens:
			// the next resume would just re-halt before architect without
			// having consumed the feedback.
			sess.Feedback = feedback
			sess.Stage = state.StageArchitect
			skipInterruptOnEntry = true
		default:
			// Not paused at an interrupt point (e.g. resuming a failed
			// node); attach feedback for that node to consume as-is.
			sess.Feedback = feedback
		}
	}

	sess.ClearError()
	return e.runLoop(ctx, sess, st, skipInterruptOnEntry)
}

func (e *Engine) workspacePath(sessionID string) (string, error) {
	if sessionID == "" {
		return "", autoerr.New(autoerr.Config, "session id is required")
	}
	return e.Cfg.WorkspaceRoot + "/" + sessionID, nil
}

// runLoop is the single-threaded cooperative scheduler: only one node
// executes at a time (spec.md §5), and every node completion is followed
// by a checkpoint write before the next node is considered.
func (e *Engine) runLoop(ctx context.Context, sess *state.Session, st *store.Store, skipFirstInterrupt bool) (*RunOutcome, error) {
	reporter := e.Reporter
	if reporter == nil {
		reporter = progress.NullReporter{}
	}
	deps := e.AgentDeps
	deps.Store = st

	first := skipFirstInterrupt

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}

		stageAtTop := sess.Stage

		switch sess.Stage {
		case state.StagePMDraft:
			reporter.Event(progress.NewNodeStartEvent(sess.SessionID, "pm_draft"))
			if err := agents.PMDraft(ctx, sess, deps); err != nil {
				return e.fail(sess, "pm_draft", err)
			}
			reporter.Event(progress.NewNodeCompleteEvent(sess.SessionID, "pm_draft", true, nil))
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}

		case state.StagePMReview:
			reporter.Event(progress.NewNodeStartEvent(sess.SessionID, "review_fan_out"))
			if err := runReviewFanOut(ctx, sess, deps); err != nil {
				return e.fail(sess, "review_fan_out", err)
			}
			sess.Stage = state.StagePMRevise
			reporter.Event(progress.NewNodeCompleteEvent(sess.SessionID, "review_fan_out", true, nil))
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}

		case state.StagePMRevise:
			reporter.Event(progress.NewNodeStartEvent(sess.SessionID, "pm_revise"))
			if err := agents.PMRevise(ctx, sess, deps); err != nil {
				return e.fail(sess, "pm_revise", err)
			}
			reporter.Event(progress.NewNodeCompleteEvent(sess.SessionID, "pm_revise", true, nil))
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}

		case state.StageArchitect:
			if !first && sess.HumanInLoop {
				reporter.Event(progress.NewInterruptEvent(sess.SessionID, "architect"))
				if err := e.checkpoint(sess); err != nil {
					return nil, err
				}
				reporter.Close()
				return &RunOutcome{SessionID: sess.SessionID, Status: StatusInterrupted, Stage: sess.Stage, InterruptBefore: "architect", Session: sess}, nil
			}
			first = false
			reporter.Event(progress.NewNodeStartEvent(sess.SessionID, "architect"))
			if err := agents.Architect(ctx, sess, deps); err != nil {
				return e.fail(sess, "architect", err)
			}
			reporter.Event(progress.NewNodeCompleteEvent(sess.SessionID, "architect", true, nil))
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}

		case state.StageCoding:
			if !first && sess.HumanInLoop {
				reporter.Event(progress.NewInterruptEvent(sess.SessionID, "coder"))
				if err := e.checkpoint(sess); err != nil {
					return nil, err
				}
				reporter.Close()
				return &RunOutcome{SessionID: sess.SessionID, Status: StatusInterrupted, Stage: sess.Stage, InterruptBefore: "coder", Session: sess}, nil
			}
			first = false
			if err := e.runCodingLoop(ctx, sess, st, reporter); err != nil {
				return e.fail(sess, "coder", err)
			}
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}

		case state.StageDone:
			if err := writeSummary(st, sess); err != nil {
				return nil, err
			}
			if err := e.checkpoint(sess); err != nil {
				return nil, err
			}
			reporter.Close()
			status := StatusDone
			if sess.LastError != nil {
				status = StatusFailed
			}
			return &RunOutcome{SessionID: sess.SessionID, Status: status, Stage: sess.Stage, Session: sess}, nil

		default:
			return nil, autoerr.New(autoerr.State, fmt.Sprintf("unknown stage %q", sess.Stage))
		}

		if sess.Stage != stageAtTop {
			reporter.Event(progress.NewStageChangeEvent(sess.SessionID, string(stageAtTop), string(sess.Stage)))
		}
	}
}

func (e *Engine) runCodingLoop(ctx context.Context, sess *state.Session, st *store.Store, reporter progress.Reporter) error {
	cdeps := coder.Deps{Worker: e.Worker, Store: st, Config: e.Cfg, Reporter: reporter}

	if sess.BatchCoding {
		_, err := coder.Batch(ctx, sess, cdeps)
		return err
	}

	for {
		result, err := coder.Step(ctx, sess, cdeps)
		if err != nil {
			return err
		}
		if err := e.checkpoint(sess); err != nil {
			return err
		}
		if result.Done {
			return nil
		}
	}
}

func (e *Engine) checkpoint(sess *state.Session) error {
	if err := e.Checkpoints.Save(sess); err != nil {
		return autoerr.Wrap(autoerr.State, "write checkpoint", err)
	}
	return nil
}

func (e *Engine) fail(sess *state.Session, node string, err error) (*RunOutcome, error) {
	kind, ok := autoerr.KindOf(err)
	if !ok {
		kind = autoerr.LLM
	}
	sess.SetError(string(kind), err.Error())
	if e.Log != nil {
		e.Log.Error("node failed", "node", node, "session_id", sess.SessionID, "err", err)
	}
	if cpErr := e.checkpoint(sess); cpErr != nil {
		return nil, cpErr
	}
	if e.Reporter != nil {
		e.Reporter.Event(progress.NewErrorEvent(sess.SessionID, string(kind), err))
		e.Reporter.Close()
	}
	return &RunOutcome{SessionID: sess.SessionID, Status: StatusFailed, Stage: sess.Stage, Session: sess}, nil
}
