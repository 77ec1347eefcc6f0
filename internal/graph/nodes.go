package graph

import (
	"context"

	"github.com/gptmaas/autodev-agents/internal/agents"
	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/state"
	"github.com/gptmaas/autodev-agents/internal/store"
)

// reviewOutcome carries one reviewer's result back to the fan-in point.
type reviewOutcome struct {
	role state.ReviewRole
	text string
	err  error
}

// runReviewFanOut runs the three reviewer agents concurrently and merges
// their output into sess.Reviews once all three have returned. Reviewers
// for roles already present in sess.Reviews are skipped, so resuming a
// partially-failed fan-out only re-runs the roles that didn't finish.
func runReviewFanOut(ctx context.Context, sess *state.Session, deps agents.Deps) error {
	pending := make([]state.ReviewRole, 0, len(state.AllReviewRoles))
	for _, role := range state.AllReviewRoles {
		if _, ok := sess.Reviews[role]; !ok {
			pending = append(pending, role)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	results := make(chan reviewOutcome, len(pending))
	for _, role := range pending {
		role := role
		go func() {
			text, err := agents.ComputeReview(ctx, sess, deps, role)
			results <- reviewOutcome{role: role, text: text, err: err}
		}()
	}

	if sess.Reviews == nil {
		sess.Reviews = map[state.ReviewRole]string{}
	}
	var firstErr error
	for i := 0; i < len(pending); i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		sess.Reviews[res.role] = res.text
	}
	return firstErr
}

// summary is the terminal-state record written to summary.json when a
// session reaches the done stage, so its outcome can be read from the
// workspace without the checkpoint store. No command reads it back.
type summary struct {
	SessionID string          `json:"session_id"`
	Stage     state.Stage     `json:"stage"`
	Iterations int            `json:"iterations"`
	Tasks     state.TaskCounts `json:"tasks"`
	LastError *state.LastError `json:"last_error,omitempty"`
}

func writeSummary(st *store.Store, sess *state.Session) error {
	s := summary{
		SessionID:  sess.SessionID,
		Stage:      sess.Stage,
		Iterations: sess.Iterations,
		Tasks:      sess.CountTasks(),
		LastError:  sess.LastError,
	}
	if _, err := st.WriteJSON(store.SummaryFile, s); err != nil {
		return autoerr.Wrap(autoerr.Validation, "write summary.json", err)
	}
	return nil
}
