package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gptmaas/autodev-agents/internal/graph"
)

// reportOutcome prints a run's terminal disposition and turns it into the
// exit code spec.md §6.1 documents: 0 done, 2 interrupted, 1 failed.
func reportOutcome(cmd *cobra.Command, outcome *graph.RunOutcome) error {
	out := cmd.OutOrStdout()
	switch outcome.Status {
	case graph.StatusDone:
		fmt.Fprintf(out, "session %s done\n", outcome.SessionID)
		return nil
	case graph.StatusInterrupted:
		fmt.Fprintf(out, "session %s interrupted before %s\n", outcome.SessionID, outcome.InterruptBefore)
		fmt.Fprintf(out, "resume with: autodev continue %s\n", outcome.SessionID)
		return withExit(2, fmt.Errorf("session %s interrupted before %s", outcome.SessionID, outcome.InterruptBefore))
	case graph.StatusFailed:
		kind, msg := "unknown_error", "node failed"
		if outcome.Session != nil && outcome.Session.LastError != nil {
			kind = outcome.Session.LastError.Kind
			msg = outcome.Session.LastError.Message
		}
		return withExit(1, fmt.Errorf("%s: %s (session %s)", kind, msg, outcome.SessionID))
	default:
		return fmt.Errorf("unknown run status %q", outcome.Status)
	}
}
