package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <session_id>",
		Short: "Print a session's stage, task counts, and last error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustConfigFrom(cmd.Context())
			sessionID := args[0]

			cps, err := openCheckpoints(cfg)
			if err != nil {
				return err
			}
			defer cps.Close()

			sess, err := cps.Load(sessionID)
			if err != nil {
				return err
			}
			if sess == nil {
				return withExit(3, fmt.Errorf("unknown session %s", sessionID))
			}

			counts := sess.CountTasks()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session_id: %s\n", sess.SessionID)
			fmt.Fprintf(out, "stage: %s\n", sess.Stage)
			fmt.Fprintf(out, "tasks: %d pending, %d completed, %d blocked\n", counts.Pending, counts.Completed, counts.Blocked)
			fmt.Fprintf(out, "iterations: %d\n", sess.Iterations)
			if sess.LastError != nil {
				fmt.Fprintf(out, "last_error: %s: %s\n", sess.LastError.Kind, sess.LastError.Message)
			}
			return nil
		},
	}
	return cmd
}
