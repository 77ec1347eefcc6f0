package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func newContinueCmd() *cobra.Command {
	var feedback string

	cmd := &cobra.Command{
		Use:   "continue <session_id>",
		Short: "Resume a session from its checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustConfigFrom(cmd.Context())
			sessionID := args[0]

			ws := filepath.Join(cfg.WorkspaceRoot, sessionID)
			e, cps, err := buildEngine(cfg, filepath.Join(ws, "session.log"))
			if err != nil {
				return err
			}
			defer cps.Close()

			outcome, err := e.Resume(cmd.Context(), sessionID, feedback)
			if err != nil {
				return err
			}
			return reportOutcome(cmd, outcome)
		},
	}

	cmd.Flags().StringVar(&feedback, "feedback", "", "Human feedback to inject; routes back to the most recent producer node")

	return cmd
}
