package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-sessions",
		Short: "Print session_id, stage, created_at for every known session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustConfigFrom(cmd.Context())

			cps, err := openCheckpoints(cfg)
			if err != nil {
				return err
			}
			defer cps.Close()

			summaries, err := cps.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range summaries {
				fmt.Fprintf(out, "%s, %s, %s\n", s.SessionID, s.Stage, s.CreatedAt)
			}
			return nil
		},
	}
	return cmd
}
