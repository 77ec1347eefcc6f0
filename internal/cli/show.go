package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gptmaas/autodev-agents/internal/store"
)

func newShowCmd() *cobra.Command {
	var artifact string

	cmd := &cobra.Command{
		Use:   "show <session_id>",
		Short: "Print an artifact's file contents for a session",
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

			var file string
			switch artifact {
			case "prd":
				file = store.PRDFile
			case "design":
				file = store.DesignFile
			case "tasks":
				file = store.TasksFile
			default:
				return fmt.Errorf("unknown artifact %q (want prd, design, or tasks)", artifact)
			}

			st, err := store.New(sess.WorkspacePath)
			if err != nil {
				return err
			}
			if !st.Exists(file) {
				return withExit(4, fmt.Errorf("artifact %q not yet produced for session %s", artifact, sessionID))
			}

			out := cmd.OutOrStdout()
			if artifact == "tasks" {
				tasks, err := st.ReadTasks()
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(tasks, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			text, err := st.ReadText(file)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", "prd", "Artifact to print: prd, design, or tasks")

	return cmd
}
