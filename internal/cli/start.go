package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gptmaas/autodev-agents/internal/graph"
)

func newStartCmd() *cobra.Command {
	var (
		humanLoop   bool
		projectDir  string
		batchCoding bool
	)

	cmd := &cobra.Command{
		Use:   "start <requirement>",
		Short: "Create a session and run it to completion or the first interrupt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustConfigFrom(cmd.Context())
			requirement := args[0]
			sessionID := uuid.New().String()

			ws := filepath.Join(cfg.WorkspaceRoot, sessionID)
			if err := os.MkdirAll(ws, 0o755); err != nil {
				return fmt.Errorf("create session workspace: %w", err)
			}

			e, cps, err := buildEngine(cfg, filepath.Join(ws, "session.log"))
			if err != nil {
				return err
			}
			defer cps.Close()

			outcome, err := e.Start(cmd.Context(), requirement, graph.StartOptions{
				SessionID:   sessionID,
				ProjectDir:  projectDir,
				HumanInLoop: humanLoop || cfg.HumanInLoop,
				BatchCoding: batchCoding,
			})
			if err != nil {
				return err
			}
			return reportOutcome(cmd, outcome)
		},
	}

	cmd.Flags().BoolVar(&humanLoop, "human-loop", false, "Pause for human review before architect and coder")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "External directory to write generated code to (default: workspace/code)")
	cmd.Flags().BoolVar(&batchCoding, "batch-coding", false, "Run the entire coding loop in one invocation instead of one task per checkpoint")

	return cmd
}
