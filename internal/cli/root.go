package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gptmaas/autodev-agents/internal/config"
)

// NewRootCmd builds the autodev command tree: start, continue, status,
// show, list-sessions, wired with cobra the way ankittk-agentary/internal/cli
// wires its subcommands, rather than the teacher's declared-but-unused
// cobra dependency.
func NewRootCmd(version string) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "autodev",
		Short:         "AutoDev — multi-agent software development orchestration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := config.Load(configPath)
			if err != nil {
				return withExit(exitCodeFor(err), err)
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			cmd.SetContext(WithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an optional YAML config overlay")

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newContinueCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newListSessionsCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.Version = version
	if cmd.Version == "" {
		cmd.Version = "dev"
	}

	return cmd
}
