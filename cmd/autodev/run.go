package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gptmaas/autodev-agents/internal/autoerr"
	"github.com/gptmaas/autodev-agents/internal/cli"
)

// Run executes the autodev command tree and maps the outcome to a
// process exit code: 0 for success, or whatever ExitCode a returned error
// reports (spec.md §6.1), else the code autoerr.ExitCode gives the error's
// kind, else the generic failure code 1.
func Run(ctx context.Context, args []string) int {
	root := cli.NewRootCmd(Version)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if ec, ok := err.(interface{ ExitCode() int }); ok {
			return ec.ExitCode()
		}
		if kind, ok := autoerr.KindOf(err); ok {
			return autoerr.ExitCode(kind)
		}
		return 1
	}
	return 0
}
