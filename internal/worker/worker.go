// Package worker implements the CLI worker adapter: it spawns the
// external coding CLI as a child process and classifies its outcome.
// This is the only component that interacts with the external process;
// everything else treats it as a pure function (spec.md §4.5).
package worker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gptmaas/autodev-agents/internal/config"
)

// Request is one invocation of the coding CLI.
type Request struct {
	Prompt         string
	Model          string
	WorkDir        string
	AddDir         string
	TimeoutSeconds int
	PermissionMode string
	ValidationMode config.ValidationMode
	MaxRetries     int
}

// Outcome is the classified result of one invocation.
type Outcome struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
	Reason   string
}

// maxCapturedBytes bounds how much of stdout/stderr is retained in memory,
// per spec.md §4.5 "up to a configurable size".
const maxCapturedBytes = 1 << 20 // 1 MiB

// defaultSuccessMarkers and defaultFailureMarkers are the closed,
// case-insensitive substring sets spec.md §4.5 names as examples; callers
// that need a different vocabulary set Adapter.SuccessMarkers and
// Adapter.FailureMarkers.
var (
	defaultSuccessMarkers = []string{"done", "completed", "created file", "wrote"}
	defaultFailureMarkers = []string{"error", "failed", "cannot"}
)

// Adapter runs the coding CLI binary via a fixed argument pattern:
// --add-dir <dir> --permission-mode <mode> -p <prompt>.
type Adapter struct {
	ClaudeCLIPath   string
	SuccessMarkers  []string
	FailureMarkers  []string
}

// New creates an Adapter pointed at the given claude binary path.
func New(claudeCLIPath string) *Adapter {
	return &Adapter{
		ClaudeCLIPath:  claudeCLIPath,
		SuccessMarkers: defaultSuccessMarkers,
		FailureMarkers: defaultFailureMarkers,
	}
}

// Run spawns the CLI, retrying on a nonzero exit or a timeout up to
// req.MaxRetries additional times (original_source/src/tools/claude_cli.py's
// `for attempt in range(self.max_retries + 1)` loop); a run that fails
// classification for content reasons (ambiguous output, a failure marker)
// is not retried, since re-running would just repeat the same model
// output. The final attempt's outcome is returned.
func (a *Adapter) Run(ctx context.Context, req Request) (*Outcome, error) {
	var outcome *Outcome
	for attempt := 0; attempt <= req.MaxRetries; attempt++ {
		o, err := a.runOnce(ctx, req)
		if err != nil {
			return nil, err
		}
		outcome = o
		if outcome.Reason != "nonzero_exit" && outcome.Reason != "timeout" {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return outcome, nil
}

// runOnce spawns the CLI once, waits for it to exit or time out, and
// classifies the result. The process (and its descendants, where the OS
// supports process groups) is killed on timeout or on ctx cancellation.
func (a *Adapter) runOnce(ctx context.Context, req Request) (*Outcome, error) {
	mode := req.PermissionMode
	if mode == "" {
		mode = "acceptEdits"
	}
	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"--add-dir", req.AddDir, "--permission-mode", mode, "-p", req.Prompt}
	if req.Model != "" {
		args = append([]string{"--model", req.Model}, args...)
	}
	cmd := exec.CommandContext(runCtx, a.ClaudeCLIPath, args...)
	cmd.Dir = req.WorkDir
	setProcessGroup(cmd)

	var stdout, stderr capBuffer
	stdout.limit = maxCapturedBytes
	stderr.limit = maxCapturedBytes
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker process: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-runCtx.Done():
		if cmd.Process != nil {
			killProcessGroup(cmd.Process.Pid)
			cmd.Process.Kill()
		}
		waitErr = <-done
	}
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return &Outcome{
			Success:  false,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
			Elapsed:  elapsed,
			Reason:   "timeout",
		}, nil
	}

	exitCode := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("wait for worker process: %w", waitErr)
		}
	}

	outcome := classify(stdout.String(), stderr.String(), exitCode, elapsed, req.ValidationMode, a.SuccessMarkers, a.FailureMarkers)
	return outcome, nil
}

// classify implements spec.md §4.5's classification rules.
func classify(stdout, stderr string, exitCode int, elapsed time.Duration, mode config.ValidationMode, successMarkers, failureMarkers []string) *Outcome {
	o := &Outcome{Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Elapsed: elapsed}

	if exitCode != 0 {
		o.Success = false
		o.Reason = "nonzero_exit"
		return o
	}

	lower := strings.ToLower(stdout)
	switch mode {
	case config.ValidationStrict:
		if containsAny(lower, successMarkers) {
			o.Success = true
			o.Reason = "success_marker"
		} else {
			o.Success = false
			o.Reason = "ambiguous_output"
		}
	default: // lenient
		if containsAny(lower, failureMarkers) {
			o.Success = false
			o.Reason = "failure_marker"
		} else {
			o.Success = true
			o.Reason = "no_failure_marker"
		}
	}
	return o
}

func containsAny(haystack string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(haystack, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// capBuffer is a bytes.Buffer that silently stops accepting writes past
// limit, so a runaway process cannot exhaust memory via stdout/stderr.
type capBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (c *capBuffer) Write(p []byte) (int, error) {
	remaining := c.limit - c.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		c.buf.Write(p[:remaining])
	} else {
		c.buf.Write(p)
	}
	return len(p), nil
}

func (c *capBuffer) String() string { return c.buf.String() }
