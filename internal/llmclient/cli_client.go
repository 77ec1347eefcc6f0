package llmclient

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CLIClient implements Client by shelling out to the same external claude
// binary the coder agent uses, one-shot per call (spec_full.md §4.10): no
// second HTTP-based provider client is introduced because nothing in the
// corpus grounds one for this spec's scope.
type CLIClient struct {
	ClaudeCLIPath string
	WorkDir       string
}

// NewCLIClient creates a CLIClient that runs claudeCLIPath with cwd workDir.
func NewCLIClient(claudeCLIPath, workDir string) *CLIClient {
	return &CLIClient{ClaudeCLIPath: claudeCLIPath, WorkDir: workDir}
}

func (c *CLIClient) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.Prompt
	}

	args := []string{"--permission-mode", "plan", "-p", prompt}
	if req.Model != "" {
		args = append([]string{"--model", req.Model}, args...)
	}

	cmd := exec.CommandContext(ctx, c.ClaudeCLIPath, args...)
	cmd.Dir = c.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("llm completion failed: %w (stderr: %s)", err, stderr.String())
	}
	text := stdout.String()
	if text == "" {
		return "", fmt.Errorf("llm completion returned empty output")
	}
	return text, nil
}
