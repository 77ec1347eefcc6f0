// Package llmclient provides the minimal interface planner agents use to
// turn a prompt into artifact text. The model provider itself is out of
// scope (spec.md §1: "specified only by interface"); this package ships
// one real implementation and one deterministic stub for tests.
package llmclient

import "context"

// Request is a single completion call.
type Request struct {
	Model        string
	SystemPrompt string
	Prompt       string
}

// Client turns a Request into completion text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
