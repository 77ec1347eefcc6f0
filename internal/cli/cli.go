// Package cli implements the autodev command surface: start, continue,
// status, show, list-sessions (spec.md §6.1).
package cli

import (
	"context"
	"fmt"

	"github.com/gptmaas/autodev-agents/internal/agents"
	"github.com/gptmaas/autodev-agents/internal/checkpoint"
	"github.com/gptmaas/autodev-agents/internal/config"
	"github.com/gptmaas/autodev-agents/internal/graph"
	"github.com/gptmaas/autodev-agents/internal/llmclient"
	"github.com/gptmaas/autodev-agents/internal/logx"
	"github.com/gptmaas/autodev-agents/internal/progress"
	"github.com/gptmaas/autodev-agents/internal/worker"
)

type ctxKey struct{}

// WithConfig stores a loaded config on ctx for subcommands to retrieve.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// MustConfigFrom retrieves the config stored by the root command's
// PersistentPreRunE, panicking if called outside that flow.
func MustConfigFrom(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(ctxKey{}).(*config.Config)
	if !ok {
		panic("cli: no config in context")
	}
	return cfg
}

// openCheckpoints builds the checkpoint.Store selected by cfg.CheckpointBackend.
func openCheckpoints(cfg *config.Config) (checkpoint.Store, error) {
	switch cfg.CheckpointBackend {
	case config.BackendSQLite:
		return checkpoint.NewSQLiteStore(cfg.DataRoot)
	default:
		return checkpoint.NewFileStore(cfg.DataRoot)
	}
}

// buildEngine wires an Engine from cfg: the LLM client, worker adapter,
// checkpoint store, and a console+session-log reporter pair.
func buildEngine(cfg *config.Config, sessionLogPath string) (*graph.Engine, checkpoint.Store, error) {
	cps, err := openCheckpoints(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open checkpoint store: %w", err)
	}

	llm := llmclient.NewCLIClient(cfg.ClaudeCLIPath, cfg.WorkspaceRoot)
	w := worker.New(cfg.ClaudeCLIPath)

	log := logx.New()
	log.SetLevel(logx.ParseLevel(cfg.LogLevel))

	reporters := []progress.Reporter{progress.NewConsoleReporter()}
	if sessionLogPath != "" {
		slr, err := progress.NewSessionLogReporter(sessionLogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open session log: %w", err)
		}
		reporters = append(reporters, slr)
	}

	e := &graph.Engine{
		Checkpoints: cps,
		Cfg:         cfg,
		AgentDeps: agents.Deps{
			LLM:            llm,
			Model:          cfg.DefaultModel,
			PMModel:        cfg.PMModel,
			ArchitectModel: cfg.ArchitectModel,
		},
		Worker:   w,
		Reporter: progress.NewMultiReporter(reporters...),
		Log:      log,
	}
	return e, cps, nil
}
