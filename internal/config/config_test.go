package config

import (
	"path/filepath"
	"testing"

	"os"
)

func TestLoad_requiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, _, err := Load("")
	if err == nil {
		t.Fatal("expected ConfigError without ANTHROPIC_API_KEY")
	}
}

func TestLoad_envOverridesDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_CODING_ITERATIONS", "7")
	t.Setenv("HUMAN_IN_LOOP", "true")
	t.Setenv("CLAUDE_CLI_VALIDATION_MODE", "strict")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCodingIterations != 7 {
		t.Fatalf("got %d, want 7", cfg.MaxCodingIterations)
	}
	if !cfg.HumanInLoop {
		t.Fatal("expected human_in_loop true")
	}
	if cfg.ValidationMode != ValidationStrict {
		t.Fatalf("got %v, want strict", cfg.ValidationMode)
	}
}

func TestLoad_invalidValidationMode(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("CLAUDE_CLI_VALIDATION_MODE", "chaotic")
	if _, _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid validation mode")
	}
}

func TestLoad_negativeIterationsRejected(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_CODING_ITERATIONS", "-1")
	if _, _, err := Load(""); err == nil {
		t.Fatal("expected error for negative max_coding_iterations")
	}
}

func TestLoad_highIterationsWarns(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_CODING_ITERATIONS", "1000")
	_, warnings, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for a very high iteration cap")
	}
}

func TestLoadFile_overlaysYAML(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	dir := t.TempDir()
	path := filepath.Join(dir, "autodev.yaml")
	yaml := "default_model: opus\nmax_coding_iterations: 12\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultModel != "opus" {
		t.Fatalf("got %q, want opus", cfg.DefaultModel)
	}
	if cfg.MaxCodingIterations != 12 {
		t.Fatalf("got %d, want 12", cfg.MaxCodingIterations)
	}
}

func TestLoadFile_envOverridesFile(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	dir := t.TempDir()
	path := filepath.Join(dir, "autodev.yaml")
	os.WriteFile(path, []byte("max_coding_iterations: 12\n"), 0o644)
	t.Setenv("MAX_CODING_ITERATIONS", "99")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxCodingIterations != 99 {
		t.Fatalf("env should win over file: got %d", cfg.MaxCodingIterations)
	}
}

func TestValidate_invalidCheckpointBackend(t *testing.T) {
	cfg := Defaults()
	cfg.AnthropicAPIKey = "sk-test"
	cfg.CheckpointBackend = CheckpointBackend("carrier-pigeon")
	if _, err := Validate(cfg); err == nil {
		t.Fatal("expected error for invalid checkpoint backend")
	}
}

func TestValidate_timeoutTooLow(t *testing.T) {
	cfg := Defaults()
	cfg.AnthropicAPIKey = "sk-test"
	cfg.ClaudeCLITimeoutSeconds = 2
	if _, err := Validate(cfg); err == nil {
		t.Fatal("expected error for too-low timeout")
	}
}
