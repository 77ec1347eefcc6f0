// Package config loads and validates the engine's tunables from defaults,
// an optional YAML overlay file, and environment variables, in that order
// of increasing precedence (spec_full.md §4.7).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gptmaas/autodev-agents/internal/autoerr"
)

// CheckpointBackend selects how session state is persisted.
type CheckpointBackend string

const (
	BackendFile   CheckpointBackend = "file"
	BackendSQLite CheckpointBackend = "sqlite"
)

// ValidationMode selects the CLI worker adapter's classification
// strictness (spec.md §4.5).
type ValidationMode string

const (
	ValidationLenient ValidationMode = "lenient"
	ValidationStrict  ValidationMode = "strict"
)

// Config holds every tunable the engine needs before a node can run.
type Config struct {
	AnthropicAPIKey  string `yaml:"-"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`

	DefaultModel   string `yaml:"default_model"`
	PMModel        string `yaml:"pm_model"`
	ArchitectModel string `yaml:"architect_model"`
	CoderModel     string `yaml:"coder_model"`

	WorkspaceRoot string `yaml:"workspace_root"`
	DataRoot      string `yaml:"data_root"`

	MaxCodingIterations int  `yaml:"max_coding_iterations"`
	HumanInLoop         bool `yaml:"human_in_loop"`

	CheckpointBackend CheckpointBackend `yaml:"checkpoint_backend"`

	ClaudeCLIPath           string         `yaml:"claude_cli_path"`
	ClaudeCLITimeoutSeconds int            `yaml:"claude_cli_timeout"`
	ClaudeCLIMaxRetries     int            `yaml:"claude_cli_max_retries"`
	ClaudeCLIPermissionMode string        `yaml:"claude_cli_permission_mode"`
	ValidationMode          ValidationMode `yaml:"claude_cli_validation_mode"`

	LogLevel string `yaml:"log_level"`

	Verbose bool `yaml:"-"`
}

// Defaults returns the built-in configuration before any overlay or
// environment override is applied.
func Defaults() *Config {
	return &Config{
		DefaultModel:            "sonnet",
		PMModel:                 "sonnet",
		ArchitectModel:          "sonnet",
		CoderModel:              "sonnet",
		WorkspaceRoot:           "workspace",
		DataRoot:                "data",
		MaxCodingIterations:     50,
		HumanInLoop:             false,
		CheckpointBackend:       BackendFile,
		ClaudeCLIPath:           "claude",
		ClaudeCLITimeoutSeconds: 300,
		ClaudeCLIMaxRetries:     0,
		ClaudeCLIPermissionMode: "acceptEdits",
		ValidationMode:          ValidationLenient,
		LogLevel:                "INFO",
	}
}

// LoadFile overlays cfg with values from a YAML file, if path is non-empty.
func LoadFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return autoerr.Wrap(autoerr.Config, fmt.Sprintf("read config file %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return autoerr.Wrap(autoerr.Config, fmt.Sprintf("parse config file %s", path), err)
	}
	return nil
}

// LoadEnv overlays cfg with environment variables, per spec.md §6.2 plus
// the supplemental variables named in spec_full.md §6.2.
func LoadEnv(cfg *Config) error {
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("PM_MODEL"); v != "" {
		cfg.PMModel = v
	}
	if v := os.Getenv("ARCHITECT_MODEL"); v != "" {
		cfg.ArchitectModel = v
	}
	if v := os.Getenv("CODER_MODEL"); v != "" {
		cfg.CoderModel = v
	}
	if v := os.Getenv("WORKSPACE_ROOT"); v != "" {
		cfg.WorkspaceRoot = v
	}
	if v := os.Getenv("DATA_ROOT"); v != "" {
		cfg.DataRoot = v
	}
	if v := os.Getenv("MAX_CODING_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return autoerr.Wrap(autoerr.Config, "parse MAX_CODING_ITERATIONS", err)
		}
		cfg.MaxCodingIterations = n
	}
	if v := os.Getenv("HUMAN_IN_LOOP"); v != "" {
		cfg.HumanInLoop = isTruthy(v)
	}
	if v := os.Getenv("CHECKPOINT_BACKEND"); v != "" {
		switch CheckpointBackend(strings.ToLower(v)) {
		case BackendFile, BackendSQLite:
			cfg.CheckpointBackend = CheckpointBackend(strings.ToLower(v))
		default:
			return autoerr.New(autoerr.Config, fmt.Sprintf("invalid CHECKPOINT_BACKEND %q (must be file or sqlite)", v))
		}
	}
	if v := os.Getenv("CLAUDE_CLI_PATH"); v != "" {
		cfg.ClaudeCLIPath = v
	}
	if v := os.Getenv("CLAUDE_CLI_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return autoerr.Wrap(autoerr.Config, "parse CLAUDE_CLI_TIMEOUT", err)
		}
		cfg.ClaudeCLITimeoutSeconds = n
	}
	if v := os.Getenv("CLAUDE_CLI_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return autoerr.Wrap(autoerr.Config, "parse CLAUDE_CLI_MAX_RETRIES", err)
		}
		cfg.ClaudeCLIMaxRetries = n
	}
	if v := os.Getenv("CLAUDE_CLI_PERMISSION_MODE"); v != "" {
		cfg.ClaudeCLIPermissionMode = v
	}
	if v := os.Getenv("CLAUDE_CLI_VALIDATION_MODE"); v != "" {
		switch ValidationMode(strings.ToLower(v)) {
		case ValidationLenient, ValidationStrict:
			cfg.ValidationMode = ValidationMode(strings.ToLower(v))
		default:
			return autoerr.New(autoerr.Config, fmt.Sprintf("invalid CLAUDE_CLI_VALIDATION_MODE %q (must be lenient or strict)", v))
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Validate checks the settings that must hold before any node runs.
// Hard errors are returned as a ConfigError; warnings are returned
// separately so the caller can print them without aborting.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	if cfg.AnthropicAPIKey == "" {
		errs = append(errs, "ANTHROPIC_API_KEY is required")
	}
	if cfg.MaxCodingIterations < 0 {
		errs = append(errs, fmt.Sprintf("max_coding_iterations cannot be negative: %d", cfg.MaxCodingIterations))
	} else if cfg.MaxCodingIterations > 500 {
		warnings = append(warnings, fmt.Sprintf("max_coding_iterations is very high: %d", cfg.MaxCodingIterations))
	}
	if cfg.ClaudeCLITimeoutSeconds < 0 {
		errs = append(errs, fmt.Sprintf("claude_cli_timeout cannot be negative: %d", cfg.ClaudeCLITimeoutSeconds))
	} else if cfg.ClaudeCLITimeoutSeconds > 0 && cfg.ClaudeCLITimeoutSeconds < 5 {
		errs = append(errs, fmt.Sprintf("claude_cli_timeout too low (minimum 5s): %d", cfg.ClaudeCLITimeoutSeconds))
	} else if cfg.ClaudeCLITimeoutSeconds > 86400 {
		warnings = append(warnings, fmt.Sprintf("claude_cli_timeout is very high: %ds", cfg.ClaudeCLITimeoutSeconds))
	}
	if cfg.ClaudeCLIMaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("claude_cli_max_retries cannot be negative: %d", cfg.ClaudeCLIMaxRetries))
	}
	switch cfg.CheckpointBackend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Sprintf("invalid checkpoint backend %q", cfg.CheckpointBackend))
	}
	switch cfg.ValidationMode {
	case ValidationLenient, ValidationStrict:
	default:
		errs = append(errs, fmt.Sprintf("invalid validation mode %q", cfg.ValidationMode))
	}

	if len(errs) > 0 {
		return warnings, autoerr.New(autoerr.Config, strings.Join(errs, "; "))
	}
	return warnings, nil
}

// Load assembles a Config from defaults, an optional file, and the
// environment, then validates it. Warnings are returned for the caller
// to print; a non-nil error is always a ConfigError.
func Load(filePath string) (*Config, []string, error) {
	cfg := Defaults()
	if err := LoadFile(cfg, filePath); err != nil {
		return nil, nil, err
	}
	if err := LoadEnv(cfg); err != nil {
		return nil, nil, err
	}
	warnings, err := Validate(cfg)
	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}
