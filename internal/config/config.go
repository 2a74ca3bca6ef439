// Package config loads testmozart configuration from YAML with environment
// variable overrides. The config file lives at .testmozart/config.yaml in the
// workspace; a missing file yields defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all testmozart configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Pipeline orchestration settings
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Sandboxed test execution settings
	Sandbox SandboxConfig `yaml:"sandbox"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the model completion backend.
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	// Model used by the design/implementation/debugging stages.
	Model string `yaml:"model"`
	// Timeout for a single completion call.
	Timeout string `yaml:"timeout"`
}

// PipelineConfig configures the orchestration core.
type PipelineConfig struct {
	// MaxIterations is the hard ceiling of the run/debug refinement loop.
	MaxIterations int `yaml:"max_iterations"`
	// DefaultLanguage is assumed when the request does not name one.
	DefaultLanguage string `yaml:"default_language"`
	// SandboxModule is the import name the sandbox ships the source under.
	SandboxModule string `yaml:"sandbox_module"`
	// ShippedModule is the import name the final suite is rewritten to.
	ShippedModule string `yaml:"shipped_module"`
}

// SandboxConfig configures the sandboxed test executor.
type SandboxConfig struct {
	// PythonBinary used to create the throwaway venv (python executor).
	PythonBinary string `yaml:"python_binary"`
	// TestTimeout bounds a single sandbox test run.
	TestTimeout string `yaml:"test_timeout"`
	// KeepWorkdir preserves the temp directory on failure for inspection.
	KeepWorkdir bool `yaml:"keep_workdir"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "testmozart",
		Version: "1.0.0",

		LLM: LLMConfig{
			Model:   "gemini-2.5-pro",
			Timeout: "120s",
		},

		Pipeline: PipelineConfig{
			MaxIterations:   3,
			DefaultLanguage: "python",
			SandboxModule:   "source_to_test",
			ShippedModule:   "sample_code",
		},

		Sandbox: SandboxConfig{
			PythonBinary: "python3",
			TestTimeout:  "120s",
			KeepWorkdir:  false,
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("TESTMOZART_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetTestTimeout returns the sandbox test timeout as a duration.
func (c *Config) GetTestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sandbox.TestTimeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Pipeline.MaxIterations < 1 {
		return fmt.Errorf("pipeline.max_iterations must be at least 1, got %d", c.Pipeline.MaxIterations)
	}
	if c.Pipeline.SandboxModule == "" || c.Pipeline.ShippedModule == "" {
		return fmt.Errorf("pipeline.sandbox_module and pipeline.shipped_module are required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

// DefaultPath returns the workspace-relative config path.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".testmozart", "config.yaml")
}
