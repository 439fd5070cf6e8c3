package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type EpisodeConfig struct {
	Name        string        `yaml:"name"`
	MaxSteps    int           `yaml:"max_steps"`
	Timeout     time.Duration `yaml:"timeout"`
	Agent       AgentConfig   `yaml:"agent"`
	Environment EnvConfig     `yaml:"environment"`
	Logging     LogConfig     `yaml:"logging"`
	Render      bool          `yaml:"render"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type AgentConfig struct {
	Kind        string `yaml:"kind"`    // scripted, random, llm or tool
	Backend     string `yaml:"backend"` // stdin, openai or gemini
	Model       string `yaml:"model"`
	MaxTries    int    `yaml:"max_tries"`
	Instruction string `yaml:"instruction"`
	Seed        int64  `yaml:"seed"`
	// Plan lists action names for the scripted agent. Empty means the
	// winning plan for the default layout.
	Plan []string `yaml:"plan"`
}

type EnvConfig struct {
	Layout []string `yaml:"layout"`
}

// Default returns an EpisodeConfig populated with all default values.
func Default() *EpisodeConfig {
	return &EpisodeConfig{
		Name:     "keydoor",
		MaxSteps: 100,
		Agent: AgentConfig{
			Kind:     "scripted",
			Backend:  "stdin",
			MaxTries: 5,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Render: true,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*EpisodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes on top of the defaults and validates the result.
func Parse(data []byte) (*EpisodeConfig, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no episode can run with.
func (c *EpisodeConfig) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.Agent.MaxTries <= 0 {
		return fmt.Errorf("agent.max_tries must be positive, got %d", c.Agent.MaxTries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Agent.Kind {
	case "scripted", "random", "llm", "tool":
	default:
		return fmt.Errorf("unknown agent kind %q", c.Agent.Kind)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}
