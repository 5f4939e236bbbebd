// Package config loads and validates the service configuration from a YAML or
// JSON file with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/transitdepot/rosterd/core/assign"
)

// Config is the root configuration for a planning run.
type Config struct {
	Horizon  HorizonConfig `json:"horizon"`
	Assign   assign.Config `json:"assign"`
	Roster   RosterConfig  `json:"roster"`
	History  HistoryConfig `json:"history"`
	Absences AbsenceConfig `json:"absences"`
	Metrics  MetricsConfig `json:"metrics"`
}

// Load reads the configuration at path. Environment variables prefixed with
// R_ override file values, with __ separating nesting levels.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("R_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "r_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset section with its defaults.
func (c *Config) SetDefaults() {
	c.Horizon.SetDefaults()
	c.Assign.SetDefaults()
	c.History.SetDefaults()
	c.Absences.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Horizon.Validate(); err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	if err := c.Assign.Validate(); err != nil {
		return fmt.Errorf("assign: %w", err)
	}
	if err := c.Roster.Validate(); err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Absences.Validate(); err != nil {
		return fmt.Errorf("absences: %w", err)
	}
	return nil
}
