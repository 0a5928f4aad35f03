// Package config loads tool configuration from YAML with sane defaults.
// CLI flags override anything set here.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Strategy       string `yaml:"strategy"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxMemoryMB    int    `yaml:"max_memory_mb"`
	StatusInterval int    `yaml:"status_interval"`

	Trace TraceConfig `yaml:"trace,omitempty"`
	Viz   VizConfig   `yaml:"viz,omitempty"`
}

type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type VizConfig struct {
	Addr string `yaml:"addr"`
}

var strategies = []string{"bfs", "dfs", "astar", "wastar", "greedy"}

// Load reads the YAML file at path, applied over defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("gridplan.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("gridplan.yaml: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Strategy:       "bfs",
		TimeoutSeconds: 180,
		MaxMemoryMB:    4096,
		StatusInterval: 10000,
		Trace:          TraceConfig{Dir: "traces"},
		Viz:            VizConfig{Addr: "127.0.0.1:8080"},
	}
}

func (c Config) Validate() error {
	ok := false
	for _, s := range strategies {
		if c.Strategy == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unknown strategy %q (want one of %s)", c.Strategy, strings.Join(strategies, ", "))
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0, got %d", c.TimeoutSeconds)
	}
	if c.MaxMemoryMB < 0 {
		return fmt.Errorf("max_memory_mb must be >= 0, got %d", c.MaxMemoryMB)
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status_interval must be > 0, got %d", c.StatusInterval)
	}
	return nil
}
