// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile describes one emulated network scenario. The trace paths are
// consumed by mm-link and are opaque to the driver.
type Profile struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	DelayMS       int    `yaml:"delay_ms"`
	UplinkTrace   string `yaml:"uplink_trace"`
	DownlinkTrace string `yaml:"downlink_trace"`
}

// Runner describes how to invoke the external congestion-control test
// framework. Command and Args form an explicit argv; no shell state is
// inherited beyond Env.
type Runner struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Workdir string   `yaml:"workdir"`
	Env     []string `yaml:"env"`
}

// BenchConfig is the root configuration for a benchmark batch.
type BenchConfig struct {
	Algorithms     []string  `yaml:"algorithms"`
	Profiles       []Profile `yaml:"profiles"`
	ResultsRoot    string    `yaml:"results_root"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	Runner         Runner    `yaml:"runner"`
}

// Timeout returns the per-run wall-clock timeout.
func (c *BenchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load loads YAML config, validates it against a CUE schema, then applies
// semantic checks the schema cannot express.
func Load(configPath, cueSchemaPath string) (*BenchConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg BenchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BenchConfig) applyDefaults() {
	if c.ResultsRoot == "" {
		c.ResultsRoot = "."
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 600
	}
	if c.Runner.Command == "" {
		c.Runner.Command = "python3"
		c.Runner.Args = []string{"tests/test_schemes.py"}
	}
}

// Check verifies constraints that must hold before any run starts.
func (c *BenchConfig) Check() error {
	if len(c.Algorithms) == 0 {
		return fmt.Errorf("config: algorithms list is empty")
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("config: profiles list is empty")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	seen := make(map[string]struct{}, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("config: profile with empty name")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("config: duplicate profile name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.DelayMS < 0 {
			return fmt.Errorf("config: profile %q: delay_ms must be >= 0", p.Name)
		}
		if p.UplinkTrace == "" || p.DownlinkTrace == "" {
			return fmt.Errorf("config: profile %q: uplink_trace and downlink_trace are required", p.Name)
		}
	}
	algos := make(map[string]struct{}, len(c.Algorithms))
	for _, a := range c.Algorithms {
		if a == "" {
			return fmt.Errorf("config: empty algorithm name")
		}
		if _, dup := algos[a]; dup {
			return fmt.Errorf("config: duplicate algorithm %q", a)
		}
		algos[a] = struct{}{}
	}
	return nil
}
