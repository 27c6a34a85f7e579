// Package config loads the optional docker-init configuration file and the
// environment for the main command. The supervision core never reads
// files; everything here belongs to the CLI layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cablehead/docker-init/internal/domain"
)

// Config represents the optional docker-init configuration file. Every
// field has a zero value meaning "not set"; command-line flags that were
// explicitly passed win over config values.
type Config struct {
	// GracePeriod is a duration string ("10s") bounding graceful stops.
	GracePeriod string `yaml:"grace_period"`
	// KillAllOnExit controls the final namespace sweep. nil keeps the
	// default (enabled).
	KillAllOnExit *bool `yaml:"kill_all_on_exit"`
	// Quiet raises the minimum logged severity to warnings.
	Quiet bool `yaml:"quiet"`
	// Verbose enables debug logging. Quiet wins when both are set.
	Verbose bool `yaml:"verbose"`
	// EnvFile is an optional dotenv file merged into the main command's
	// environment.
	EnvFile string `yaml:"env_file"`
	// Env is merged into the main command's environment, over EnvFile.
	Env map[string]string `yaml:"env"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GracePeriodDuration returns the configured grace period, or fallback when
// none is set. Validate guarantees the value parses.
func (c *Config) GracePeriodDuration(fallback time.Duration) time.Duration {
	if c.GracePeriod == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.GracePeriod)
	if err != nil {
		return fallback
	}
	return d
}
