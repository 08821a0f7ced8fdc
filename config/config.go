// Package config reads the olympos.yaml run configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// TickIntervalMs is the real-time tick period. Zero means the world
	// only advances when the player acts.
	TickIntervalMs int `yaml:"tick_interval_ms"`

	Abilities string `yaml:"abilities"`
	Behaviors string `yaml:"behaviors"`
	Scenario  string `yaml:"scenario"`

	// EventRange is how far from the player events are shown.
	EventRange int `yaml:"event_range"`

	Log Log `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TickIntervalMs: 0,
		Abilities:      "resources/abilities.json",
		Behaviors:      "resources/behaviors.json",
		Scenario:       "resources/scenario.lua",
		EventRange:     10,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.TickIntervalMs < 0:
		return fmt.Errorf("tick_interval_ms must not be negative, got %d", c.TickIntervalMs)
	case c.EventRange < 0:
		return fmt.Errorf("event_range must not be negative, got %d", c.EventRange)
	case c.Abilities == "" || c.Behaviors == "":
		return fmt.Errorf("abilities and behaviors paths are required")
	case c.Scenario == "":
		return fmt.Errorf("scenario path is required")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// TickInterval is TickIntervalMs as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// RealTime reports whether the world ticks on its own.
func (c Config) RealTime() bool {
	return c.TickIntervalMs > 0
}
