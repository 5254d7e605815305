package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recognized tag symbols of the default configuration.
const (
	Building   = "👨🏻‍💻"
	Leadership = "👨🏻‍🏫"
	Etc        = "😴"
)

// DefaultAvailableHours is the weekly hour budget used when nothing else is set.
const DefaultAvailableHours = 40

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Tag is a recognized category marker and its share of the available hours.
type Tag struct {
	Symbol string  `yaml:"symbol"`
	Name   string  `yaml:"name"`
	Target float64 `yaml:"target"`
}

// Config holds the worktime configuration.
type Config struct {
	AvailableHours float64 `yaml:"available_hours"`

	// Tags is ordered; report columns follow this order.
	Tags []Tag `yaml:"tags"`

	// Prefix is the lead-in stripped from event description lines.
	Prefix string `yaml:"prefix"`

	// AllowNegativeRanges keeps ranges whose end is before their start
	// as negative durations instead of failing the run.
	AllowNegativeRanges bool `yaml:"allow_negative_ranges"`

	DatabasePath string `yaml:"database_path"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		AvailableHours: DefaultAvailableHours,
		Tags: []Tag{
			{Symbol: Building, Name: "building", Target: 0.4},
			{Symbol: Leadership, Name: "leadership", Target: 0.4},
			{Symbol: Etc, Name: "etc", Target: 0.2},
		},
		Prefix:       "Scheduled: ",
		DatabasePath: filepath.Join(Dir(), "worktime.db"),
		LogLevel:     "info",
	}
}

// Dir is the per-user worktime directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".worktime")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error. Env overrides are applied and the result validated.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv("WORKTIME_HOURS")); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: WORKTIME_HOURS %q is not a number", ErrInvalid, v)
		}
		c.AvailableHours = hours
	}
	if v := os.Getenv("WORKTIME_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("WORKTIME_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the tag set is usable and the targets add up.
func (c *Config) Validate() error {
	if c.AvailableHours <= 0 {
		return fmt.Errorf("%w: available_hours must be positive, got %v", ErrInvalid, c.AvailableHours)
	}
	if len(c.Tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Tags))
	var sum float64
	for _, t := range c.Tags {
		if t.Symbol == "" {
			return fmt.Errorf("%w: tag %q has no symbol", ErrInvalid, t.Name)
		}
		if seen[t.Symbol] {
			return fmt.Errorf("%w: duplicate tag %s", ErrInvalid, t.Symbol)
		}
		seen[t.Symbol] = true
		if t.Target < 0 || t.Target > 1 {
			return fmt.Errorf("%w: target for %s must be between 0 and 1", ErrInvalid, t.Symbol)
		}
		sum += t.Target
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: tag targets sum to %v, want 1", ErrInvalid, sum)
	}
	return nil
}

// Symbols returns the recognized tag symbols in report order.
func (c *Config) Symbols() []string {
	symbols := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		symbols[i] = t.Symbol
	}
	return symbols
}
