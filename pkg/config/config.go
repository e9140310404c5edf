// Package config defines the configuration for building a cross-run report.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/schema"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/stats"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/summary"
)

// Malformed-run policies.
const (
	OnMalformedAbort = "abort"
	OnMalformedSkip  = "skip"
)

// Config holds all options for one report build.
type Config struct {
	// Input/Output
	RawDir         string `yaml:"raw_dir"`         // Directory holding per-level summary files
	OutputDir      string `yaml:"output_dir"`      // Directory for generated artifacts
	StatsPattern   string `yaml:"stats_pattern"`   // fmt pattern taking the level, e.g. %d_users_stats.csv
	HistoryPattern string `yaml:"history_pattern"` // fmt pattern for the time-series file

	// Campaign
	Levels         []int   `yaml:"levels"`           // Concurrency levels, in report order
	SLAThresholdMs float64 `yaml:"sla_threshold_ms"` // Response time counted as a violation

	// Input format
	Schema        string `yaml:"schema"`         // Registered schema name
	AggregateName string `yaml:"aggregate_name"` // Overrides the schema's combined-row identifier

	// Processing
	Parallel    bool   `yaml:"parallel"`     // Load levels concurrently
	OnMalformed string `yaml:"on_malformed"` // abort|skip

	// Reporting
	Bands          stats.Bands `yaml:"bands"`
	ReadEndpoints  []string    `yaml:"read_endpoints"`
	WriteEndpoints []string    `yaml:"write_endpoints"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // logrus level name
	LogFormat string `yaml:"log_format"` // text|json

	// Watch mode
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RawDir:         "results/raw",
		OutputDir:      "results/summary",
		StatsPattern:   summary.DefaultStatsPattern,
		HistoryPattern: summary.DefaultHistoryPattern,
		Levels:         []int{10, 25, 50, 100, 200},
		SLAThresholdMs: stats.DefaultSLAThresholdMs,
		Schema:         "locust",
		OnMalformed:    OnMalformedAbort,
		Bands:          stats.DefaultBands(),
		LogLevel:       "info",
		LogFormat:      "text",
		WatchDebounce:  2 * time.Second,
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the build cannot work with.
func (c *Config) Validate() error {
	if c.RawDir == "" {
		return errors.New("raw_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if len(c.Levels) == 0 {
		return errors.New("at least one concurrency level is required")
	}
	seen := make(map[int]bool, len(c.Levels))
	for _, l := range c.Levels {
		if l <= 0 {
			return fmt.Errorf("invalid concurrency level %d", l)
		}
		if seen[l] {
			return fmt.Errorf("duplicate concurrency level %d", l)
		}
		seen[l] = true
	}
	if c.SLAThresholdMs <= 0 {
		return fmt.Errorf("sla_threshold_ms must be positive, got %v", c.SLAThresholdMs)
	}
	switch c.OnMalformed {
	case OnMalformedAbort, OnMalformedSkip:
	default:
		return fmt.Errorf("invalid on_malformed '%s', must be one of: abort, skip", c.OnMalformed)
	}
	if c.Bands.WarnPct < 0 || c.Bands.CriticalPct < c.Bands.WarnPct || c.Bands.CriticalPct > 100 {
		return fmt.Errorf("invalid bands: warn %.1f%%, critical %.1f%%", c.Bands.WarnPct, c.Bands.CriticalPct)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format '%s', must be one of: text, json", c.LogFormat)
	}
	if _, err := schema.Get(c.Schema); err != nil {
		return err
	}
	return nil
}

// ResolveSchema returns the configured schema with any aggregate override applied.
func (c *Config) ResolveSchema() (*schema.Schema, error) {
	s, err := schema.Get(c.Schema)
	if err != nil {
		return nil, err
	}
	if c.AggregateName != "" {
		s.AggregateName = c.AggregateName
	}
	return s, nil
}
