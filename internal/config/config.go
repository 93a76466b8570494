// Package config loads tool settings from a .taskqueryrc YAML file using
// Viper, falling back to defaults when the file is absent.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/valter-silva-au/taskquery/internal/scoring"
)

// Config holds system-wide settings read from .taskqueryrc.
type Config struct {
	// TasksFile is the default task collection the CLI queries.
	TasksFile string

	// EventLog is the path of the JSONL query event log. Empty disables
	// event recording.
	EventLog string

	// MaxMatches caps matches per execution. Zero means unlimited.
	MaxMatches int

	// Scoring tunes the urgency scorer and attention lanes.
	Scoring scoring.Settings
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		TasksFile:  "tasks.yaml",
		EventLog:   "",
		MaxMatches: 0,
		Scoring:    scoring.DefaultSettings(),
	}
}

// Loader reads .taskqueryrc files.
type Loader interface {
	Load() (*Config, error)
}

type viperLoader struct {
	// basePath is the directory where .taskqueryrc resides.
	basePath string
}

// NewLoader creates a Loader that reads configuration relative to basePath.
func NewLoader(basePath string) Loader {
	return &viperLoader{basePath: basePath}
}

// Load reads the .taskqueryrc file from the base path using Viper. If the
// file does not exist, defaults are returned.
func (l *viperLoader) Load() (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName(".taskqueryrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("tasks_file", cfg.TasksFile)
	v.SetDefault("event_log", cfg.EventLog)
	v.SetDefault("engine.max_matches", cfg.MaxMatches)
	v.SetDefault("scoring.due_weight", cfg.Scoring.DueWeight)
	v.SetDefault("scoring.priority_weight", cfg.Scoring.PriorityWeight)
	v.SetDefault("scoring.scheduled_boost", cfg.Scoring.ScheduledBoost)
	v.SetDefault("scoring.future_start_drag", cfg.Scoring.FutureStartDrag)
	v.SetDefault("scoring.staleness_rate", cfg.Scoring.StalenessRate)
	v.SetDefault("scoring.lane_now_min", cfg.Scoring.LaneNowMin)
	v.SetDefault("scoring.lane_next_min", cfg.Scoring.LaneNextMin)
	v.SetDefault("scoring.lane_soon_min", cfg.Scoring.LaneSoonMin)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .taskqueryrc: %w", err)
	}

	cfg.TasksFile = v.GetString("tasks_file")
	cfg.EventLog = v.GetString("event_log")
	cfg.MaxMatches = v.GetInt("engine.max_matches")
	cfg.Scoring.DueWeight = v.GetFloat64("scoring.due_weight")
	cfg.Scoring.PriorityWeight = v.GetFloat64("scoring.priority_weight")
	cfg.Scoring.ScheduledBoost = v.GetFloat64("scoring.scheduled_boost")
	cfg.Scoring.FutureStartDrag = v.GetFloat64("scoring.future_start_drag")
	cfg.Scoring.StalenessRate = v.GetFloat64("scoring.staleness_rate")
	cfg.Scoring.LaneNowMin = v.GetFloat64("scoring.lane_now_min")
	cfg.Scoring.LaneNextMin = v.GetFloat64("scoring.lane_next_min")
	cfg.Scoring.LaneSoonMin = v.GetFloat64("scoring.lane_soon_min")

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating .taskqueryrc: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxMatches < 0 {
		return fmt.Errorf("engine.max_matches must not be negative")
	}
	if cfg.Scoring.LaneNowMin < cfg.Scoring.LaneNextMin || cfg.Scoring.LaneNextMin < cfg.Scoring.LaneSoonMin {
		return fmt.Errorf("lane thresholds must be ordered: now >= next >= soon")
	}
	return nil
}
