// Package config loads the application configuration from YAML,
// falling back to defaults when no file exists.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"legato/internal/timing"
)

// SeverityConfig holds the adhesion grading thresholds in
// milliseconds.
type SeverityConfig struct {
	// MinorMs is the minimum overlap flagged at all.
	MinorMs int `yaml:"minor_ms"`

	// ModerateMs upgrades an overlap to moderate.
	ModerateMs int `yaml:"moderate_ms"`

	// SevereMs upgrades an overlap to severe.
	SevereMs int `yaml:"severe_ms"`
}

// CaptureConfig selects the event source.
type CaptureConfig struct {
	// Device overrides evdev device auto-detection (e.g.
	// /dev/input/event3). Empty means scan for a keyboard.
	Device string `yaml:"device"`

	// Synthetic replaces the hardware source with a deterministic
	// generated typing stream, for demos and development.
	Synthetic bool `yaml:"synthetic"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// Path is the log file location. The TUI owns the terminal, so
	// logs never go to stdout.
	Path string `yaml:"path"`
}

// Config holds the application configuration.
type Config struct {
	// Theme is the catppuccin flavor (mocha, macchiato, frappe, latte).
	Theme string `yaml:"theme"`

	// SessionsDir is where recorded sessions are saved and loaded.
	SessionsDir string `yaml:"sessions_dir"`

	// RepeatInitialMs is the OS auto-repeat delay before the first
	// synthetic repeat of a held key.
	RepeatInitialMs int `yaml:"repeat_initial_ms"`

	// RepeatCadenceMs is the period between subsequent repeats.
	RepeatCadenceMs int `yaml:"repeat_cadence_ms"`

	// ViewWindowSeconds is the visible piano-roll time window.
	ViewWindowSeconds float64 `yaml:"view_window_seconds"`

	// KPSWindowSeconds is the sliding window for the keys-per-second
	// rate in the stats panel.
	KPSWindowSeconds float64 `yaml:"kps_window_seconds"`

	// Hotspots caps how many worst key pairs the stats panel shows.
	Hotspots int `yaml:"hotspots"`

	Severity SeverityConfig `yaml:"severity"`
	Capture  CaptureConfig  `yaml:"capture"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "legato")
	return &Config{
		Theme:             "mocha",
		SessionsDir:       filepath.Join(dataDir, "sessions"),
		RepeatInitialMs:   500,
		RepeatCadenceMs:   30,
		ViewWindowSeconds: 5.0,
		KPSWindowSeconds:  1.0,
		Hotspots:          3,
		Severity: SeverityConfig{
			MinorMs:    50,
			ModerateMs: 100,
			SevereMs:   150,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Path:   filepath.Join(dataDir, "legato.log"),
		},
	}
}

// Load reads the config from a YAML file, overlaying defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDefaultPath attempts to load config from standard locations:
// current dir, ~/.config/legato/, then XDG_CONFIG_HOME.
func LoadFromDefaultPath() (*Config, error) {
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "legato", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "legato", "config.yaml"))
	}

	for _, path := range paths {
		if _, err := os.Stat(filepath.Clean(path)); err == nil {
			return Load(path)
		}
	}

	return DefaultConfig(), nil
}

// Repeat converts the repeat fields into the normalizer's config.
func (c *Config) Repeat() timing.RepeatConfig {
	return timing.RepeatConfig{
		Initial: time.Duration(c.RepeatInitialMs) * time.Millisecond,
		Cadence: time.Duration(c.RepeatCadenceMs) * time.Millisecond,
	}
}

// Thresholds converts the severity fields into detector thresholds.
func (c *Config) Thresholds() timing.SeverityThresholds {
	return timing.SeverityThresholds{
		Minor:    time.Duration(c.Severity.MinorMs) * time.Millisecond,
		Moderate: time.Duration(c.Severity.ModerateMs) * time.Millisecond,
		Severe:   time.Duration(c.Severity.SevereMs) * time.Millisecond,
	}
}

// ViewWindow returns the visible time window as a duration.
func (c *Config) ViewWindow() time.Duration {
	return time.Duration(c.ViewWindowSeconds * float64(time.Second))
}

// KPSWindow returns the keys-per-second window as a duration.
func (c *Config) KPSWindow() time.Duration {
	return time.Duration(c.KPSWindowSeconds * float64(time.Second))
}
