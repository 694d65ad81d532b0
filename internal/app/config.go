package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/ninjagen/internal/hcl"
	"github.com/specialistvlad/ninjagen/internal/settings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourceDir string
	// BuildDir overrides the settings file when set.
	BuildDir     string
	ProjectFile  string
	SettingsFile string
	// SettingsExplicit makes a missing settings file an error.
	SettingsExplicit bool
	// Coverage overrides the settings file when set.
	Coverage *bool

	LogFormat string
	LogLevel  string

	// Check compares instead of writing.
	Check    bool
	Debounce time.Duration
}

// NewConfig validates cfg and resolves every path to an absolute one.
// Project and settings files default to well-known names in the source dir.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourceDir == "" {
		return nil, errors.New("SourceDir is a required configuration field and cannot be empty")
	}
	src, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source dir %s is not a directory", src)
	}
	cfg.SourceDir = src

	if cfg.ProjectFile == "" {
		cfg.ProjectFile = filepath.Join(src, hcl.FileName)
	} else if cfg.ProjectFile, err = filepath.Abs(cfg.ProjectFile); err != nil {
		return nil, err
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = filepath.Join(src, settings.FileName)
	} else if cfg.SettingsFile, err = filepath.Abs(cfg.SettingsFile); err != nil {
		return nil, err
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "auto", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'auto', 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.Debounce < 0 {
		return nil, errors.New("debounce must not be negative")
	}
	return &cfg, nil
}
