// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	EnvDB              = "WORKPLAN_DB"
	EnvLogLevel        = "WORKPLAN_LOG_LEVEL"
	EnvLogFormat       = "WORKPLAN_LOG_FORMAT"
	EnvOverrideActors  = "WORKPLAN_OVERRIDE_ACTORS"
	FormatJSON         = "json"
	FormatConsole      = "console"
	defaultDirName     = ".workplan"
	defaultDBFileName  = "workplan.db"
	defaultLogLevel    = "info"
	overrideActorDelim = ","
)

type Config struct {
	DBPath         string
	LogLevel       zerolog.Level
	LogFormat      string // json, console or empty for auto-detect
	OverrideActors []string
}

// Default returns the settings used when nothing is set in the environment.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return Config{
		DBPath:   filepath.Join(home, defaultDirName, defaultDBFileName),
		LogLevel: zerolog.InfoLevel,
	}, nil
}

// Load overlays the process environment on Default.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom overlays values returned by getenv on Default.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg, err := Default()
	if err != nil && getenv(EnvDB) == "" {
		return Config{}, err
	}

	if v := getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}

	level := strings.ToLower(strings.TrimSpace(getenv(EnvLogLevel)))
	if level == "" {
		level = defaultLogLevel
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(level); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	switch format := strings.ToLower(strings.TrimSpace(getenv(EnvLogFormat))); format {
	case "", FormatJSON, FormatConsole:
		cfg.LogFormat = format
	default:
		return Config{}, fmt.Errorf("%s: unknown format %q (expected json or console)", EnvLogFormat, format)
	}

	for _, id := range strings.Split(getenv(EnvOverrideActors), overrideActorDelim) {
		if id = strings.TrimSpace(id); id != "" {
			cfg.OverrideActors = append(cfg.OverrideActors, id)
		}
	}
	return cfg, nil
}

// EnsureDBDir creates the directory holding the database file.
func (c Config) EnsureDBDir() error {
	if c.DBPath == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}
