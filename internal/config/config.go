// Package config loads the tool configuration from defaults, an optional
// YAML file, DEBUGARGS_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jakoblorz/go-debugargs/internal/history"
	"github.com/jakoblorz/go-debugargs/internal/resolver"
	"github.com/jakoblorz/go-debugargs/internal/settings"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "DEBUGARGS"

// Config is the tool configuration.
type Config struct {
	Settings        SettingsConfig `mapstructure:"settings" yaml:"settings"`
	History         HistoryConfig  `mapstructure:"history" yaml:"history"`
	KnownProperties []string       `mapstructure:"known_properties" yaml:"known_properties"`
	Log             LogConfig      `mapstructure:"log" yaml:"log"`
}

// SettingsConfig selects where session state is persisted.
type SettingsConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path defaults to settings.yaml or settings.db in the config directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// HistoryConfig controls the recent command line list.
type HistoryConfig struct {
	MaxCount int `mapstructure:"max_count" yaml:"max_count"`
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"settings-backend": "settings.backend",
	"settings-path":    "settings.path",
	"max-recent":       "history.max_count",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// Dir returns the directory holding the configuration and settings files.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "debugargs"), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Settings:        SettingsConfig{Backend: string(settings.BackendFile)},
		History:         HistoryConfig{MaxCount: history.DefaultMaxCount},
		KnownProperties: append([]string(nil), resolver.DefaultKnownProperties...),
		Log:             LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the configuration. An empty path reads the default file when it
// exists; an explicit path must exist. Flags that were not changed on the
// command line do not override the file or the environment.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("settings.backend", cfg.Settings.Backend)
	v.SetDefault("settings.path", cfg.Settings.Path)
	v.SetDefault("history.max_count", cfg.History.MaxCount)
	v.SetDefault("known_properties", cfg.KnownProperties)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	if _, err := settings.ParseBackend(c.Settings.Backend); err != nil {
		return err
	}
	if c.History.MaxCount < 0 {
		return fmt.Errorf("history.max_count must not be negative, got %d", c.History.MaxCount)
	}
	for _, name := range c.KnownProperties {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("known_properties must not contain empty names")
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	return nil
}

// SettingsBackend returns the parsed settings backend.
func (c Config) SettingsBackend() settings.Backend {
	backend, err := settings.ParseBackend(c.Settings.Backend)
	if err != nil {
		return settings.BackendFile
	}
	return backend
}

// SettingsPath returns the settings file path, deriving it from the config
// directory when unset.
func (c Config) SettingsPath() (string, error) {
	if c.Settings.Path != "" {
		return c.Settings.Path, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.SettingsBackend() == settings.BackendSQLite {
		return filepath.Join(dir, "settings.db"), nil
	}
	return filepath.Join(dir, "settings.yaml"), nil
}
