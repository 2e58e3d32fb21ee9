// Package config loads cc-pulse configuration from a TOML file with
// XDG-aware path resolution and environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the top-level cc-pulse configuration.
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Modules     ModulesConfig     `toml:"modules"`
	SessionTime SessionTimeConfig `toml:"session_time"`
}

// GeneralConfig holds line-rendering and logging options.
type GeneralConfig struct {
	// MaxWidth is the visible-width budget for the composed line. Zero
	// means autodetect from the terminal, falling back to 80.
	MaxWidth int `toml:"max_width"`

	// Separator is placed between widget segments.
	Separator string `toml:"separator"`

	// Color enables ANSI color output. Ignored when stdout is not a
	// terminal or NO_COLOR is set.
	Color bool `toml:"color"`

	// LogLevel is the slog level name: debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// ModulesConfig controls which widgets render and in what order.
type ModulesConfig struct {
	// Order overrides the left-to-right widget order. Names not listed
	// keep their registration order after the listed ones.
	Order []string `toml:"order"`

	// Enabled holds per-widget overrides of the default enabled state.
	Enabled map[string]bool `toml:"enabled"`
}

// SessionTimeConfig holds session time widget options.
type SessionTimeConfig struct {
	// Format is the default elapsed-time format: "short" or "long".
	// The persisted per-session preference wins over this default.
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			MaxWidth:  0,
			Separator: "│",
			Color:     true,
			LogLevel:  "info",
		},
		Modules: ModulesConfig{
			Enabled: make(map[string]bool),
		},
		SessionTime: SessionTimeConfig{
			Format: "short",
		},
	}
}

// Load reads configuration from the standard config path. Search order:
//
//  1. $XDG_CONFIG_HOME/cc-pulse/config.toml
//  2. ~/.config/cc-pulse/config.toml
//
// If no file exists, defaults are returned. A file that exists but fails
// to parse is an error: a broken config is a caller mistake, not a
// runtime data gap.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if cfg.Modules.Enabled == nil {
		cfg.Modules.Enabled = make(map[string]bool)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides checks environment variables and overrides config
// values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CCPULSE_MAX_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.General.MaxWidth = n
		}
	}
	if os.Getenv("CCPULSE_NO_COLOR") != "" || os.Getenv("NO_COLOR") != "" {
		cfg.General.Color = false
	}
	if v := os.Getenv("CCPULSE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "cc-pulse", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "cc-pulse", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
