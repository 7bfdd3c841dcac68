package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	VaultDir string `json:"vault_dir,omitempty"`
	TaskDB   string `json:"task_db"`
	Timezone string `json:"timezone,omitempty"`

	// Location is the resolved time zone (computed, not serialized).
	Location *time.Location `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global   string // Path to global config if loaded, empty otherwise
	Explicit string // Path to explicit -c config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration: the standard task
// database location and the local time zone.
func DefaultConfig() Config {
	return Config{
		TaskDB: "~/.task/taskchampion.sqlite3",
	}
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	ConfigPath       string            // -c/--config flag value
	VaultOverride    string            // -v/--vault flag value
	TaskDBOverride   string            // --task-db flag value
	TimezoneOverride string            // --tz flag value
	Env              map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest
// wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/sharptask/config.json or
// ~/.config/sharptask/config.json)
// 3. Explicit config file via -c (must exist when given)
// 4. CLI overrides.
//
// Config files are hujson (JSON with comments and trailing commas). Paths
// get ~ expanded against $HOME and the timezone name is resolved.
func LoadConfig(input LoadConfigInput) (Config, error) {
	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadConfigFile(globalConfigPath(input.Env), false)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	if input.ConfigPath != "" {
		explicitCfg, explicitPath, err := loadConfigFile(input.ConfigPath, true)
		if err != nil {
			return Config{}, err
		}

		cfg.Sources.Explicit = explicitPath
		cfg = mergeConfig(cfg, explicitCfg)
	}

	if input.VaultOverride != "" {
		cfg.VaultDir = input.VaultOverride
	}

	if input.TaskDBOverride != "" {
		cfg.TaskDB = input.TaskDBOverride
	}

	if input.TimezoneOverride != "" {
		cfg.Timezone = input.TimezoneOverride
	}

	cfg.VaultDir = expandHome(cfg.VaultDir, input.Env)
	cfg.TaskDB = expandHome(cfg.TaskDB, input.Env)

	if cfg.TaskDB == "" {
		return Config{}, errTaskDBEmpty
	}

	cfg.Location, err = resolveLocation(cfg.Timezone)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var (
	errTaskDBEmpty = errors.New("task_db cannot be empty")
	errBadTimezone = errors.New("unknown timezone")
)

// globalConfigPath returns the path to the global config file. Uses
// $XDG_CONFIG_HOME/sharptask/config.json if set, otherwise
// ~/.config/sharptask/config.json. Empty when no home is known.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "sharptask", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "sharptask", "config.json")
	}

	return ""
}

// loadConfigFile reads and parses one hujson config file. A missing file is
// an error only when the path was explicitly requested.
func loadConfigFile(path string, required bool) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if required {
			return Config{}, "", fmt.Errorf("config file not found: %s", path)
		}

		return Config{}, "", nil
	}

	if err != nil {
		return Config{}, "", fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, "", fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, path, nil
}

// mergeConfig overlays non-empty fields of override onto base.
func mergeConfig(base, override Config) Config {
	if override.VaultDir != "" {
		base.VaultDir = override.VaultDir
	}

	if override.TaskDB != "" {
		base.TaskDB = override.TaskDB
	}

	if override.Timezone != "" {
		base.Timezone = override.Timezone
	}

	return base
}

// expandHome replaces a leading ~ with $HOME.
func expandHome(path string, env map[string]string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home := env["HOME"]; home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}

// resolveLocation resolves a timezone name, defaulting to the system's
// local zone.
func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadTimezone, name)
	}

	return loc, nil
}

// FormatConfig renders the serializable part of a config as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
