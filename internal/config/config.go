package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mikanfactory/pullchain/internal/model"
)

const (
	DefaultRemote         = "origin"
	DefaultMaxRows        = 50
	DefaultMaxBranches    = 512
	DefaultPickerHeight   = 20
	DefaultQueryLimit     = 127
	DefaultConflictMarker = "CONFLICT"
)

// Default returns a config with every field set to its default value.
func Default() model.Config {
	cfg := model.Config{}
	applyDefaults(&cfg)
	return cfg
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := expandHome(&cfg); err != nil {
		return model.Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return model.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func applyDefaults(cfg *model.Config) {
	if cfg.Remote == "" {
		cfg.Remote = DefaultRemote
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.MaxBranches == 0 {
		cfg.MaxBranches = DefaultMaxBranches
	}
	if cfg.PickerHeight == 0 {
		cfg.PickerHeight = DefaultPickerHeight
	}
	if cfg.QueryLimit == 0 {
		cfg.QueryLimit = DefaultQueryLimit
	}
	if cfg.ConflictMarker == "" {
		cfg.ConflictMarker = DefaultConflictMarker
	}
	if cfg.DebugLog == "" {
		cfg.DebugLog = "~/.config/pullchain/debug.log"
	}
}

func expandHome(cfg *model.Config) error {
	if !strings.HasPrefix(cfg.DebugLog, "~/") {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("expanding home directory: %w", err)
	}
	cfg.DebugLog = filepath.Join(home, cfg.DebugLog[2:])
	return nil
}

// Validate checks the bounds the rest of the program relies on.
func Validate(cfg model.Config) error {
	switch {
	case cfg.MaxRows < 1:
		return fmt.Errorf("max_rows must be at least 1, got %d", cfg.MaxRows)
	case cfg.MaxBranches < 1:
		return fmt.Errorf("max_branches must be at least 1, got %d", cfg.MaxBranches)
	case cfg.PickerHeight < 3:
		return fmt.Errorf("picker_height must be at least 3, got %d", cfg.PickerHeight)
	case cfg.QueryLimit < 1:
		return fmt.Errorf("query_limit must be at least 1, got %d", cfg.QueryLimit)
	case strings.TrimSpace(cfg.Remote) == "":
		return fmt.Errorf("remote must not be empty")
	case strings.TrimSpace(cfg.ConflictMarker) == "":
		return fmt.Errorf("conflict_marker must not be empty")
	}
	return nil
}

// DefaultConfigPath returns ~/.config/pullchain/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pullchain", "config.yaml"), nil
}

// Load resolves the config path and loads the config.
// An explicit flagPath must exist. A missing default file yields Default().
func Load(flagPath string) (model.Config, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return model.Config{}, fmt.Errorf("config file not found: %s", flagPath)
		}
		return LoadFromFile(flagPath)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return model.Config{}, err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := expandHome(&cfg); err != nil {
			return model.Config{}, err
		}
		return cfg, nil
	}

	return LoadFromFile(path)
}
