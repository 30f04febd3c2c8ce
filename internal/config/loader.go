package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory under $HOME.
const AppDir = ".tankoid"

// configNames are tried in order in each search directory.
var configNames = []string{"tankoid.yaml", "tankoid.yml", "tankoid.toml"}

// LoadTankoid loads the game configuration.
// Search order: customPath -> ~/.tankoid/configs/tankoid.{yaml,toml} ->
// ./configs/tankoid.{yaml,toml} -> embedded default.
// Keys missing from a file keep their default values.
func LoadTankoid(customPath string) (TankoidConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TankoidConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(customPath, data)
		if err != nil {
			return TankoidConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, AppDir, "configs"))
	}
	dirs = append(dirs, "configs")

	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if cfg, err := decode(path, data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := decode("tankoid.yaml", defaultTankoidYAML)
	if err != nil {
		return DefaultTankoidConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decode unmarshals data over the defaults, picking the format from the
// file extension.
func decode(path string, data []byte) (TankoidConfig, error) {
	cfg := DefaultTankoidConfig()
	// A file that sets a palette replaces the default one entirely.
	cfg.Palette = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return TankoidConfig{}, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return TankoidConfig{}, err
		}
	}

	if cfg.Palette == nil {
		cfg.Palette = DefaultTankoidConfig().Palette
	}
	return cfg, nil
}

// UserDir returns ~/.tankoid, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir)
}

// ApplyTankoidPreset modifies the config based on a difficulty preset.
func ApplyTankoidPreset(cfg *TankoidConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Paddle.Width = 180
		cfg.Ball.Speed = 800
	case DifficultyHard:
		cfg.Paddle.Width = 110
		cfg.Ball.Speed = 1150
	}
}
