// Package config provides YAML/TOML game configuration loading and
// difficulty management for tankoid.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tankoid/internal/core"
)

// TankoidConfig contains all configuration for the game. It is built once
// at startup and treated as immutable afterwards.
type TankoidConfig struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Paddle     PaddleConfig     `yaml:"paddle" toml:"paddle"`
	Ball       BallConfig       `yaml:"ball" toml:"ball"`
	Bricks     BricksConfig     `yaml:"bricks" toml:"bricks"`
	Level      LevelConfig      `yaml:"level" toml:"level"`
	Palette    []PaletteEntry   `yaml:"palette" toml:"palette"`
	Borders    BordersConfig    `yaml:"borders" toml:"borders"`
	Gameplay   GameplayConfig   `yaml:"gameplay" toml:"gameplay"`
	Spectate   SpectateConfig   `yaml:"spectate" toml:"spectate"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// WorldConfig is the play field size in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PaddleConfig defines the paddle.
type PaddleConfig struct {
	Width        float64 `yaml:"width" toml:"width"`
	Height       float64 `yaml:"height" toml:"height"`
	BottomOffset float64 `yaml:"bottom_offset" toml:"bottom_offset"` // Gap between paddle and world bottom
	Speed        float64 `yaml:"speed" toml:"speed"`                 // Units per second
	HoldTicks    int     `yaml:"hold_ticks" toml:"hold_ticks"`       // Ticks a key press keeps the paddle moving
}

// BallConfig defines the ball and its launch.
type BallConfig struct {
	Radius          float64   `yaml:"radius" toml:"radius"`
	Speed           float64   `yaml:"speed" toml:"speed"` // Launch speed, units per second
	LaunchDirection Direction `yaml:"launch_direction" toml:"launch_direction"`
}

// Direction is a 2D direction; it need not be normalized.
type Direction struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// Vec converts the direction to a core vector.
func (d Direction) Vec() core.Vec2 {
	return core.V(d.X, d.Y)
}

// BricksConfig defines brick size and grid placement.
type BricksConfig struct {
	Width     float64 `yaml:"width" toml:"width"`
	Height    float64 `yaml:"height" toml:"height"`
	Gap       float64 `yaml:"gap" toml:"gap"`
	TopMargin float64 `yaml:"top_margin" toml:"top_margin"`
}

// LevelConfig defines level file dimensions.
type LevelConfig struct {
	Cols int `yaml:"cols" toml:"cols"`
	Rows int `yaml:"rows" toml:"rows"`
}

// PaletteEntry maps a level digit to a brick kind.
type PaletteEntry struct {
	Digit  int    `yaml:"digit" toml:"digit"`
	Color  string `yaml:"color" toml:"color"`
	Points int    `yaml:"points" toml:"points"`
	Empty  bool   `yaml:"empty,omitempty" toml:"empty,omitempty"`
}

// BordersConfig defines the invisible walls around the field.
type BordersConfig struct {
	Thickness float64 `yaml:"thickness" toml:"thickness"`
}

// GameplayConfig defines scoring rules.
type GameplayConfig struct {
	ClearBonus int `yaml:"clear_bonus" toml:"clear_bonus"` // Awarded on clearing a level
}

// SpectateConfig defines the spectator stream.
type SpectateConfig struct {
	BroadcastEvery int `yaml:"broadcast_every" toml:"broadcast_every"` // Ticks between snapshots
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier" toml:"speed_multiplier"` // Multiplier added to launch speed at max difficulty
	PaddleShrink    float64 `yaml:"paddle_shrink" toml:"paddle_shrink"`       // Fraction of paddle width lost at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Validate rejects configurations the simulation cannot run with.
func (c TankoidConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("world.width", c.World.Width)
	positive("world.height", c.World.Height)
	positive("paddle.width", c.Paddle.Width)
	positive("paddle.height", c.Paddle.Height)
	positive("paddle.speed", c.Paddle.Speed)
	positive("ball.radius", c.Ball.Radius)
	positive("ball.speed", c.Ball.Speed)
	positive("bricks.width", c.Bricks.Width)
	positive("bricks.height", c.Bricks.Height)
	positive("borders.thickness", c.Borders.Thickness)

	if c.Bricks.Gap < 0 {
		errs = append(errs, fmt.Errorf("bricks.gap must not be negative, got %v", c.Bricks.Gap))
	}
	if c.Paddle.HoldTicks < 0 {
		errs = append(errs, fmt.Errorf("paddle.hold_ticks must not be negative, got %d", c.Paddle.HoldTicks))
	}
	if c.Level.Cols <= 0 || c.Level.Rows <= 0 {
		errs = append(errs, fmt.Errorf("level size must be positive, got %dx%d", c.Level.Cols, c.Level.Rows))
	}
	if c.Ball.LaunchDirection.Vec().IsZero() {
		errs = append(errs, errors.New("ball.launch_direction must not be zero"))
	}

	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must not be empty"))
	}
	seen := make(map[int]bool, len(c.Palette))
	for _, p := range c.Palette {
		if p.Digit < 0 || p.Digit > 9 {
			errs = append(errs, fmt.Errorf("palette digit %d out of range 0-9", p.Digit))
		}
		if seen[p.Digit] {
			errs = append(errs, fmt.Errorf("palette digit %d defined twice", p.Digit))
		}
		seen[p.Digit] = true
		if _, ok := core.ParseColor(p.Color); !ok && !p.Empty {
			errs = append(errs, fmt.Errorf("palette digit %d: unknown color %q", p.Digit, p.Color))
		}
	}

	return errors.Join(errs...)
}
