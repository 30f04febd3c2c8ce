package config

import (
	_ "embed"
)

//go:embed defaults/tankoid.yaml
var defaultTankoidYAML []byte

// DefaultTankoidConfig returns the default configuration.
func DefaultTankoidConfig() TankoidConfig {
	return TankoidConfig{
		World: WorldConfig{
			Width:  1024,
			Height: 768,
		},
		Paddle: PaddleConfig{
			Width:        140,
			Height:       30,
			BottomOffset: 20,
			Speed:        750,
			HoldTicks:    8,
		},
		Ball: BallConfig{
			Radius:          10,
			Speed:           990,
			LaunchDirection: Direction{X: 1, Y: -1},
		},
		Bricks: BricksConfig{
			Width:     50,
			Height:    25,
			Gap:       12,
			TopMargin: 50,
		},
		Level: LevelConfig{
			Cols: 10,
			Rows: 8,
		},
		Palette: []PaletteEntry{
			{Digit: 0, Color: "red", Points: 10},
			{Digit: 1, Color: "blue", Points: 20},
			{Digit: 2, Color: "green", Points: 30},
			{Digit: 3, Color: "white", Points: 40},
			{Digit: 9, Empty: true},
		},
		Borders: BordersConfig{
			Thickness: 1000,
		},
		Gameplay: GameplayConfig{
			ClearBonus: 500,
		},
		Spectate: SpectateConfig{
			BroadcastEvery: 2,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 10000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.4,
				PaddleShrink:    0.3,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTankoidYAML
}
