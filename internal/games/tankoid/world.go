package tankoid

import (
	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/games/tankoid/levels"
)

// Border indices into the slice returned by Borders.
const (
	BorderLeft = iota
	BorderRight
	BorderTop
	BorderBottom
)

// Borders returns the four walls around the field. Each is thickness units
// deep and overlaps its neighbours at the corners.
func Borders(cfg config.TankoidConfig) []core.Rect {
	w, h := cfg.World.Width, cfg.World.Height
	t := cfg.Borders.Thickness
	return []core.Rect{
		BorderLeft:   core.NewRect(-t, -t, t, h+2*t),
		BorderRight:  core.NewRect(w, -t, t, h+2*t),
		BorderTop:    core.NewRect(-t, -t, w+2*t, t),
		BorderBottom: core.NewRect(-t, h, w+2*t, t),
	}
}

// LevelFormat returns the grid format level files are validated against.
func LevelFormat(cfg config.TankoidConfig) levels.Format {
	return levels.Format{
		Cols:    cfg.Level.Cols,
		Rows:    cfg.Level.Rows,
		Palette: Palette(cfg),
	}
}

// LevelLayout returns the world-space placement of level cells.
func LevelLayout(cfg config.TankoidConfig) levels.Layout {
	return levels.Layout{
		WorldW:    cfg.World.Width,
		BrickW:    cfg.Bricks.Width,
		BrickH:    cfg.Bricks.Height,
		Gap:       cfg.Bricks.Gap,
		TopMargin: cfg.Bricks.TopMargin,
	}
}

// Palette converts the configured palette. Unknown color names render in
// the default color; Validate reports them before play starts.
func Palette(cfg config.TankoidConfig) levels.Palette {
	p := make(levels.Palette, len(cfg.Palette))
	for _, e := range cfg.Palette {
		color, _ := core.ParseColor(e.Color)
		p[e.Digit] = levels.BrickKind{Color: color, Points: e.Points, Empty: e.Empty}
	}
	return p
}

// paddleRect places a paddle of the given width centered on x, resting
// bottom_offset units above the bottom of the world.
func paddleRect(cfg config.TankoidConfig, centerX, width float64) core.Rect {
	h := cfg.Paddle.Height
	centerY := cfg.World.Height - h/2 - cfg.Paddle.BottomOffset
	return core.RectAround(core.V(centerX, centerY), width/2, h/2)
}

// restingBall returns the ball center while it sits on the paddle.
func restingBall(paddle core.Rect) core.Vec2 {
	return paddle.Center().Sub(core.V(0, paddle.H))
}
