package tankoid

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/physics"
)

// Visual characters for rendering
const (
	PaddleChar = '='
	BallChar   = '●'
	BrickChar  = '█'
	BrickEdge  = '▌'
	HUDLine    = '─'
)

// hudRows is the number of screen rows above the field.
const hudRows = 2

// viewport maps world units onto screen cells below the HUD.
type viewport struct {
	sx, sy float64
	top    int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	return viewport{
		sx:  float64(dst.Width()) / g.cfg.World.Width,
		sy:  float64(dst.Height()-hudRows) / g.cfg.World.Height,
		top: hudRows,
	}
}

func (v viewport) cellRect(r core.Rect) core.CellRect {
	x0 := int(math.Floor(r.X * v.sx))
	y0 := int(math.Floor(r.Y * v.sy))
	x1 := int(math.Floor(r.Right() * v.sx))
	y1 := int(math.Floor(r.Bottom() * v.sy))
	return core.CellRect{
		X: x0,
		Y: y0 + v.top,
		W: max(x1-x0, 1),
		H: max(y1-y0, 1),
	}
}

func (v viewport) cell(p core.Vec2) (int, int) {
	return int(math.Floor(p.X * v.sx)), int(math.Floor(p.Y*v.sy)) + v.top
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Check for screen too small
	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	vp := g.viewport(dst)
	g.renderHUD(dst)
	g.renderBricks(dst, vp)
	dst.DrawRect(vp.cellRect(g.paddle), PaddleChar, core.ColorWhite)
	bx, by := vp.cell(g.ball.Position)
	dst.SetColored(bx, by, BallChar, core.ColorYellow)
	g.renderOverlay(dst)
}

// renderHUD draws the score, level and brick count.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", g.score))

	name := ""
	if lvl, ok := g.Level(); ok {
		name = lvl.Name
	}
	var levelText string
	if g.mode == ModeEndless {
		levelText = fmt.Sprintf("Level %d: %s", g.State().Level, name)
	} else {
		levelText = fmt.Sprintf("Level %d/%d: %s", g.levelIndex+1, len(g.levels), name)
	}
	dst.DrawTextCentered(0, levelText)

	bricksText := fmt.Sprintf("Bricks: %d", g.bricks.Len())
	dst.DrawTextRight(0, 1, bricksText)

	dst.DrawHLine(0, 1, dst.Width(), HUDLine)
	dst.Set(1, 1, hitGlyph(g.lastHit))
}

// renderBricks draws all live bricks in their palette colors.
func (g *Game) renderBricks(dst *core.Screen, vp viewport) {
	palette := Palette(g.cfg)
	for _, b := range g.bricks.Bricks() {
		r := vp.cellRect(b.Rect)
		color := palette[b.Type].Color
		dst.DrawRect(r, BrickChar, color)
		if r.W >= 3 {
			dst.DrawVLine(r.Right()-1, r.Y, r.H, BrickEdge, color)
		}
	}
}

// renderOverlay draws state messages over the field.
func (g *Game) renderOverlay(dst *core.Screen) {
	mid := dst.Height() / 2
	switch {
	case g.paused:
		dst.DrawTextCentered(mid, " PAUSED ")
		dst.DrawTextCentered(mid+1, " P to resume ")
	case g.state == StateStart:
		dst.DrawTextCentered(mid+2, " SPACE to launch, arrows to move ")
	case g.state == StateDie:
		dst.DrawTextCentered(mid, " GAME OVER ")
		dst.DrawTextCentered(mid+1, fmt.Sprintf(" Score: %d ", g.score))
		dst.DrawTextCentered(mid+2, " R to restart, Q to quit ")
	case g.state == StateWin && g.finished():
		dst.DrawTextCentered(mid, " CAMPAIGN COMPLETE ")
		dst.DrawTextCentered(mid+1, fmt.Sprintf(" Score: %d ", g.score))
		dst.DrawTextCentered(mid+2, " R to play again, Q to quit ")
	case g.state == StateWin:
		dst.DrawTextCentered(mid, " LEVEL CLEAR ")
		dst.DrawTextCentered(mid+1, " ENTER for the next level ")
	}
}

// hitGlyph marks the face struck by the last collision.
func hitGlyph(c *physics.Candidate) rune {
	if c == nil {
		return HUDLine
	}
	switch c.Side {
	case physics.SideLeft:
		return '>'
	case physics.SideRight:
		return '<'
	case physics.SideTop:
		return 'v'
	case physics.SideBottom:
		return '^'
	default:
		return HUDLine
	}
}
