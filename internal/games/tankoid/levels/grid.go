// Package levels parses brick layouts and turns them into a brick arena.
//
// A level file is a plain text grid. Each character is a digit selecting
// an entry in the brick palette; the grid must match the configured
// dimensions exactly.
package levels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/physics"
)

// Load failures. Each is wrapped with context and can be matched with errors.Is.
var (
	ErrRowCount           = errors.New("wrong row count")
	ErrColumnCount        = errors.New("wrong column count")
	ErrInvalidBrickType   = errors.New("invalid brick type")
	ErrBrickTypeNotInPool = errors.New("brick type not in pool")
	ErrNoBricks           = errors.New("no bricks")
)

// BrickKind describes one palette entry.
type BrickKind struct {
	Color  core.Color
	Points int
	Empty  bool // Leaves a gap instead of placing a brick
}

// Palette maps level digits to brick kinds.
type Palette map[int]BrickKind

// Format is what a level file is validated against.
type Format struct {
	Cols    int
	Rows    int
	Palette Palette
}

// Layout places grid cells in world space.
type Layout struct {
	WorldW    float64
	BrickW    float64
	BrickH    float64
	Gap       float64
	TopMargin float64
}

// Grid is a parsed level: Cells[row][col] holds the palette digit.
type Grid struct {
	Cols  int
	Rows  int
	Cells [][]int
}

// Parse validates data against format and returns the digit grid.
func Parse(data []byte, format Format) (*Grid, error) {
	lines := splitLines(string(data))
	if len(lines) != format.Rows {
		return nil, fmt.Errorf("level: want %d rows, got %d: %w", format.Rows, len(lines), ErrRowCount)
	}

	g := &Grid{
		Cols:  format.Cols,
		Rows:  format.Rows,
		Cells: make([][]int, format.Rows),
	}
	for row, line := range lines {
		runes := []rune(line)
		if len(runes) != format.Cols {
			return nil, fmt.Errorf("level: row %d: want %d columns, got %d: %w", row, format.Cols, len(runes), ErrColumnCount)
		}

		g.Cells[row] = make([]int, format.Cols)
		for col, ch := range runes {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("level: row %d col %d: %q: %w", row, col, ch, ErrInvalidBrickType)
			}
			digit := int(ch - '0')
			if _, ok := format.Palette[digit]; !ok {
				return nil, fmt.Errorf("level: row %d col %d: %d: %w", row, col, digit, ErrBrickTypeNotInPool)
			}
			g.Cells[row][col] = digit
		}
	}
	if g.Count(format.Palette) == 0 {
		return nil, fmt.Errorf("level: every cell is empty: %w", ErrNoBricks)
	}
	return g, nil
}

// splitLines splits on line breaks without yielding a trailing empty line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Origin returns the world-space top-left corner of the cell at row, col.
// The field is centered horizontally and pushed down by the top margin.
func (l Layout) Origin(cols, row, col int) core.Vec2 {
	stepX := l.BrickW + l.Gap
	stepY := l.BrickH + l.Gap
	shift := core.V(l.WorldW/2-float64(cols)/2*stepX, l.TopMargin)
	return core.V(float64(col)*stepX, float64(row)*stepY).Add(shift)
}

// Bricks returns the store for this grid. Empty palette entries place
// nothing; ids follow row-major order.
func (g *Grid) Bricks(layout Layout, palette Palette) *physics.BrickStore {
	store := physics.NewBrickStore(g.Cols * g.Rows)
	for row, cells := range g.Cells {
		for col, digit := range cells {
			kind := palette[digit]
			if kind.Empty {
				continue
			}
			origin := layout.Origin(g.Cols, row, col)
			store.Add(physics.Brick{
				Rect:   core.NewRect(origin.X, origin.Y, layout.BrickW, layout.BrickH),
				Type:   digit,
				Points: kind.Points,
			})
		}
	}
	return store
}

// Count returns how many bricks the grid places.
func (g *Grid) Count(palette Palette) int {
	n := 0
	for _, cells := range g.Cells {
		for _, digit := range cells {
			if !palette[digit].Empty {
				n++
			}
		}
	}
	return n
}

// String renders the grid back into level file form.
func (g *Grid) String() string {
	var sb strings.Builder
	for _, cells := range g.Cells {
		for _, digit := range cells {
			sb.WriteByte(byte('0' + digit))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
