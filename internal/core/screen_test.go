package core

import (
	"strings"
	"testing"
)

// rowText returns row y of s as plain text.
func rowText(s *Screen, y int) string {
	var sb strings.Builder
	for x := range s.Width() {
		sb.WriteRune(s.GetCell(x, y).Rune)
	}
	return sb.String()
}

func TestNewScreenClampsNegativeSize(t *testing.T) {
	s := NewScreen(-4, 3)
	if s.Width() != 0 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 0x3", s.Width(), s.Height())
	}
	if got := s.String(); got != "\n\n" {
		t.Errorf("String() = %q, want two empty-row separators", got)
	}

	s.Resize(5, -1)
	if s.Width() != 5 || s.Height() != 0 || s.String() != "" {
		t.Errorf("after Resize(5, -1): %dx%d %q", s.Width(), s.Height(), s.String())
	}
}

func TestScreenColoredCells(t *testing.T) {
	s := NewScreen(6, 2)
	s.SetColored(2, 1, '●', ColorYellow)
	s.Set(3, 1, '=')

	if got := s.GetCell(2, 1); got != (Cell{Rune: '●', Color: ColorYellow}) {
		t.Errorf("GetCell(2, 1) = %+v", got)
	}
	if got := s.GetCell(3, 1); got.Color != ColorDefault {
		t.Errorf("Set should use the default color, got %v", got.Color)
	}

	// Writes off the buffer are dropped and reads come back blank.
	s.SetColored(6, 0, 'X', ColorRed)
	s.SetColored(0, -1, 'X', ColorRed)
	for _, p := range [][2]int{{6, 0}, {0, -1}, {-1, 1}, {0, 2}} {
		if got := s.GetCell(p[0], p[1]); got != (Cell{Rune: ' '}) {
			t.Errorf("GetCell(%d, %d) = %+v, want blank", p[0], p[1], got)
		}
	}
	if strings.ContainsRune(s.String(), 'X') {
		t.Error("out-of-bounds write leaked into the buffer")
	}

	s.Clear()
	if got := s.GetCell(2, 1); got != (Cell{Rune: ' '}) {
		t.Errorf("Clear left %+v behind", got)
	}
}

func TestScreenDrawRectClips(t *testing.T) {
	s := NewScreen(5, 4)
	r := CellRect{X: 3, Y: 2, W: 4, H: 3}
	if r.Right() != 7 || r.Bottom() != 5 {
		t.Fatalf("Right/Bottom = %d/%d, want 7/5", r.Right(), r.Bottom())
	}
	s.DrawRect(r, '█', ColorBlue)

	want := []string{
		"     ",
		"     ",
		"   ██",
		"   ██",
	}
	for y, w := range want {
		if got := rowText(s, y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if c := s.GetCell(4, 3).Color; c != ColorBlue {
		t.Errorf("rect color = %v, want blue", c)
	}

	// An empty rect draws nothing.
	s.Clear()
	s.DrawRect(CellRect{X: 1, Y: 1, W: 0, H: 2}, '#', ColorRed)
	if strings.ContainsRune(s.String(), '#') {
		t.Error("zero-width rect was drawn")
	}
}

func TestScreenText(t *testing.T) {
	tests := []struct {
		name string
		draw func(s *Screen)
		want string
	}{
		{
			name: "left",
			draw: func(s *Screen) { s.DrawText(1, 0, "Score: 7") },
			want: " Score: 7  ",
		},
		{
			name: "clipped at right edge",
			draw: func(s *Screen) { s.DrawText(8, 0, "Level") },
			want: "        Lev",
		},
		{
			name: "centered counts runes",
			draw: func(s *Screen) { s.DrawTextCentered(0, "▶ GO ◀") },
			want: "  ▶ GO ◀   ",
		},
		{
			name: "right with margin",
			draw: func(s *Screen) { s.DrawTextRight(0, 1, "Bricks: 4") },
			want: " Bricks: 4 ",
		},
		{
			name: "right counts runes",
			draw: func(s *Screen) { s.DrawTextRight(0, 0, "♥♥♥") },
			want: "        ♥♥♥",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(11, 1)
			tt.draw(s)
			if got := s.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScreenLines(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawHLine(0, 1, s.Width(), '─')
	s.DrawVLine(5, 0, 10, '▌', ColorGreen)

	if got := rowText(s, 1); got != "─────▌" {
		t.Errorf("row 1 = %q", got)
	}
	for y := range s.Height() {
		if c := s.GetCell(5, y); c != (Cell{Rune: '▌', Color: ColorGreen}) {
			t.Errorf("edge cell at y=%d = %+v", y, c)
		}
	}
	if c := s.GetCell(0, 1).Color; c != ColorDefault {
		t.Errorf("hline color = %v, want default", c)
	}
}

func TestScreenResizeKeepsCells(t *testing.T) {
	s := NewScreen(4, 3)
	s.SetColored(1, 1, '@', ColorCyan)
	s.SetColored(3, 2, '#', ColorRed)

	s.Resize(2, 5)
	if s.Width() != 2 || s.Height() != 5 {
		t.Fatalf("size = %dx%d, want 2x5", s.Width(), s.Height())
	}
	if got := s.GetCell(1, 1); got != (Cell{Rune: '@', Color: ColorCyan}) {
		t.Errorf("kept cell = %+v", got)
	}
	if got := rowText(s, 4); got != "  " {
		t.Errorf("new row = %q, want blank", got)
	}

	s.Resize(4, 3)
	if got := s.GetCell(3, 2); got != (Cell{Rune: ' '}) {
		t.Errorf("cropped cell came back: %+v", got)
	}
	if want := "    \n @  \n    "; s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
}
