// Package physics implements the per-frame collision core: the swept
// rectangle test, the brick arena and the arbiter that picks the single
// nearest collision and reflects the ball off it.
//
// Everything here is pure and synchronous. Callers own all state; the
// package never retains references between calls.
package physics

import (
	"math"

	"github.com/vovakirdan/tankoid/internal/core"
)

// Side identifies which face of a target was struck.
type Side int

const (
	SideNone   Side = iota
	SideLeft        // Mover was travelling right into the target's left face
	SideRight       // Mover was travelling left into the target's right face
	SideTop         // Mover was travelling down into the target's top face
	SideBottom      // Mover was travelling up into the target's bottom face
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Horizontal reports whether the side separates along the x axis.
func (s Side) Horizontal() bool {
	return s == SideLeft || s == SideRight
}

// Result is the outcome of one swept test.
type Result struct {
	Side Side
	// Position is where the mover's origin (top-left) lands if this
	// collision is applied. For SideNone it is the untranslated origin.
	Position core.Vec2
}

// Hit reports whether a collision occurred.
func (r Result) Hit() bool {
	return r.Side != SideNone
}

// Sweep tests source moving by translation against a static target.
//
// The translated source is intersected with target. The narrower overlap
// axis decides the struck face; the sign of the translation on that axis
// decides which of the two faces it is. The returned position pulls the
// mover back along its own direction of travel until it sits flush with
// the target on that axis. Corner-on-corner hits may be classified on
// either axis; that is accepted.
func Sweep(source, target core.Rect, translation core.Vec2) Result {
	none := Result{Side: SideNone, Position: source.Origin()}

	moved := source.Translate(translation)
	overlap, ok := moved.Intersection(target)
	if !ok {
		return none
	}

	dir, ok := core.Normalized(translation)
	if !ok {
		// Stationary overlap: there is no direction to pull back along.
		return none
	}

	horizontal := overlap.W < overlap.H
	// The pullback must run along an axis the mover actually travelled on.
	if horizontal && dir.X == 0 {
		horizontal = false
	} else if !horizontal && dir.Y == 0 {
		horizontal = true
	}

	// A pullback longer than the move means the mover was already inside
	// the target on that axis before it moved. Separate on the other axis
	// when that one fits within the move.
	travel := core.Length(translation)
	pullX, pullY := pullback(overlap.W, dir.X), pullback(overlap.H, dir.Y)
	if horizontal && pullX > travel && pullY <= travel {
		horizontal = false
	} else if !horizontal && pullY > travel && pullX <= travel {
		horizontal = true
	}

	side, pull := SideTop, pullY
	if horizontal {
		side, pull = SideLeft, pullX
		if translation.X < 0 {
			side = SideRight
		}
	} else if translation.Y < 0 {
		side = SideBottom
	}

	// Never pull back past the pre-move origin.
	pos := moved.Origin().Sub(dir.Scale(min(pull, travel)))
	if !pos.IsFinite() {
		return none
	}
	return Result{Side: side, Position: pos}
}

// pullback is the distance along the unit direction needed to undo depth
// on an axis whose direction component is component.
func pullback(depth, component float64) float64 {
	if component == 0 {
		return math.Inf(1)
	}
	return depth / math.Abs(component)
}

// Reflect flips the velocity component on the axis that separates side.
// The orthogonal component is returned untouched.
func Reflect(v core.Vec2, side Side) core.Vec2 {
	switch side {
	case SideLeft, SideRight:
		v.X = -v.X
	case SideTop, SideBottom:
		v.Y = -v.Y
	}
	return v
}
