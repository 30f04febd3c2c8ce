package physics

import (
	"iter"
	"math"

	"github.com/vovakirdan/tankoid/internal/core"
)

// Ball is a circle; Position is its center.
type Ball struct {
	Position core.Vec2
	Velocity core.Vec2
	Radius   float64
}

// Bounds returns the bounding rectangle used for collision tests.
func (b Ball) Bounds() core.Rect {
	return core.RectAround(b.Position, b.Radius, b.Radius)
}

// Center converts a bounding-rectangle origin back into a ball center.
func (b Ball) Center(origin core.Vec2) core.Vec2 {
	return origin.Add(core.V(b.Radius, b.Radius))
}

// TargetKind tells what a candidate collided with.
type TargetKind int

const (
	TargetPaddle TargetKind = iota + 1
	TargetBorder
	TargetBrick
)

func (k TargetKind) String() string {
	switch k {
	case TargetPaddle:
		return "paddle"
	case TargetBorder:
		return "border"
	case TargetBrick:
		return "brick"
	default:
		return "unknown"
	}
}

// Target identifies a collidable. Index is the border index for
// TargetBorder and the BrickID for TargetBrick; it is unused for the paddle.
type Target struct {
	Kind  TargetKind
	Index int
}

// Candidate is a non-NONE sweep result paired with what was hit.
type Candidate struct {
	Result
	Target Target
}

// Brick returns the brick identity, present only for brick hits.
func (c Candidate) Brick() (BrickID, bool) {
	if c.Target.Kind != TargetBrick {
		return NoBrick, false
	}
	return BrickID(c.Target.Index), true
}

// BrickSet exposes the live bricks to the arbiter. *BrickStore implements it.
type BrickSet interface {
	Live() iter.Seq2[BrickID, core.Rect]
}

// Frame is everything the arbiter reads for one step.
type Frame struct {
	Ball        Ball
	Translation core.Vec2
	Paddle      core.Rect
	Borders     []core.Rect
	Bricks      BrickSet
}

// Verdict is the arbiter's answer for one frame.
type Verdict struct {
	Position core.Vec2 // New ball center
	Velocity core.Vec2
	Hit      *Candidate // Winning candidate, nil when the ball moved freely
}

// Destroyed returns the brick the driver must remove, if any.
func (v Verdict) Destroyed() (BrickID, bool) {
	if v.Hit == nil {
		return NoBrick, false
	}
	return v.Hit.Brick()
}

// Collect sweeps the ball against every collidable in the frame and
// returns the colliding candidates in test order: paddle, borders, bricks.
func Collect(f Frame) []Candidate {
	if f.Translation.IsZero() {
		return nil
	}
	source := f.Ball.Bounds()
	var candidates []Candidate

	record := func(target core.Rect, t Target) {
		if res := Sweep(source, target, f.Translation); res.Hit() {
			candidates = append(candidates, Candidate{Result: res, Target: t})
		}
	}

	record(f.Paddle, Target{Kind: TargetPaddle})
	for i, border := range f.Borders {
		record(border, Target{Kind: TargetBorder, Index: i})
	}
	if f.Bricks != nil {
		for id, rect := range f.Bricks.Live() {
			record(rect, Target{Kind: TargetBrick, Index: int(id)})
		}
	}
	return candidates
}

// Nearest picks the candidate whose corrected position is closest to from.
// The first candidate wins ties.
func Nearest(candidates []Candidate, from core.Vec2) (Candidate, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if d := core.Distance(c.Position, from); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	return candidates[best], true
}

// Resolve runs one collision step. It never mutates the frame; removing a
// destroyed brick is left to the caller.
func Resolve(f Frame) Verdict {
	ball := f.Ball
	if f.Translation.IsZero() || !f.Translation.IsFinite() {
		return Verdict{Position: ball.Position, Velocity: ball.Velocity}
	}

	winner, ok := Nearest(Collect(f), ball.Bounds().Origin())
	if !ok {
		return Verdict{
			Position: ball.Position.Add(f.Translation),
			Velocity: ball.Velocity,
		}
	}

	return Verdict{
		Position: ball.Center(winner.Position),
		Velocity: Reflect(ball.Velocity, winner.Side),
		Hit:      &winner,
	}
}
