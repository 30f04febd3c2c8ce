package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/tankoid/internal/core"
)

// farPaddle sits well outside every scenario below.
var farPaddle = core.NewRect(-5000, -5000, 10, 10)

func TestResolveBorderBounce(t *testing.T) {
	ball := Ball{Position: core.V(100, 100), Velocity: core.V(700, -700), Radius: 10}
	rightBorder := core.NewRect(1024, -1000, 1000, 2768)
	translation := core.V(920, -920) // Right edge ends at 1030

	v := Resolve(Frame{
		Ball:        ball,
		Translation: translation,
		Paddle:      farPaddle,
		Borders:     []core.Rect{rightBorder},
	})

	if v.Hit == nil {
		t.Fatal("expected a collision with the border")
	}
	if v.Hit.Side != SideLeft {
		t.Errorf("Side = %v, want left", v.Hit.Side)
	}
	if v.Hit.Target.Kind != TargetBorder || v.Hit.Target.Index != 0 {
		t.Errorf("Target = %+v, want border 0", v.Hit.Target)
	}
	if _, ok := v.Destroyed(); ok {
		t.Error("border hit must not destroy a brick")
	}
	if v.Velocity.X != -700 {
		t.Errorf("Velocity.X = %v, want -700", v.Velocity.X)
	}
	if math.Float64bits(v.Velocity.Y) != math.Float64bits(ball.Velocity.Y) {
		t.Errorf("Velocity.Y = %v, want unchanged %v", v.Velocity.Y, ball.Velocity.Y)
	}
	if want := rightBorder.X - ball.Radius; !near(v.Position.X, want) {
		t.Errorf("Position.X = %v, want flush at %v", v.Position.X, want)
	}
}

func TestResolveBounceDoesNotStick(t *testing.T) {
	ball := Ball{Position: core.V(100, 100), Velocity: core.V(700, -700), Radius: 10}
	borders := []core.Rect{core.NewRect(1024, -1000, 1000, 2768)}

	first := Resolve(Frame{
		Ball:        ball,
		Translation: core.V(920, -920),
		Paddle:      farPaddle,
		Borders:     borders,
	})
	if first.Hit == nil || first.Hit.Side != SideLeft {
		t.Fatalf("setup: expected left hit, got %+v", first.Hit)
	}

	ball.Position, ball.Velocity = first.Position, first.Velocity
	dt := 1.0 / 60
	second := Resolve(Frame{
		Ball:        ball,
		Translation: ball.Velocity.Scale(dt),
		Paddle:      farPaddle,
		Borders:     borders,
	})
	if second.Hit != nil {
		t.Errorf("reversed ball collided again: %+v", second.Hit)
	}
	if second.Position.X >= first.Position.X {
		t.Errorf("ball did not move away: %v -> %v", first.Position.X, second.Position.X)
	}
}

func TestResolveNearestBrickWins(t *testing.T) {
	store := NewBrickStore(2)
	// Added first so id order alone would pick it.
	far := store.Add(Brick{Rect: core.NewRect(125, 100, 50, 25)})
	nearer := store.Add(Brick{Rect: core.NewRect(115, 90, 50, 25)})

	ball := Ball{Position: core.V(100, 100), Velocity: core.V(600, 0), Radius: 10}
	frame := Frame{
		Ball:        ball,
		Translation: core.V(20, 0),
		Paddle:      farPaddle,
		Bricks:      store,
	}

	if n := len(Collect(frame)); n != 2 {
		t.Fatalf("Collect found %d candidates, want 2", n)
	}

	v := Resolve(frame)
	id, ok := v.Destroyed()
	if !ok || id != nearer {
		t.Fatalf("Destroyed() = %v, %v; want %v", id, ok, nearer)
	}
	if v.Hit.Side != SideLeft {
		t.Errorf("Side = %v, want left", v.Hit.Side)
	}
	if !near(v.Position.X, 105) {
		t.Errorf("Position.X = %v, want 105", v.Position.X)
	}

	// Arbiter never mutates the store.
	if store.Len() != 2 {
		t.Fatalf("Resolve removed a brick: Len = %d", store.Len())
	}
	if !store.Remove(id) {
		t.Fatal("Remove of winning brick failed")
	}
	if store.Remove(id) {
		t.Error("brick removed twice")
	}
	if !store.Alive(far) {
		t.Error("farther brick should remain live")
	}

	// Next frame the farther brick is still tested.
	cands := Collect(frame)
	if len(cands) != 1 {
		t.Fatalf("Collect after removal found %d candidates, want 1", len(cands))
	}
	if got, _ := cands[0].Brick(); got != far {
		t.Errorf("remaining candidate = %v, want %v", got, far)
	}
}

func TestResolveDestroysAtMostOneBrick(t *testing.T) {
	store := NewBrickStore(9)
	for row := range 3 {
		for col := range 3 {
			store.Add(Brick{Rect: core.NewRect(float64(col)*12, float64(row)*12, 10, 10)})
		}
	}
	// A large ball swept across the whole grid overlaps all nine bricks.
	ball := Ball{Position: core.V(-30, 15), Velocity: core.V(1, 0), Radius: 20}
	frame := Frame{
		Ball:        ball,
		Translation: core.V(45, 0.5),
		Paddle:      farPaddle,
		Bricks:      store,
	}

	if n := len(Collect(frame)); n < 2 {
		t.Fatalf("setup: expected several overlapping bricks, got %d", n)
	}

	v := Resolve(frame)
	if _, ok := v.Destroyed(); !ok {
		t.Fatal("expected a brick hit")
	}
	if store.Len() != 9 {
		t.Errorf("Resolve mutated the store: Len = %d", store.Len())
	}
}

func TestResolveZeroTranslation(t *testing.T) {
	store := NewBrickStore(1)
	store.Add(Brick{Rect: core.NewRect(95, 95, 10, 10)}) // Overlaps the ball already
	ball := Ball{Position: core.V(100, 100), Velocity: core.V(700, -700), Radius: 10}
	frame := Frame{
		Ball:    ball,
		Paddle:  core.NewRect(90, 90, 40, 40),
		Borders: []core.Rect{core.NewRect(0, 0, 1000, 1000)},
		Bricks:  store,
	}

	if cands := Collect(frame); cands != nil {
		t.Errorf("Collect evaluated candidates on a zero translation: %v", cands)
	}

	v := Resolve(frame)
	if v.Hit != nil {
		t.Errorf("Hit = %+v, want nil", v.Hit)
	}
	if v.Position != ball.Position || v.Velocity != ball.Velocity {
		t.Errorf("ball changed: %v %v", v.Position, v.Velocity)
	}
	if !v.Position.IsFinite() || !v.Velocity.IsFinite() {
		t.Error("non-finite output")
	}
}

func TestResolveFreeFlightIsIntegration(t *testing.T) {
	ball := Ball{Position: core.V(500, 400), Velocity: core.V(313.7, -129.1), Radius: 10}
	borders := []core.Rect{
		core.NewRect(-1000, -1000, 1000, 2768),
		core.NewRect(1024, -1000, 1000, 2768),
	}
	dt := 1.0 / 60
	want := ball.Position

	for range 20 {
		translation := ball.Velocity.Scale(dt)
		v := Resolve(Frame{Ball: ball, Translation: translation, Paddle: farPaddle, Borders: borders})
		if v.Hit != nil {
			t.Fatalf("unexpected hit: %+v", v.Hit)
		}
		want = want.Add(translation)
		if v.Position != want {
			t.Fatalf("Position = %v, want %v", v.Position, want)
		}
		if v.Velocity != ball.Velocity {
			t.Fatalf("Velocity changed in free flight: %v", v.Velocity)
		}
		ball.Position = v.Position
	}
}

func TestResolvePaddleBounce(t *testing.T) {
	paddle := core.NewRect(400, 700, 140, 30)
	ball := Ball{Position: core.V(470, 685), Velocity: core.V(300, 600), Radius: 10}

	v := Resolve(Frame{Ball: ball, Translation: core.V(5, 10), Paddle: paddle})
	if v.Hit == nil || v.Hit.Target.Kind != TargetPaddle {
		t.Fatalf("Hit = %+v, want paddle", v.Hit)
	}
	if v.Hit.Side != SideTop {
		t.Errorf("Side = %v, want top", v.Hit.Side)
	}
	if v.Velocity != core.V(300, -600) {
		t.Errorf("Velocity = %v, want (300, -600)", v.Velocity)
	}
	if bottom := v.Position.Y + ball.Radius; !near(bottom, paddle.Y) {
		t.Errorf("ball bottom = %v, want flush at %v", bottom, paddle.Y)
	}
}

func TestNearestFirstWinsTies(t *testing.T) {
	from := core.V(0, 0)
	cands := []Candidate{
		{Result: Result{Side: SideTop, Position: core.V(3, 4)}, Target: Target{Kind: TargetPaddle}},
		{Result: Result{Side: SideLeft, Position: core.V(4, 3)}, Target: Target{Kind: TargetBorder, Index: 2}},
		{Result: Result{Side: SideLeft, Position: core.V(6, 8)}, Target: Target{Kind: TargetBrick, Index: 7}},
	}

	got, ok := Nearest(cands, from)
	if !ok {
		t.Fatal("Nearest returned nothing")
	}
	if got.Target.Kind != TargetPaddle {
		t.Errorf("winner = %v, want paddle (first of tied)", got.Target.Kind)
	}

	if _, ok := Nearest(nil, from); ok {
		t.Error("Nearest(nil) should report no winner")
	}
}

func TestCandidateBrick(t *testing.T) {
	c := Candidate{Target: Target{Kind: TargetBorder, Index: 3}}
	if _, ok := c.Brick(); ok {
		t.Error("border candidate reported a brick")
	}
	c.Target = Target{Kind: TargetBrick, Index: 3}
	if id, ok := c.Brick(); !ok || id != 3 {
		t.Errorf("Brick() = %v, %v; want 3, true", id, ok)
	}
}
