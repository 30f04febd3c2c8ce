package tankoid

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/physics"
)

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}

func newTestGame(t *testing.T, mode GameMode) *Game {
	t.Helper()
	g := NewWithConfig(mode, config.DefaultTankoidConfig())
	g.Reset(testRuntime)
	if g.LevelCount() == 0 {
		t.Fatal("no builtin levels loaded")
	}
	return g
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// leaveOneBrick removes every brick but the first live one and parks the
// ball just below it, moving straight up.
func leaveOneBrick(t *testing.T, g *Game) physics.Brick {
	t.Helper()
	var keep physics.Brick
	first := true
	for id, b := range g.bricks.Bricks() {
		if first {
			keep, first = b, false
			continue
		}
		g.bricks.Remove(id)
	}
	if first {
		t.Fatal("level has no bricks")
	}
	g.state = StateNormal
	g.ball.Position = core.V(keep.Rect.Center().X, keep.Rect.Bottom()+25)
	g.ball.Velocity = core.V(0, -600)
	return keep
}

func stepUntil(g *Game, limit int, done func() bool) int {
	for i := range limit {
		if done() {
			return i
		}
		g.Step(input())
	}
	return limit
}

func TestInitialLayout(t *testing.T) {
	g := newTestGame(t, ModeCampaign)

	if g.RoundState() != StateStart {
		t.Errorf("state = %v, want start", g.RoundState())
	}
	if want := core.NewRect(442, 718, 140, 30); g.paddle != want {
		t.Errorf("paddle = %v, want %v", g.paddle, want)
	}
	if want := core.V(512, 703); g.ball.Position != want {
		t.Errorf("ball = %v, want %v", g.ball.Position, want)
	}
	if !g.ball.Velocity.IsZero() {
		t.Errorf("ball has velocity before launch: %v", g.ball.Velocity)
	}
	if g.bricks.Len() != 80 {
		t.Errorf("bricks = %d, want 80", g.bricks.Len())
	}
	if len(g.borders) != 4 || g.borders[BorderRight].X != 1024 || g.borders[BorderBottom].Y != 768 {
		t.Errorf("borders = %v", g.borders)
	}
}

func TestStartStateTracksPaddle(t *testing.T) {
	g := newTestGame(t, ModeCampaign)

	for range 5 {
		g.Step(input(core.ActionRight))
	}
	if g.RoundState() != StateStart {
		t.Fatalf("state = %v, want start", g.RoundState())
	}
	if g.paddle.X <= 442 {
		t.Fatalf("paddle did not move: %v", g.paddle.X)
	}
	if g.ball.Position != restingBall(g.paddle) {
		t.Errorf("ball %v not resting on paddle %v", g.ball.Position, g.paddle)
	}
}

func TestLaunch(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.Step(input(core.ActionLaunch))

	if g.RoundState() != StateNormal {
		t.Fatalf("state = %v, want normal", g.RoundState())
	}
	v := g.ball.Velocity
	if math.Abs(core.Length(v)-990) > 1e-9 {
		t.Errorf("speed = %v, want 990", core.Length(v))
	}
	if v.X <= 0 || v.Y >= 0 || math.Abs(v.X+v.Y) > 1e-9 {
		t.Errorf("velocity = %v, want up-right diagonal", v)
	}

	// No way back to the start state.
	before := g.ball.Position
	for range 3 {
		g.Step(input(core.ActionLaunch))
	}
	if g.RoundState() != StateNormal {
		t.Errorf("state = %v after further launches", g.RoundState())
	}
	if g.ball.Position == before {
		t.Error("ball did not move after launch")
	}
}

func TestDieOnBottomBorder(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.state = StateNormal
	g.ball.Position = core.V(100, 740)
	g.ball.Velocity = core.V(0, 600)

	stepUntil(g, 60, func() bool { return g.RoundState() == StateDie })
	if g.RoundState() != StateDie {
		t.Fatalf("state = %v, want die", g.RoundState())
	}
	st := g.State()
	if !st.GameOver || st.Cleared {
		t.Errorf("State = %+v, want game over", st)
	}

	// Physics stays suspended.
	pos := g.ball.Position
	g.Step(input(core.ActionLaunch, core.ActionRight))
	if g.ball.Position != pos || g.RoundState() != StateDie {
		t.Error("terminal state ran physics")
	}

	g.Step(input(core.ActionRestart))
	if g.RoundState() != StateStart || g.State().Score != 0 {
		t.Errorf("restart: state %v score %d", g.RoundState(), g.State().Score)
	}
}

func TestWinAndAdvanceCarriesScore(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	brick := leaveOneBrick(t, g)

	var destroyed []int
	stepUntil(g, 60, func() bool { return g.RoundState() != StateNormal })
	if g.RoundState() != StateWin {
		t.Fatalf("state = %v, want win", g.RoundState())
	}
	want := brick.Points + g.cfg.Gameplay.ClearBonus
	st := g.State()
	if st.Score != want || !st.Cleared || st.GameOver {
		t.Errorf("State = %+v, want score %d cleared, not over", st, want)
	}
	if g.lastHit == nil || g.lastHit.Side != physics.SideBottom {
		t.Errorf("last hit = %+v, want bottom face", g.lastHit)
	}

	res := g.Step(input(core.ActionConfirm))
	destroyed = append(destroyed, res.Destroyed...)
	if g.RoundState() != StateStart || g.levelIndex != 1 {
		t.Errorf("after confirm: state %v level %d", g.RoundState(), g.levelIndex)
	}
	if g.State().Score != want {
		t.Errorf("score not carried: %d, want %d", g.State().Score, want)
	}
	if len(destroyed) != 0 {
		t.Errorf("advancing destroyed bricks: %v", destroyed)
	}
}

func TestCampaignCompleteIsGameOver(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.startRound(g.LevelCount() - 1)
	leaveOneBrick(t, g)

	stepUntil(g, 60, func() bool { return g.RoundState() != StateNormal })
	st := g.State()
	if !st.GameOver || !st.Cleared {
		t.Fatalf("State = %+v, want campaign complete", st)
	}
	g.Step(input(core.ActionConfirm))
	if g.RoundState() != StateWin {
		t.Errorf("confirm after campaign end changed state to %v", g.RoundState())
	}
}

func TestRoundWithoutBricksIsWon(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	cells := g.levels[0].Grid.Cells
	for row := range cells {
		for col := range cells[row] {
			cells[row][col] = 9 // Empty in the default palette
		}
	}
	g.startRound(0)

	if g.bricks.Len() != 0 {
		t.Fatalf("bricks = %d, want 0", g.bricks.Len())
	}
	if g.RoundState() != StateWin {
		t.Fatalf("state = %v, want win", g.RoundState())
	}
	st := g.State()
	if !st.Cleared || st.GameOver {
		t.Errorf("State = %+v, want cleared with levels left", st)
	}

	g.Step(input(core.ActionConfirm))
	if g.levelIndex != 1 || g.RoundState() != StateStart {
		t.Errorf("after confirm: level %d state %v", g.levelIndex, g.RoundState())
	}
}

func TestEndlessCyclesLevels(t *testing.T) {
	g := newTestGame(t, ModeEndless)
	last := g.LevelCount() - 1
	g.startRound(last)
	leaveOneBrick(t, g)

	stepUntil(g, 60, func() bool { return g.RoundState() != StateNormal })
	if g.State().GameOver {
		t.Fatal("endless mode ended after clearing a level")
	}
	g.Step(input(core.ActionLaunch))
	if g.levelIndex != 0 || g.cycle != 1 {
		t.Errorf("level %d cycle %d, want 0 and 1", g.levelIndex, g.cycle)
	}
	if got, want := g.State().Level, g.LevelCount()+1; got != want {
		t.Errorf("Level = %d, want %d", got, want)
	}
}

func TestPauseFreezesPhysics(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.Step(input(core.ActionLaunch))
	g.Step(input(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("not paused")
	}

	pos := g.ball.Position
	for range 10 {
		g.Step(input(core.ActionLeft))
	}
	if g.ball.Position != pos {
		t.Error("ball moved while paused")
	}

	g.Step(input(core.ActionPause))
	if g.State().Paused || g.RoundState() != StateNormal {
		t.Error("unpause failed")
	}
}

func TestPaddleHoldTicks(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	start := g.paddle.X
	step := g.cfg.Paddle.Speed / float64(testRuntime.TickRate)

	g.Step(input(core.ActionRight))
	for range 20 {
		g.Step(input())
	}
	want := start + step*float64(g.cfg.Paddle.HoldTicks)
	if math.Abs(g.paddle.X-want) > 1e-9 {
		t.Errorf("paddle.X = %v, want %v", g.paddle.X, want)
	}

	// Pressing both directions cancels further input but lets a hold run out.
	g.Step(input(core.ActionLeft, core.ActionRight))
	if math.Abs(g.paddle.X-want) > 1e-9 {
		t.Errorf("opposing keys moved the paddle to %v", g.paddle.X)
	}
}

func TestPaddleClampedToWorld(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	for range 200 {
		g.Step(input(core.ActionRight))
	}
	if want := g.cfg.World.Width - g.paddle.W; g.paddle.X != want {
		t.Errorf("paddle.X = %v, want %v", g.paddle.X, want)
	}
	for range 200 {
		g.Step(input(core.ActionLeft))
	}
	if g.paddle.X != 0 {
		t.Errorf("paddle.X = %v, want 0", g.paddle.X)
	}
}

func TestZeroTickRateFreezesBall(t *testing.T) {
	g := NewWithConfig(ModeCampaign, config.DefaultTankoidConfig())
	rt := testRuntime
	rt.TickRate = 0
	g.Reset(rt)
	g.Step(input(core.ActionLaunch))

	pos := g.ball.Position
	for range 10 {
		res := g.Step(input())
		if len(res.Destroyed) != 0 {
			t.Fatal("brick destroyed with zero elapsed time")
		}
	}
	if g.ball.Position != pos || !pos.IsFinite() {
		t.Errorf("ball moved with zero elapsed time: %v -> %v", pos, g.ball.Position)
	}
}

func TestAtMostOneBrickPerStep(t *testing.T) {
	g := newTestGame(t, ModeEndless)
	g.Step(input(core.ActionLaunch))

	seen := make(map[int]bool)
	for i := range 4000 {
		var in core.InputFrame
		if i%40 < 20 {
			in = input(core.ActionLeft)
		} else {
			in = input(core.ActionRight)
		}
		res := g.Step(in)
		if len(res.Destroyed) > 1 {
			t.Fatalf("tick %d destroyed %d bricks", i, len(res.Destroyed))
		}
		for _, id := range res.Destroyed {
			if seen[id] {
				t.Fatalf("brick %d destroyed twice", id)
			}
			seen[id] = true
		}
		if !g.ball.Position.IsFinite() || !g.ball.Velocity.IsFinite() {
			t.Fatalf("non-finite ball state at tick %d", i)
		}
		if g.RoundState().Terminal() {
			break
		}
	}
	if got := len(seen); got != 80-g.bricks.Len() {
		t.Errorf("reported %d destroyed, store lost %d", got, 80-g.bricks.Len())
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 600)
	for i := range inputs {
		switch {
		case i == 10:
			inputs[i] = input(core.ActionLaunch)
		case i > 10 && i%7 < 3:
			inputs[i] = input(core.ActionRight)
		case i > 10 && i%7 == 5:
			inputs[i] = input(core.ActionLeft)
		default:
			inputs[i] = input()
		}
	}

	run := func() Snapshot {
		g := newTestGame(t, ModeCampaign)
		for _, in := range inputs {
			if g.Step(in).State.GameOver {
				break
			}
		}
		return g.Snapshot()
	}

	s1, s2 := run(), run()
	if s1.Hash() != s2.Hash() {
		t.Errorf("determinism failed: %d != %d", s1.Hash(), s2.Hash())
	}
	if s1.Score != s2.Score || s1.BricksRemaining != s2.BricksRemaining {
		t.Errorf("runs diverged: %+v vs %+v", s1, s2)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.Step(input(core.ActionLaunch))
	for range 120 {
		g.Step(input(core.ActionLeft))
	}
	snap := g.Snapshot()

	h := newTestGame(t, ModeCampaign)
	h.ApplySnapshot(snap)
	got := h.Snapshot()
	if got.Hash() != snap.Hash() {
		t.Fatalf("restored snapshot differs:\n got %+v\nwant %+v", got, snap)
	}

	// Both continue identically.
	for range 60 {
		g.Step(input())
		h.Step(input())
	}
	a, b := g.Snapshot(), h.Snapshot()
	if a.Hash() != b.Hash() {
		t.Error("restored game diverged")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	screen := core.NewScreen(testRuntime.ScreenW, testRuntime.ScreenH)
	g.Render(screen)

	hud, _, _ := strings.Cut(screen.String(), "\n")
	if !strings.HasPrefix(hud, " Score: 0") || !strings.HasSuffix(hud, "Bricks: 80 ") {
		t.Errorf("HUD row = %q", hud)
	}
	if !strings.ContainsRune(screen.String(), BallChar) {
		t.Error("ball not rendered")
	}
	if !strings.Contains(screen.String(), "SPACE to launch") {
		t.Error("start hint missing")
	}

	small := NewWithConfig(ModeCampaign, config.DefaultTankoidConfig())
	small.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 60})
	tiny := core.NewScreen(20, 10)
	small.Render(tiny)
	if !strings.Contains(tiny.String(), "too small") {
		t.Error("expected too-small message")
	}
}

func TestStateString(t *testing.T) {
	for st, want := range map[State]string{
		StateStart:  "start",
		StateNormal: "normal",
		StateDie:    "die",
		StateWin:    "win",
	} {
		if st.String() != want || parseState(want) != st {
			t.Errorf("State %d <-> %q mismatch", st, want)
		}
	}
}

func TestStartAtSelectsLevel(t *testing.T) {
	g := NewWithConfig(ModeCampaign, config.DefaultTankoidConfig())
	g.StartAt(3)
	g.Reset(testRuntime)

	if g.LevelIndex() != 2 {
		t.Fatalf("LevelIndex = %d, want 2", g.LevelIndex())
	}
	if g.LevelID() != "0002" {
		t.Errorf("LevelID = %q, want 0002", g.LevelID())
	}
	if !g.Campaign() || NewEndless().Campaign() {
		t.Error("Campaign() does not follow the mode")
	}

	g.StartAt(99)
	g.Reset(testRuntime)
	if g.LevelIndex() != g.LevelCount()-1 {
		t.Errorf("out of range start = %d, want last level", g.LevelIndex())
	}
}

func TestResizeKeepsRound(t *testing.T) {
	g := newTestGame(t, ModeCampaign)
	g.Step(input(core.ActionLaunch))
	g.Step(input())
	ball := g.ball

	g.Resize(20, 10)
	g.Step(input())
	if g.ball != ball {
		t.Error("simulation advanced on a too-small screen")
	}

	g.Resize(120, 40)
	g.Step(input())
	if g.RoundState() != StateNormal || g.ball == ball {
		t.Error("round did not continue after growing the screen")
	}
}
