package tankoid

import (
	"math"

	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/physics"
)

// Snapshot contains the complete game state for replay, spectating and
// determinism checks. Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64 `json:"tick"`
	TotalTicks uint64 `json:"total_ticks"`
	Mode       string `json:"mode"`
	State      string `json:"state"`
	Paused     bool   `json:"paused"`
	Score      int    `json:"score"`
	LevelIndex int    `json:"level_index"`
	LevelID    string `json:"level_id"`
	Cycle      int    `json:"cycle"`

	BallX      float64 `json:"ball_x"`
	BallY      float64 `json:"ball_y"`
	BallVX     float64 `json:"ball_vx"`
	BallVY     float64 `json:"ball_vy"`
	BallRadius float64 `json:"ball_radius"`

	PaddleX     float64 `json:"paddle_x"`
	PaddleY     float64 `json:"paddle_y"`
	PaddleWidth float64 `json:"paddle_width"`
	HoldDir     float64 `json:"hold_dir"`
	HoldLeft    int     `json:"hold_left"`

	// Bricks holds the live flag of every brick, indexed by id.
	Bricks          []bool `json:"bricks"`
	BricksRemaining int    `json:"bricks_remaining"`
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	live := make([]bool, g.bricks.Slots())
	for id := range live {
		live[id] = g.bricks.Alive(physics.BrickID(id))
	}

	levelID := ""
	if lvl, ok := g.Level(); ok {
		levelID = lvl.ID
	}

	return Snapshot{
		Tick:       uint64(g.tick),       //#nosec G115 -- tick count is always positive
		TotalTicks: uint64(g.totalTicks), //#nosec G115 -- tick count is always positive
		Mode:       g.mode.String(),
		State:      g.state.String(),
		Paused:     g.paused,
		Score:      g.score,
		LevelIndex: g.levelIndex,
		LevelID:    levelID,
		Cycle:      g.cycle,

		BallX:      g.ball.Position.X,
		BallY:      g.ball.Position.Y,
		BallVX:     g.ball.Velocity.X,
		BallVY:     g.ball.Velocity.Y,
		BallRadius: g.ball.Radius,

		PaddleX:     g.paddle.X,
		PaddleY:     g.paddle.Y,
		PaddleWidth: g.paddle.W,
		HoldDir:     g.holdDir,
		HoldLeft:    g.holdLeft,

		Bricks:          live,
		BricksRemaining: g.bricks.Len(),
	}
}

// ApplySnapshot restores game state from a snapshot. The game must have
// been Reset with the same configuration and levels.
func (g *Game) ApplySnapshot(snap Snapshot) {
	if snap.LevelIndex != g.levelIndex && snap.LevelIndex >= 0 && snap.LevelIndex < len(g.levels) {
		g.startRound(snap.LevelIndex)
	}

	g.tick = int(snap.Tick)             //#nosec G115 -- tick count fits in int
	g.totalTicks = int(snap.TotalTicks) //#nosec G115 -- tick count fits in int
	g.state = parseState(snap.State)
	g.paused = snap.Paused
	g.score = snap.Score
	g.cycle = snap.Cycle
	g.lastHit = nil

	g.ball = physics.Ball{
		Position: core.V(snap.BallX, snap.BallY),
		Velocity: core.V(snap.BallVX, snap.BallVY),
		Radius:   snap.BallRadius,
	}
	g.paddle = core.NewRect(snap.PaddleX, snap.PaddleY, snap.PaddleWidth, g.paddle.H)
	g.holdDir = snap.HoldDir
	g.holdLeft = snap.HoldLeft

	// Restore brick states
	if len(snap.Bricks) == g.bricks.Slots() {
		for id, alive := range snap.Bricks {
			if alive {
				g.bricks.Restore(physics.BrickID(id))
			} else {
				g.bricks.Remove(physics.BrickID(id))
			}
		}
	}
}

func parseState(s string) State {
	for _, st := range []State{StateStart, StateNormal, StateDie, StateWin} {
		if st.String() == s {
			return st
		}
	}
	return StateStart
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + snap.TotalTicks
	h = h*31 + uint64(snap.Score)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.LevelIndex) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Cycle)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.HoldLeft)   //#nosec G115 -- hash computation
	for i := range len(snap.State) {
		h = h*31 + uint64(snap.State[i])
	}

	for _, f := range []float64{
		snap.BallX, snap.BallY, snap.BallVX, snap.BallVY,
		snap.PaddleX, snap.PaddleWidth, snap.HoldDir,
	} {
		h = h*31 + math.Float64bits(f)
	}

	for _, alive := range snap.Bricks {
		h *= 31
		if alive {
			h++
		}
	}
	return h
}

// SpectatorView returns the snapshot for the spectate stream.
func (g *Game) SpectatorView() any {
	return g.Snapshot()
}
