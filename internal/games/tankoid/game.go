// Package tankoid implements the breakout-style frame driver: it owns the
// ball, paddle, bricks and borders, runs the collision arbiter once per
// tick and applies its verdict.
package tankoid

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/games/tankoid/levels"
	"github.com/vovakirdan/tankoid/internal/physics"
	"github.com/vovakirdan/tankoid/internal/registry"
)

// State is the round state machine.
type State int

const (
	StateStart  State = iota // Ball rides the paddle, no physics
	StateNormal              // Ball in play, arbiter runs every tick
	StateDie                 // Ball reached the bottom wall
	StateWin                 // Last brick destroyed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateNormal:
		return "normal"
	case StateDie:
		return "die"
	case StateWin:
		return "win"
	default:
		return "unknown"
	}
}

// Terminal reports whether physics is suspended for good in this round.
func (s State) Terminal() bool {
	return s == StateDie || s == StateWin
}

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Play through levels, done after the last
	ModeEndless                  // Levels cycle, launch speed keeps rising
)

func (m GameMode) String() string {
	if m == ModeEndless {
		return "endless"
	}
	return "campaign"
}

// Package-level settings set once by the CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	levelsDir        string
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetLevelsDir loads levels from dir instead of the builtin set.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetLogger sets the logger used by every game instance.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game implements the tankoid frame driver.
type Game struct {
	mode GameMode

	// World state, owned exclusively by the driver
	ball    physics.Ball
	paddle  core.Rect
	bricks  *physics.BrickStore
	borders []core.Rect

	// Round state
	state      State
	paused     bool
	score      int
	levelIndex int
	cycle      int // Completed passes over the level list (endless)
	tick       int // Ticks in the current round
	totalTicks int
	holdDir    float64
	holdLeft   int
	lastHit    *physics.Candidate

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.TankoidConfig
	fixedCfg   *config.TankoidConfig
	difficulty *config.DifficultyManager
	levels     []levels.Level
	log        *log.Logger

	start          int // 1-based level override for the next Reset
	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates an endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// NewWithConfig creates a game that ignores config files and presets.
func NewWithConfig(mode GameMode, cfg config.TankoidConfig) *Game {
	return &Game{mode: mode, fixedCfg: &cfg}
}

func init() {
	registry.Register("tankoid", func() registry.Game { return New() })
	registry.Register("tankoid_endless", func() registry.Game { return NewEndless() })
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "tankoid_endless"
	}
	return "tankoid"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Tankoid (Endless)"
	}
	return "Tankoid"
}

// Setup is the resolved configuration and level list games are built from.
type Setup struct {
	Config config.TankoidConfig
	Levels []levels.Level
}

// LoadSetup resolves the configuration and levels from the package
// settings. Invalid config files fall back to the defaults.
func LoadSetup() (Setup, error) {
	cfg, err := config.LoadTankoid(configPath)
	if err != nil {
		return Setup{}, err
	}
	if difficultyPreset != "" {
		config.ApplyTankoidPreset(&cfg, difficultyPreset)
	}
	if err := cfg.Validate(); err != nil {
		return Setup{}, err
	}
	lvls, err := loadLevels(cfg)
	if err != nil {
		return Setup{}, err
	}
	return Setup{Config: cfg, Levels: lvls}, nil
}

func loadLevels(cfg config.TankoidConfig) ([]levels.Level, error) {
	loader := levels.Builtin(LevelFormat(cfg))
	if levelsDir != "" {
		loader = levels.NewLoader(levelsDir, LevelFormat(cfg))
	}
	return loader.LoadAll()
}

// Reset starts a new session from the first round.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.log = logger.With("game", g.ID())

	if g.fixedCfg != nil {
		g.cfg = *g.fixedCfg
		lvls, err := loadLevels(g.cfg)
		if err != nil {
			g.log.Error("loading levels", "err", err)
		}
		g.levels = lvls
	} else {
		setup, err := LoadSetup()
		if err != nil {
			g.log.Warn("using default configuration", "err", err)
			setup.Config = config.DefaultTankoidConfig()
			setup.Levels, _ = levels.Builtin(LevelFormat(setup.Config)).LoadAll()
		}
		g.cfg = setup.Config
		g.levels = setup.Levels
	}

	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.borders = Borders(g.cfg)

	g.minScreenW = 40
	g.minScreenH = 16
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	g.score = 0
	g.cycle = 0
	g.totalTicks = 0
	g.paused = false

	first := 0
	if g.start > 0 && len(g.levels) > 0 {
		first = min(g.start, len(g.levels)) - 1
	}
	g.startRound(first)
}

// startRound loads a level and puts the ball on the paddle. Score and
// cycle carry over.
func (g *Game) startRound(index int) {
	g.levelIndex = index
	g.state = StateStart
	g.tick = 0
	g.holdDir, g.holdLeft = 0, 0
	g.lastHit = nil

	if index < len(g.levels) {
		lvl := g.levels[index]
		g.bricks = lvl.Grid.Bricks(LevelLayout(g.cfg), Palette(g.cfg))
		g.log.Info("level loaded", "id", lvl.ID, "name", lvl.Name, "bricks", g.bricks.Len())
	} else {
		g.bricks = physics.NewBrickStore(0)
	}
	if g.bricks.Len() == 0 {
		// Nothing to destroy: the round is won before it starts.
		g.state = StateWin
		g.log.Warn("round has no bricks", "level", index+1)
	}

	width := g.difficulty.PaddleWidth(g.cfg.Paddle.Width, g.score, g.totalTicks)
	g.paddle = paddleRect(g.cfg, g.cfg.World.Width/2, width)
	g.ball = physics.Ball{
		Position: restingBall(g.paddle),
		Radius:   g.cfg.Ball.Radius,
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && g.finished() {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if g.state == StateWin && !g.finished() && (in.Has(core.ActionConfirm) || in.Has(core.ActionLaunch)) {
		g.nextRound()
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.state.Terminal() {
		g.paused = !g.paused
	}
	if g.paused || g.state.Terminal() {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.totalTicks++
	g.updatePaddle(in)

	if g.state == StateStart {
		g.ball.Position = restingBall(g.paddle)
		if in.Has(core.ActionLaunch) {
			g.launch()
		}
		return core.StepResult{State: g.State()}
	}

	return core.StepResult{State: g.State(), Destroyed: g.updateBall()}
}

// updatePaddle moves the paddle at its configured speed. A key press keeps
// the paddle moving for hold_ticks ticks, bridging the gaps between a
// terminal's key repeats.
func (g *Game) updatePaddle(in core.InputFrame) {
	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	if left != right {
		g.holdDir = -1
		if right {
			g.holdDir = 1
		}
		g.holdLeft = max(g.cfg.Paddle.HoldTicks, 1)
	}
	if g.holdLeft == 0 {
		return
	}
	g.holdLeft--

	dx := g.holdDir * g.cfg.Paddle.Speed * g.runtime.TickSeconds()
	x := core.ClampF(g.paddle.X+dx, 0, g.cfg.World.Width-g.paddle.W)
	g.paddle = g.paddle.MoveTo(core.V(x, g.paddle.Y))
}

// launch leaves StateStart with the configured direction and speed.
func (g *Game) launch() {
	dir, ok := core.Normalized(g.cfg.Ball.LaunchDirection.Vec())
	if !ok {
		dir = core.V(0, -1)
	}
	speed := g.difficulty.Speed(g.cfg.Ball.Speed, g.score, g.totalTicks)
	if limit := g.speedLimit(dir); speed > limit {
		g.log.Warn("launch speed capped", "speed", speed, "limit", limit)
		speed = limit
	}
	g.ball.Velocity = dir.Scale(speed)
	g.state = StateNormal
	g.log.Debug("ball launched", "speed", speed, "level", g.levelIndex+1)
}

// speedLimit keeps the per-tick travel on each axis below the thinnest
// collider, so a single sweep per tick cannot step over it.
func (g *Game) speedLimit(dir core.Vec2) float64 {
	dt := g.runtime.TickSeconds()
	axis := max(math.Abs(dir.X), math.Abs(dir.Y))
	if dt == 0 || axis == 0 {
		return math.Inf(1)
	}
	thinnest := min(2*g.cfg.Ball.Radius, g.cfg.Bricks.Width, g.cfg.Bricks.Height, g.cfg.Paddle.Height)
	return thinnest / (dt * axis) * 0.99
}

// updateBall runs the arbiter once and applies its verdict. Removing the
// winning brick happens here, after Resolve has returned.
func (g *Game) updateBall() []int {
	translation := g.ball.Velocity.Scale(g.runtime.TickSeconds())
	verdict := physics.Resolve(physics.Frame{
		Ball:        g.ball,
		Translation: translation,
		Paddle:      g.paddle,
		Borders:     g.borders,
		Bricks:      g.bricks,
	})
	g.ball.Position = verdict.Position
	g.ball.Velocity = verdict.Velocity
	g.lastHit = verdict.Hit

	if verdict.Hit == nil {
		return nil
	}

	var destroyed []int
	switch hit := verdict.Hit; hit.Target.Kind {
	case physics.TargetBrick:
		id, _ := verdict.Destroyed()
		if g.bricks.Remove(id) {
			b, _ := g.bricks.Get(id)
			g.score += b.Points
			destroyed = []int{int(id)}
			g.log.Debug("brick destroyed", "id", id, "side", hit.Side, "points", b.Points, "left", g.bricks.Len())
		}
		if g.bricks.Len() == 0 {
			g.score += g.cfg.Gameplay.ClearBonus
			g.state = StateWin
			g.log.Info("level cleared", "level", g.levelIndex+1, "score", g.score, "ticks", g.tick)
		}
	case physics.TargetBorder:
		if hit.Target.Index == BorderBottom {
			g.state = StateDie
			g.log.Info("ball lost", "level", g.levelIndex+1, "score", g.score, "ticks", g.tick)
		}
	}
	return destroyed
}

// finished reports whether the session is over: the ball was lost, or the
// last campaign level was cleared.
func (g *Game) finished() bool {
	switch g.state {
	case StateDie:
		return true
	case StateWin:
		return g.mode == ModeCampaign && g.levelIndex >= len(g.levels)-1
	default:
		return false
	}
}

// nextRound advances to the following level, carrying the score.
func (g *Game) nextRound() {
	next := g.levelIndex + 1
	if next >= len(g.levels) {
		next = 0
		g.cycle++
	}
	g.startRound(next)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Level:    g.cycle*len(g.levels) + g.levelIndex + 1,
		GameOver: g.finished(),
		Cleared:  g.state == StateWin,
		Paused:   g.paused,
	}
}

// RoundState returns the state machine position.
func (g *Game) RoundState() State {
	return g.state
}

// Mode returns the game mode.
func (g *Game) Mode() GameMode {
	return g.mode
}

// Config returns the configuration the current session runs with.
func (g *Game) Config() config.TankoidConfig {
	return g.cfg
}

// Level returns the level being played.
func (g *Game) Level() (levels.Level, bool) {
	if g.levelIndex >= len(g.levels) {
		return levels.Level{}, false
	}
	return g.levels[g.levelIndex], true
}

// LevelCount returns the number of loaded levels.
func (g *Game) LevelCount() int {
	return len(g.levels)
}

// Resize updates the screen size without restarting the round.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW, g.runtime.ScreenH = w, h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
}

// StartAt makes the next Reset begin on the given 1-based level.
func (g *Game) StartAt(level int) {
	g.start = level
}

// LevelIndex returns the 0-based index of the level being played.
func (g *Game) LevelIndex() int {
	return g.levelIndex
}

// LevelID returns the id of the level being played.
func (g *Game) LevelID() string {
	if lvl, ok := g.Level(); ok {
		return lvl.ID
	}
	return ""
}

// Campaign reports whether the game runs in campaign mode.
func (g *Game) Campaign() bool {
	return g.mode == ModeCampaign
}

var _ registry.Leveled = (*Game)(nil)
var _ registry.Spectatable = (*Game)(nil)
var _ registry.Resizable = (*Game)(nil)
