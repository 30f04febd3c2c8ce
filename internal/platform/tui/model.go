package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tankoid/internal/config"
	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/platform/spectate"
	"github.com/vovakirdan/tankoid/internal/progress"
	"github.com/vovakirdan/tankoid/internal/registry"
	"github.com/vovakirdan/tankoid/internal/storage"
)

// Services are the collaborators a session reports to. Every field is
// optional.
type Services struct {
	Store    *storage.Store
	Progress *progress.Tracker
	Spectate *spectate.Hub
	// BroadcastEvery is the number of ticks between spectator frames.
	BroadcastEvery int
	Logger         *log.Logger
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	svc        Services
	log        *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	gameState  core.GameState
	ticks      int

	embedded    bool // Back returns to a menu instead of quitting
	quitting    bool
	backToMenu  bool
	scoreSaved  bool // Whether the run has been recorded
	clearMarked bool // Whether the current level clear reached progress
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, svc Services, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		svc:        svc,
		log:        svc.logger().With("game", game.ID()),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.log.Info("session started", "fps", m.config.TickRate, "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Actions accumulate until the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.recordRun(m.quitOutcome())
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		st := m.gameState
		if st.GameOver || st.Paused || st.Cleared {
			m.recordRun(m.quitOutcome())
			if !m.embedded {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizable); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.ticks++
	m.inputFrame.Clear()

	if len(result.Destroyed) > 0 {
		m.log.Debug("brick destroyed", "ids", result.Destroyed, "score", m.gameState.Score)
	}

	if m.gameState.Cleared && !m.clearMarked {
		m.markCleared()
		m.clearMarked = true
	} else if !m.gameState.Cleared {
		m.clearMarked = false
	}

	// Record the run once per game over; a restart re-arms it.
	if m.gameState.GameOver && !m.scoreSaved {
		outcome := storage.OutcomeDied
		if m.gameState.Cleared {
			outcome = storage.OutcomeFinished
		}
		m.recordRun(outcome)
	} else if !m.gameState.GameOver {
		m.scoreSaved = false
	}

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if cmd := m.publishCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// quitOutcome classifies a run the player walks away from.
func (m Model) quitOutcome() storage.Outcome {
	switch {
	case m.gameState.GameOver && m.gameState.Cleared:
		return storage.OutcomeFinished
	case m.gameState.GameOver:
		return storage.OutcomeDied
	case m.gameState.Cleared:
		return storage.OutcomeCleared
	default:
		return storage.OutcomeQuit
	}
}

// recordRun saves the current score once. Zero scores are not recorded.
func (m *Model) recordRun(outcome storage.Outcome) {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true
	if m.svc.Store == nil || m.gameState.Score <= 0 {
		return
	}

	_, err := m.svc.Store.SaveRun(storage.ScoreEntry{
		GameID:  m.game.ID(),
		Score:   m.gameState.Score,
		Level:   m.gameState.Level,
		Outcome: outcome,
	})
	if err != nil {
		m.log.Warn("could not save score", "err", err)
		return
	}
	m.log.Info("run recorded", "score", m.gameState.Score, "level", m.gameState.Level, "outcome", outcome)
}

// markCleared reports a level clear to the progress tracker.
func (m *Model) markCleared() {
	lv, ok := m.game.(registry.Leveled)
	if !ok || m.svc.Progress == nil || !lv.Campaign() {
		return
	}
	idx := lv.LevelIndex()
	last := idx == lv.LevelCount()-1
	if err := m.svc.Progress.MarkCleared(idx, lv.LevelID(), m.gameState.Score, last); err != nil {
		m.log.Warn("could not save progress", "err", err)
		return
	}
	m.log.Info("level cleared", "level", lv.LevelID(), "score", m.gameState.Score)
}

// publishCmd returns a command sending the current frame to spectators,
// or nil when no frame is due. The view is captured here; only the
// network write runs off the update loop.
func (m Model) publishCmd() tea.Cmd {
	hub := m.svc.Spectate
	every := max(m.svc.BroadcastEvery, 1)
	if hub == nil || m.ticks%every != 0 {
		return nil
	}
	sp, ok := m.game.(registry.Spectatable)
	if !ok {
		return nil
	}
	view := sp.SpectatorView()
	logger := m.log
	return func() tea.Msg {
		if err := hub.Publish(view); err != nil {
			logger.Warn("spectate publish failed", "err", err)
		}
		return nil
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	base := config.UserDir()
	if base == "" {
		return
	}
	dir := filepath.Join(base, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("could not create screenshot dir", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("could not save screenshot", "err", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// GameState returns the state after the latest tick.
func (m Model) GameState() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, svc Services, cfg core.RuntimeConfig) error {
	model := NewModel(game, svc, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
