package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tankoid/internal/core"
	"github.com/vovakirdan/tankoid/internal/games/tankoid"
	"github.com/vovakirdan/tankoid/internal/games/tankoid/levels"
)

// MenuItem is a game selection: which variant and where to start.
type MenuItem struct {
	GameID string
	Title  string
	Level  int // 0 = start from the beginning, otherwise 1-based level
}

type menuEntry struct {
	label  string
	gameID string
	levels bool // opens the level selector
}

// MenuModel is the Bubble Tea model for the mode and level picker.
type MenuModel struct {
	entries        []menuEntry
	cursor         int
	levels         []levels.Level
	levelCursor    int
	inLevelSelect  bool
	loadErr        error
	width          int
	height         int
	svc            Services
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. Levels come from the configured
// level set.
func NewMenuModel(svc Services, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		svc:       svc,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}

	setup, err := tankoid.LoadSetup()
	if err != nil {
		m.loadErr = err
		svc.logger().Warn("menu could not load levels", "err", err)
	}
	m.levels = setup.Levels

	m.entries = []menuEntry{
		{label: fmt.Sprintf("Campaign (%d levels)", len(m.levels)), gameID: "tankoid"},
		{label: "Endless", gameID: "tankoid_endless"},
		{label: "Select Level...", gameID: "tankoid", levels: true},
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleModeSelectKey(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleModeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.levels) == 0 {
			return m, nil
		}
		entry := m.entries[m.cursor]
		if entry.levels {
			m.inLevelSelect = true
			m.levelCursor = 0
			return m, nil
		}
		m.selected = &MenuItem{GameID: entry.gameID, Title: entry.label}
		return m, tea.Quit // Exit menu to start game

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

func (m MenuModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}

	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}

	case MenuActionSelect:
		if !m.unlocked(m.levelCursor) {
			return m, nil
		}
		m.selected = &MenuItem{
			GameID: "tankoid",
			Title:  m.levels[m.levelCursor].Name,
			Level:  m.levelCursor + 1,
		}
		return m, tea.Quit

	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

// unlocked reports whether a level may be picked. Without a progress
// tracker every level is open.
func (m MenuModel) unlocked(index int) bool {
	if m.svc.Progress == nil {
		return true
	}
	return m.svc.Progress.Unlocked(index)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewModeSelect()
}

func (m MenuModel) viewModeSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("T A N K O I D", m.width))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(centerText("Levels failed to load:", m.width))
		b.WriteString("\n")
		b.WriteString(centerText(m.loadErr.Error(), m.width))
		b.WriteString("\n\n")
	} else {
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
	}

	for i, entry := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+entry.label, m.width))
		b.WriteString("\n")
	}

	if p := m.svc.Progress; p != nil && p.Completed() {
		b.WriteString("\n")
		b.WriteString(centerText("* Campaign complete *", m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	for i, lvl := range m.levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		status := ""
		switch {
		case !m.unlocked(i):
			status = "  [locked]"
		case m.svc.Progress != nil && m.svc.Progress.BestScore(lvl.ID) > 0:
			status = fmt.Sprintf("  best %d", m.svc.Progress.BestScore(lvl.ID))
		}

		line := fmt.Sprintf("%s%2d. %-12s%s", cursor, i+1, lvl.Name, status)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Level           int
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(svc Services, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(svc, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result, nil
	}

	if sel := m.Selected(); sel != nil && !m.IsQuitting() {
		result.GameID = sel.GameID
		result.Level = sel.Level
	} else {
		result.Quit = true
	}

	return result, nil
}
