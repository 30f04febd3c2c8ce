package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tankoid/internal/games/tankoid"
	"github.com/vovakirdan/tankoid/internal/registry"
	"github.com/vovakirdan/tankoid/internal/storage"
)

const maxRuns = 100

// boardView selects what the scoreboard lists.
type boardView int

const (
	boardRuns   boardView = iota // recorded runs of one mode
	boardLevels                  // campaign levels with unlocks and bests
)

// Level status labels.
const (
	levelLocked  = "locked"
	levelOpen    = "open"
	levelCleared = "cleared"
)

var (
	boardTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boardIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardFrame  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardError  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Mode   key.Binding
	View   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.View, k.Filter, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Mode, k.View, k.Filter},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Mode:   key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "mode")),
		View:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "runs/levels")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter result")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// levelRow is one campaign level as the levels view shows it.
type levelRow struct {
	name   string
	bricks int
	best   int
	status string
}

// ScoreboardModel shows recorded runs per mode, filtered by outcome, and
// the campaign's per-level progress.
type ScoreboardModel struct {
	svc      Services
	games    []registry.GameInfo
	game     int
	view     boardView
	filter   storage.Outcome // empty shows every outcome
	runs     []storage.ScoreEntry
	stats    *storage.GameStats
	loadErr  error
	levels   []levelRow
	levelErr error

	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int

	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over the services' store and
// progress tracker. Either may be nil.
func NewScoreboardModel(svc Services, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		svc:    svc,
		games:  registry.List(),
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.loadRuns()
	m.loadLevels()
	m.rebuild()
	return m
}

func (m ScoreboardModel) gameID() string {
	if len(m.games) == 0 {
		return "tankoid"
	}
	return m.games[m.game].ID
}

// loadRuns reads the selected mode's runs and stats.
func (m *ScoreboardModel) loadRuns() {
	m.runs, m.stats, m.loadErr = nil, nil, nil
	if m.svc.Store == nil {
		return
	}
	id := m.gameID()
	if stats, err := m.svc.Store.GetGameStats(id); err == nil {
		m.stats = stats
	}
	m.runs, m.loadErr = m.svc.Store.TopRuns(id, m.filter, maxRuns)
}

// loadLevels builds the campaign rows from the configured level set.
func (m *ScoreboardModel) loadLevels() {
	setup, err := tankoid.LoadSetup()
	if err != nil {
		m.levels, m.levelErr = nil, err
		return
	}
	palette := tankoid.Palette(setup.Config)
	tracker := m.svc.Progress

	m.levels = make([]levelRow, len(setup.Levels))
	for i, lvl := range setup.Levels {
		row := levelRow{name: lvl.Name, bricks: lvl.Grid.Count(palette), status: levelOpen}
		if tracker != nil {
			row.best = tracker.BestScore(lvl.ID)
			switch {
			case i <= tracker.HighestCleared():
				row.status = levelCleared
			case !tracker.Unlocked(i):
				row.status = levelLocked
			}
		}
		m.levels[i] = row
	}
}

// rebuild lays the table out for the current view.
func (m *ScoreboardModel) rebuild() {
	var cols []table.Column
	var rows []table.Row

	switch m.view {
	case boardLevels:
		cols = []table.Column{
			{Title: "#", Width: 3},
			{Title: "Level", Width: 16},
			{Title: "Bricks", Width: 6},
			{Title: "Best", Width: 8},
			{Title: "Status", Width: 8},
		}
		for i, lvl := range m.levels {
			best := "-"
			if lvl.best > 0 {
				best = strconv.Itoa(lvl.best)
			}
			rows = append(rows, table.Row{strconv.Itoa(i + 1), lvl.name, strconv.Itoa(lvl.bricks), best, lvl.status})
		}
	default:
		cols = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Score", Width: 8},
			{Title: "Level", Width: 6},
			{Title: "Result", Width: 9},
			{Title: "Date", Width: 12},
		}
		for i, r := range m.runs {
			rows = append(rows, table.Row{
				"#" + strconv.Itoa(i+1),
				strconv.Itoa(r.Score),
				strconv.Itoa(r.Level),
				string(r.Outcome),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

// nextFilter cycles all -> each outcome -> all.
func nextFilter(cur storage.Outcome) storage.Outcome {
	if cur == "" {
		return storage.Outcomes[0]
	}
	for i, o := range storage.Outcomes {
		if o == cur && i+1 < len(storage.Outcomes) {
			return storage.Outcomes[i+1]
		}
	}
	return ""
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.View):
			if m.view == boardRuns {
				m.view = boardLevels
			} else {
				m.view = boardRuns
			}
			m.rebuild()
			return m, nil

		case m.view == boardRuns && key.Matches(msg, m.keys.Mode):
			if len(m.games) > 0 {
				step := 1
				if msg.String() == "left" {
					step = len(m.games) - 1
				}
				m.game = (m.game + step) % len(m.games)
			}
			m.loadRuns()
			m.rebuild()
			return m, nil

		case m.view == boardRuns && key.Matches(msg, m.keys.Filter):
			m.filter = nextFilter(m.filter)
			m.loadRuns()
			m.rebuild()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.center(boardTitle.Render("T A N K O I D   S C O R E S")))
	b.WriteString("\n\n")

	var body string
	if m.view == boardLevels {
		b.WriteString(m.center(m.tabs([]string{"Runs", "Levels"}, 1)))
		b.WriteString("\n\n")
		body = m.levelsBody()
	} else {
		b.WriteString(m.center(m.tabs([]string{"Runs", "Levels"}, 0)))
		b.WriteString("\n")
		b.WriteString(m.center(m.modeLine()))
		b.WriteString("\n")
		b.WriteString(m.center(m.filterLine()))
		b.WriteString("\n")
		b.WriteString(m.center(m.summary()))
		b.WriteString("\n")
		body = m.runsBody()
	}
	b.WriteString(boardFrame.Render(body))
	b.WriteString("\n")
	b.WriteString(boardMuted.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) center(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

func (m ScoreboardModel) tabs(labels []string, active int) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			out[i] = boardActive.Render(l)
		} else {
			out[i] = boardIdle.Render(l)
		}
	}
	return strings.Join(out, " ")
}

func (m ScoreboardModel) modeLine() string {
	names := make([]string, len(m.games))
	for i, g := range m.games {
		names[i] = g.Title
	}
	return m.tabs(names, m.game)
}

func (m ScoreboardModel) filterLine() string {
	labels := []string{"all"}
	active := 0
	for i, o := range storage.Outcomes {
		labels = append(labels, string(o))
		if o == m.filter {
			active = i + 1
		}
	}
	return m.tabs(labels, active)
}

// summary is the one-line stats digest of the selected mode.
func (m ScoreboardModel) summary() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	return boardMuted.Render(fmt.Sprintf("%d runs  best %d  avg %.0f  furthest level %d  finished %d",
		st.GamesCount, st.HighScore, st.AvgScore, st.BestLevel, st.Finished))
}

func (m ScoreboardModel) runsBody() string {
	switch {
	case m.loadErr != nil:
		return boardError.Render("Could not load runs:\n" + m.loadErr.Error())
	case m.svc.Store == nil:
		return boardMuted.Render("Scores are not being recorded.")
	case len(m.runs) == 0 && m.filter != "":
		return boardMuted.Render(fmt.Sprintf("No %s runs yet.", m.filter))
	case len(m.runs) == 0:
		return boardMuted.Render("No runs recorded yet.")
	}
	return m.table.View()
}

func (m ScoreboardModel) levelsBody() string {
	if m.levelErr != nil {
		return boardError.Render("Could not load levels:\n" + m.levelErr.Error())
	}
	out := m.table.View()
	if p := m.svc.Progress; p != nil && p.Completed() {
		out += "\n" + boardTitle.Render("Campaign complete")
	}
	return out
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(svc Services, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(svc, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
