package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tankoid/internal/progress"
	"github.com/vovakirdan/tankoid/internal/storage"
)

func boardKey(t *testing.T, m ScoreboardModel, msgs ...tea.KeyMsg) ScoreboardModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(ScoreboardModel)
	}
	return m
}

func seedRuns(t *testing.T, store *storage.Store) {
	t.Helper()
	for _, r := range []storage.ScoreEntry{
		{GameID: "tankoid", Score: 900, Level: 3, Outcome: storage.OutcomeDied},
		{GameID: "tankoid", Score: 2400, Level: 4, Outcome: storage.OutcomeFinished},
		{GameID: "tankoid", Score: 150, Level: 1, Outcome: storage.OutcomeQuit},
		{GameID: "tankoid_endless", Score: 5100, Level: 11, Outcome: storage.OutcomeDied},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
}

func TestScoreboardRunsFilterAndMode(t *testing.T) {
	store := openModelStore(t)
	seedRuns(t, store)
	m := NewScoreboardModel(Services{Store: store}, 100, 30)

	if got := m.gameID(); got != "tankoid" {
		t.Fatalf("first mode = %s, want tankoid", got)
	}
	if len(m.runs) != 3 || m.runs[0].Score != 2400 {
		t.Fatalf("runs = %+v", m.runs)
	}
	if !strings.Contains(m.View(), "3 runs") {
		t.Error("summary line missing")
	}

	m = boardKey(t, m, runeKey("f"))
	if m.filter != storage.OutcomeDied || len(m.runs) != 1 || m.runs[0].Score != 900 {
		t.Errorf("died filter: filter=%q runs=%+v", m.filter, m.runs)
	}

	m = boardKey(t, m, runeKey("f"))
	if m.filter != storage.OutcomeCleared || len(m.runs) != 0 {
		t.Errorf("cleared filter: filter=%q runs=%d", m.filter, len(m.runs))
	}
	if !strings.Contains(m.View(), "No cleared runs yet.") {
		t.Error("empty filter should say so")
	}

	m = boardKey(t, m, runeKey("f"), runeKey("f"), runeKey("f"))
	if m.filter != "" || len(m.runs) != 3 {
		t.Errorf("filter did not wrap to all: %q with %d runs", m.filter, len(m.runs))
	}

	m = boardKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.gameID() != "tankoid_endless" || len(m.runs) != 1 || m.runs[0].Level != 11 {
		t.Errorf("endless mode: %s %+v", m.gameID(), m.runs)
	}
	m = boardKey(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.gameID() != "tankoid" {
		t.Errorf("left should return to campaign, got %s", m.gameID())
	}
}

func TestScoreboardLevelsFollowProgress(t *testing.T) {
	tracker := progress.NewTracker(nil, "")
	m := NewScoreboardModel(Services{Progress: tracker}, 100, 30)
	if m.levelErr != nil || len(m.levels) < 3 {
		t.Fatalf("levels = %d, err = %v", len(m.levels), m.levelErr)
	}

	if err := tracker.MarkCleared(0, "0000", 730, false); err != nil {
		t.Fatalf("MarkCleared: %v", err)
	}
	// Rows are read when the board opens.
	m = NewScoreboardModel(Services{Progress: tracker}, 100, 30)
	m = boardKey(t, m, runeKey("v"))
	if m.view != boardLevels {
		t.Fatal("v should switch to the levels view")
	}

	want := []struct {
		best   int
		status string
	}{
		{730, levelCleared},
		{0, levelOpen},
		{0, levelLocked},
	}
	for i, w := range want {
		if got := m.levels[i]; got.best != w.best || got.status != w.status {
			t.Errorf("levels[%d] = %+v, want best %d %s", i, got, w.best, w.status)
		}
		if m.levels[i].bricks <= 0 {
			t.Errorf("levels[%d] has no bricks", i)
		}
	}
	view := m.View()
	if !strings.Contains(view, "730") || !strings.Contains(view, levelLocked) {
		t.Errorf("levels view missing best score or lock:\n%s", view)
	}

	// Filter keys do nothing outside the runs view.
	m = boardKey(t, m, runeKey("f"))
	if m.filter != "" {
		t.Error("filter changed in the levels view")
	}
	m = boardKey(t, m, runeKey("v"))
	if m.view != boardRuns {
		t.Error("v should toggle back to runs")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(Services{}, 60, 20)
	if !strings.Contains(m.View(), "not being recorded") {
		t.Error("missing store not reported")
	}
	for _, lvl := range m.levels {
		if lvl.status != levelOpen {
			t.Errorf("without progress every level is open, got %s", lvl.status)
		}
	}

	back := boardKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.IsQuitting() || back.View() != "" {
		t.Error("esc should go back")
	}
	quit := boardKey(t, m, runeKey("q"))
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}
