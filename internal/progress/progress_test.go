package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// testManager opens a throwaway gdata manager, or nil when the platform
// data directory is unavailable.
func testManager(t *testing.T) *gdata.Manager {
	t.Helper()
	appName := fmt.Sprintf("tankoid_test_%d", time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return manager
}

func TestTrackerInitialUnlocks(t *testing.T) {
	tr := NewTracker(nil, "")
	if tr.Persistent() {
		t.Error("nil manager tracker should not be persistent")
	}
	if !tr.Unlocked(0) {
		t.Error("first level must be unlocked")
	}
	if tr.Unlocked(1) {
		t.Error("second level must be locked before any clear")
	}
	if tr.Unlocked(-1) {
		t.Error("negative index must be locked")
	}
	if tr.HighestCleared() != -1 {
		t.Errorf("HighestCleared = %d, want -1", tr.HighestCleared())
	}
}

func TestTrackerMarkCleared(t *testing.T) {
	tr := NewTracker(nil, "builtin")

	if err := tr.MarkCleared(0, "0000", 800, false); err != nil {
		t.Fatalf("MarkCleared: %v", err)
	}
	if !tr.Unlocked(1) || tr.Unlocked(2) {
		t.Error("clearing level 0 should unlock exactly level 1")
	}
	if tr.BestScore("0000") != 800 {
		t.Errorf("BestScore = %d, want 800", tr.BestScore("0000"))
	}

	// A lower replay score and lower index never regress progress.
	if err := tr.MarkCleared(0, "0000", 300, false); err != nil {
		t.Fatalf("MarkCleared: %v", err)
	}
	if tr.BestScore("0000") != 800 || tr.HighestCleared() != 0 {
		t.Error("progress regressed on a worse replay")
	}

	tr.MarkCleared(3, "0003", 5000, true)
	if !tr.Completed() || !tr.Unlocked(4) {
		t.Error("final clear should complete the campaign")
	}

	tr.Reset()
	if tr.HighestCleared() != -1 || tr.Completed() || tr.BestScore("0000") != 0 {
		t.Error("Reset should forget progress")
	}
}

func TestTrackerPersists(t *testing.T) {
	manager := testManager(t)
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	tr := NewTracker(manager, "builtin")
	if err := tr.Load(); err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if err := tr.MarkCleared(1, "0001", 1200, false); err != nil {
		t.Fatalf("MarkCleared: %v", err)
	}

	reloaded := NewTracker(manager, "builtin")
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.HighestCleared() != 1 || reloaded.BestScore("0001") != 1200 {
		t.Errorf("reloaded progress = %d/%d", reloaded.HighestCleared(), reloaded.BestScore("0001"))
	}

	other := NewTracker(manager, "custom")
	if err := other.Load(); err != nil {
		t.Fatalf("Load(custom): %v", err)
	}
	if other.HighestCleared() != -1 {
		t.Error("level sets must not share progress")
	}
}

func TestSetName(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{nil, "builtin"},
		{[]string{"builtin"}, "builtin"},
		{[]string{"/home/Ann/My Levels/"}, "home_ann_my_levels"},
		{[]string{"ssh", "alice@host"}, "ssh_alice_host"},
		{[]string{"..", "--"}, "builtin"},
	}
	for _, tt := range tests {
		if got := SetName(tt.parts...); got != tt.want {
			t.Errorf("SetName(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
