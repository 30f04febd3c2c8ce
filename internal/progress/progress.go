// Package progress persists campaign unlocks between runs.
//
// Progress is stored as a YAML blob in the platform data directory through
// gdata. A Tracker without a backing manager keeps progress in memory only.
package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application name used for the data directory.
const AppName = "tankoid"

const progressObject = "progress"

// Record is the persisted progress of one level set.
type Record struct {
	// HighestCleared is the index of the furthest cleared level, -1 if none.
	HighestCleared int            `yaml:"highest_cleared"`
	BestScores     map[string]int `yaml:"best_scores,omitempty"`
	Completed      bool           `yaml:"completed"`
}

func newRecord() Record {
	return Record{HighestCleared: -1, BestScores: map[string]int{}}
}

// SetName builds a storage key from free-form parts such as a levels
// directory or an SSH user name. Runs of other characters become '_'.
func SetName(parts ...string) string {
	var b strings.Builder
	sep := false
	for _, part := range parts {
		for _, r := range strings.ToLower(part) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				if sep && b.Len() > 0 {
					b.WriteByte('_')
				}
				b.WriteRune(r)
				sep = false
				continue
			}
			sep = true
		}
		sep = true
	}
	if b.Len() == 0 {
		return "builtin"
	}
	return b.String()
}

// Tracker reads and writes campaign progress. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	manager *gdata.Manager // nil means memory only
	set     string
	record  Record
}

// Open creates a tracker backed by the platform data directory. If the
// data directory is unavailable the tracker works in memory and the error
// is returned alongside it.
func Open(set string) (*Tracker, error) {
	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return NewTracker(nil, set), fmt.Errorf("progress: cannot open data dir: %w", err)
	}
	t := NewTracker(manager, set)
	return t, t.Load()
}

// NewTracker creates a tracker for the given level set. manager may be nil.
func NewTracker(manager *gdata.Manager, set string) *Tracker {
	if set == "" {
		set = "builtin"
	}
	return &Tracker{manager: manager, set: set, record: newRecord()}
}

// Persistent reports whether progress survives the process.
func (t *Tracker) Persistent() bool {
	return t.manager != nil
}

// Load reads the stored record. A missing record resets to no progress.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.record = newRecord()
	if t.manager == nil || !t.manager.ObjectPropExists(progressObject, t.set) {
		return nil
	}

	data, err := t.manager.LoadObjectProp(progressObject, t.set)
	if err != nil {
		return fmt.Errorf("progress: cannot load %s: %w", t.set, err)
	}

	rec := newRecord()
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("progress: cannot decode %s: %w", t.set, err)
	}
	if rec.BestScores == nil {
		rec.BestScores = map[string]int{}
	}
	t.record = rec
	return nil
}

func (t *Tracker) save() error {
	if t.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(t.record)
	if err != nil {
		return fmt.Errorf("progress: cannot encode %s: %w", t.set, err)
	}
	if err := t.manager.SaveObjectProp(progressObject, t.set, data); err != nil {
		return fmt.Errorf("progress: cannot save %s: %w", t.set, err)
	}
	return nil
}

// Unlocked reports whether the level at index may be started.
// The first level and the one after the furthest cleared are open.
func (t *Tracker) Unlocked(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return index >= 0 && index <= t.record.HighestCleared+1
}

// HighestCleared returns the index of the furthest cleared level, or -1.
func (t *Tracker) HighestCleared() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.HighestCleared
}

// BestScore returns the best score reached when clearing a level.
func (t *Tracker) BestScore(levelID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.BestScores[levelID]
}

// Completed reports whether the whole campaign has been finished.
func (t *Tracker) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record.Completed
}

// MarkCleared records that the level at index was cleared with score.
// last marks the final level of the campaign.
func (t *Tracker) MarkCleared(index int, levelID string, score int, last bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := false
	if index > t.record.HighestCleared {
		t.record.HighestCleared = index
		changed = true
	}
	if levelID != "" && score > t.record.BestScores[levelID] {
		t.record.BestScores[levelID] = score
		changed = true
	}
	if last && !t.record.Completed {
		t.record.Completed = true
		changed = true
	}
	if !changed {
		return nil
	}
	return t.save()
}

// Reset forgets all progress for the level set.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record = newRecord()
	return t.save()
}
