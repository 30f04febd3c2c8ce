package physics

import (
	"iter"

	"github.com/vovakirdan/tankoid/internal/core"
)

// BrickID is a stable handle into a BrickStore. IDs are never reused
// within one store.
type BrickID int

// NoBrick is the zero-value sentinel for "no brick".
const NoBrick BrickID = -1

// Brick is a destructible rectangle with a palette type.
type Brick struct {
	Rect   core.Rect
	Type   int // Palette digit from the level file
	Points int
}

type brickSlot struct {
	brick Brick
	alive bool
}

// BrickStore is an arena of bricks. Slots are stable and carry a live
// flag, so selecting a brick and removing it are separate steps that never
// disturb iteration order or other ids.
type BrickStore struct {
	slots []brickSlot
	live  int
}

// NewBrickStore creates an empty store with room for capacity bricks.
func NewBrickStore(capacity int) *BrickStore {
	return &BrickStore{slots: make([]brickSlot, 0, capacity)}
}

// Add inserts a live brick and returns its id.
func (s *BrickStore) Add(b Brick) BrickID {
	s.slots = append(s.slots, brickSlot{brick: b, alive: true})
	s.live++
	return BrickID(len(s.slots) - 1)
}

// Get returns the brick for id, whether live or destroyed.
func (s *BrickStore) Get(id BrickID) (Brick, bool) {
	if !s.valid(id) {
		return Brick{}, false
	}
	return s.slots[id].brick, true
}

// Alive reports whether id refers to a brick that has not been removed.
func (s *BrickStore) Alive(id BrickID) bool {
	return s.valid(id) && s.slots[id].alive
}

// Remove destroys the brick. It returns false if id is unknown or the
// brick was already removed, so a brick is destroyed exactly once.
func (s *BrickStore) Remove(id BrickID) bool {
	if !s.Alive(id) {
		return false
	}
	s.slots[id].alive = false
	s.live--
	return true
}

// Restore marks a removed brick live again. Used when applying snapshots.
func (s *BrickStore) Restore(id BrickID) bool {
	if !s.valid(id) || s.slots[id].alive {
		return false
	}
	s.slots[id].alive = true
	s.live++
	return true
}

// Len returns the number of live bricks.
func (s *BrickStore) Len() int {
	return s.live
}

// Slots returns the number of bricks ever added.
func (s *BrickStore) Slots() int {
	return len(s.slots)
}

// Live yields the id and rectangle of every live brick in id order.
func (s *BrickStore) Live() iter.Seq2[BrickID, core.Rect] {
	return func(yield func(BrickID, core.Rect) bool) {
		for i := range s.slots {
			if !s.slots[i].alive {
				continue
			}
			if !yield(BrickID(i), s.slots[i].brick.Rect) {
				return
			}
		}
	}
}

// Bricks yields every live brick with its full data.
func (s *BrickStore) Bricks() iter.Seq2[BrickID, Brick] {
	return func(yield func(BrickID, Brick) bool) {
		for i := range s.slots {
			if !s.slots[i].alive {
				continue
			}
			if !yield(BrickID(i), s.slots[i].brick) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the store.
func (s *BrickStore) Clone() *BrickStore {
	clone := &BrickStore{
		slots: make([]brickSlot, len(s.slots)),
		live:  s.live,
	}
	copy(clone.slots, s.slots)
	return clone
}

func (s *BrickStore) valid(id BrickID) bool {
	return id >= 0 && int(id) < len(s.slots)
}
