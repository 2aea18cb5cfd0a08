// Package env implements the Neon Ride environment engine: a three-lane
// runner whose obstacles approach in depth. The engine is pure state plus
// arithmetic; it never renders, logs or blocks, so the terminal game and
// automated agents drive it the same way through Reset and Step.
package env

// Lane is one of the three road positions, left to right.
type Lane int

const (
	LaneLeft Lane = iota
	LaneCenter
	LaneRight
)

// LaneCount is the number of lanes on the road.
const LaneCount = 3

// Lanes lists every lane in order.
var Lanes = [LaneCount]Lane{LaneLeft, LaneCenter, LaneRight}

// Valid reports whether the lane is on the road.
func (l Lane) Valid() bool {
	return l >= LaneLeft && l <= LaneRight
}

// Move returns the lane reached by taking action a from l.
// Moves that would leave the road keep the current lane.
func (l Lane) Move(a Action) Lane {
	switch a {
	case ActionLeft:
		if l > LaneLeft {
			return l - 1
		}
	case ActionRight:
		if l < LaneRight {
			return l + 1
		}
	}
	return l
}

// LaneSet is a set of lanes.
type LaneSet [LaneCount]bool

// Add inserts a lane into the set.
func (s *LaneSet) Add(l Lane) {
	if l.Valid() {
		s[l] = true
	}
}

// Has reports whether the lane is in the set.
func (s LaneSet) Has(l Lane) bool {
	return l.Valid() && s[l]
}

// Len returns the number of lanes in the set.
func (s LaneSet) Len() int {
	n := 0
	for _, in := range s {
		if in {
			n++
		}
	}
	return n
}

// Full reports whether every lane is in the set.
func (s LaneSet) Full() bool {
	return s.Len() == LaneCount
}

// Action is a per-tick decision.
type Action int

const (
	ActionStay Action = iota
	ActionLeft
	ActionRight
)

// ActionCount is the number of distinct actions.
const ActionCount = 3

// Valid reports whether the action is one of the known actions.
func (a Action) Valid() bool {
	return a >= ActionStay && a <= ActionRight
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionStay:
		return "stay"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	default:
		return "unknown"
	}
}
