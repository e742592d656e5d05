// internal/game/types.go
//
// Core type definitions for the scoring state machine.
// Defines:
//   - Range: closed numeric interval used for sliders and targets.
//   - Difficulty: a named slider range plus the target range it plays against.
//   - State: Idle (no target yet) or Active (target drawn, accepting guesses).
//   - ScoreDelta: everything one guess changed, ready for the client.
//   - Snapshot: the client-safe view of a session.

package game

import (
	"errors"
	"math"
)

var (
	ErrNotStarted   = errors.New("game not started")
	ErrInvalidGuess = errors.New("invalid guess")
)

// Range is the interval [Min, Max].
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether r is finite, strictly positive and non-empty.
func (r Range) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return false
	}
	return r.Min > 0 && r.Max > r.Min
}

// Contains reports whether v lies within r.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Difficulty bounds the component values the client offers (Values) and
// the interval the hidden target is drawn from (Target). It never limits
// what the calculator accepts.
type Difficulty struct {
	Name   string `json:"name"`
	Values Range  `json:"values"`
	Target Range  `json:"target"`
}

// DefaultTarget is the target interval used by the built-in presets.
var DefaultTarget = Range{Min: 10, Max: 500}

var (
	Easy   = Difficulty{Name: "easy", Values: Range{Min: 1, Max: 50}, Target: DefaultTarget}
	Medium = Difficulty{Name: "medium", Values: Range{Min: 1, Max: 100}, Target: DefaultTarget}
	Hard   = Difficulty{Name: "hard", Values: Range{Min: 1, Max: 200}, Target: DefaultTarget}
)

// State is the coarse lifecycle position of a session.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

// ScoreDelta reports the outcome of one submitted guess.
type ScoreDelta struct {
	// Scoring feedback: how close the built circuit came to the target.
	Points     int     `json:"points"`
	Difference float64 `json:"difference"`
	Exact      bool    `json:"exact"`
	Progress   float64 `json:"progress"` // Points/MaxPoints, in (0, 1]

	// Correctness feedback: how close the player's number came to the real total.
	Guess      float64 `json:"guess"`
	Total      float64 `json:"total"`
	Correct    bool    `json:"correct"`
	GuessError float64 `json:"guessError"`

	// Session totals after this guess.
	Attempts    int    `json:"attempts"`
	Score       int    `json:"score"`
	Best        int    `json:"best"` // best single-guess Points this round
	Leaderboard []int  `json:"leaderboard"`
	Hint        string `json:"hint,omitempty"`
}

// Snapshot is a session as shown to the player. The target is only
// exposed once the hint is unlocked.
type Snapshot struct {
	ID          string   `json:"gameId"`
	Difficulty  string   `json:"difficulty"`
	Daily       string   `json:"daily,omitempty"`
	Values      Range    `json:"values"`
	State       State    `json:"state"`
	Attempts    int      `json:"attempts"`
	Score       int      `json:"score"`
	Best        int      `json:"best"`
	Leaderboard []int    `json:"leaderboard"`
	Hint        string   `json:"hint,omitempty"`
	Target      *float64 `json:"target,omitempty"`
}
